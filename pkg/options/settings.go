package options

import (
	"github.com/goliatone/go-broadcast/pkg/broadcast"
	"github.com/goliatone/go-broadcast/pkg/domain"
)

// Setting paths recognised by the resolver.
const (
	PathEncrypt = "encrypt"
	PathSeal    = "seal"
	PathTarget  = "target"
	PathDebug   = "debug"
)

// BroadcastOptions collapses the merged layers into per-call broadcast
// options. Paths absent from every layer keep their zero value.
func BroadcastOptions(r *Resolver) broadcast.Options {
	out := broadcast.Options{}
	if r == nil {
		return out
	}
	if v, _, err := r.ResolveBool(PathEncrypt); err == nil {
		out.Encrypt = v
	}
	if v, _, err := r.ResolveBool(PathSeal); err == nil {
		out.Seal = v
	}
	if v, _, err := r.ResolveString(PathTarget); err == nil {
		out.Target = domain.OriginID(v)
	}
	if v, _, err := r.ResolveBool(PathDebug); err == nil {
		out.Debug = v
	}
	return out
}
