// Package transport defines the point-to-point channel that crosses the
// isolation boundary between two realms. Sends are asynchronous, one-way,
// and best-effort: a realm on the far side of a trust boundary may reject
// the message, and the relay treats that as a skipped hop, never a failure
// of the whole fan-out.
package transport

import (
	"context"

	"github.com/goliatone/go-broadcast/pkg/domain"
	"github.com/goliatone/go-broadcast/pkg/interfaces/topology"
)

// Transport delivers a wrapped envelope to one realm.
type Transport interface {
	Send(ctx context.Context, to topology.Realm, w domain.Wrapper) error
}

// Handler is invoked when the transport delivers a message to a realm.
type Handler func(ctx context.Context, sender topology.Realm, w domain.Wrapper)

// Nop transport drops every send.
type Nop struct{}

var _ Transport = (*Nop)(nil)

func (n *Nop) Send(ctx context.Context, to topology.Realm, w domain.Wrapper) error {
	return nil
}

// Func adapts a function to the Transport interface.
type Func func(ctx context.Context, to topology.Realm, w domain.Wrapper) error

var _ Transport = (Func)(nil)

// Send satisfies the Transport interface.
func (f Func) Send(ctx context.Context, to topology.Realm, w domain.Wrapper) error {
	if f == nil {
		return nil
	}
	return f(ctx, to, w)
}
