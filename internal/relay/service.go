// Package relay implements the broadcast propagation protocol: envelopes fan
// out from the originating realm to its parent and children, each receiving
// realm re-enters the same publish path to fire locally and forward onward,
// and the dedup cache stops the recursion once every realm has seen the
// broadcast.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-broadcast/internal/cipher"
	"github.com/goliatone/go-broadcast/internal/dedupe"
	"github.com/goliatone/go-broadcast/internal/identity"
	"github.com/goliatone/go-broadcast/pkg/config"
	"github.com/goliatone/go-broadcast/pkg/domain"
	"github.com/goliatone/go-broadcast/pkg/interfaces/bus"
	"github.com/goliatone/go-broadcast/pkg/interfaces/logger"
	"github.com/goliatone/go-broadcast/pkg/interfaces/queue"
	"github.com/goliatone/go-broadcast/pkg/interfaces/store"
	"github.com/goliatone/go-broadcast/pkg/interfaces/topology"
	"github.com/goliatone/go-broadcast/pkg/interfaces/transport"
	"github.com/goliatone/go-broadcast/pkg/redact"
)

var (
	// ErrInvalidEventName rejects names without a ":" namespace separator.
	ErrInvalidEventName = errors.New("relay: event name requires a namespace separator")
	// ErrInvalidPayload rejects payloads that are not structured maps.
	ErrInvalidPayload = errors.New("relay: payload must be a structured map")
	// ErrCipherKeyMissing rejects sealed broadcasts without a configured key.
	ErrCipherKeyMissing = errors.New("relay: seal requested without a configured key")

	errSelfRequired      = errors.New("relay: self realm is required")
	errTopologyRequired  = errors.New("relay: topology is required")
	errTransportRequired = errors.New("relay: transport is required")
)

// Options control a single broadcast.
type Options struct {
	// Encrypt obfuscates the detail in transit with the BE codec; the key is
	// the envelope origin, so this defeats casual inspection only.
	Encrypt bool
	// Seal encrypts the detail under the module's pre-shared key. Realms
	// without the key relay the opaque detail onward untouched.
	Seal bool
	// Target restricts local firing to the realm with this origin identity.
	// Relay hops still forward the envelope so a target buried deeper in the
	// tree is reached.
	Target domain.OriginID
	// Debug enables per-hop diagnostics; carried in the envelope so every
	// hop agrees.
	Debug bool
}

// Dependencies groups the collaborators required by the relay.
type Dependencies struct {
	Self      topology.Realm
	Topology  topology.Topology
	Transport transport.Transport
	Bus       bus.Bus
	Journal   store.JournalRepository
	Queue     queue.Queue
	Logger    logger.Logger
	Config    config.RelayConfig
	Cipher    config.CipherConfig
}

// Service owns one realm's view of the protocol: its origin identity, its
// dedup cache, and its links to the local bus and the tree.
type Service struct {
	self      topology.Realm
	origin    domain.OriginID
	cache     *dedupe.Cache
	topology  topology.Topology
	transport transport.Transport
	bus       bus.Bus
	journal   store.JournalRepository
	queue     queue.Queue
	logger    logger.Logger
	cfg       config.RelayConfig
	sealKey   []byte
}

// RelayJobPayload describes one deferred relay hop.
type RelayJobPayload struct {
	Target  topology.Realm
	Wrapper domain.Wrapper
}

// New builds the relay service and mints the realm's origin identity.
func New(deps Dependencies) (*Service, error) {
	if deps.Self == nil {
		return nil, errSelfRequired
	}
	if deps.Topology == nil {
		return nil, errTopologyRequired
	}
	if deps.Transport == nil {
		return nil, errTransportRequired
	}
	if deps.Bus == nil {
		deps.Bus = &bus.Nop{}
	}
	if deps.Journal == nil {
		deps.Journal = &store.NopJournal{}
	}
	if deps.Queue == nil {
		deps.Queue = &queue.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	sealKey, err := deps.Cipher.SealKeyBytes()
	if err != nil {
		return nil, err
	}

	origin := identity.New(deps.Self.ID())
	return &Service{
		self:      deps.Self,
		origin:    origin,
		cache:     dedupe.New(deps.Config.DedupeTTL),
		topology:  deps.Topology,
		transport: deps.Transport,
		bus:       deps.Bus,
		journal:   deps.Journal,
		queue:     deps.Queue,
		logger:    deps.Logger.With(logger.Field{Key: "origin", Value: string(origin)}),
		cfg:       deps.Config,
		sealKey:   sealKey,
	}, nil
}

// Origin returns this realm's identity, stable for the service's lifetime.
func (s *Service) Origin() domain.OriginID {
	return s.origin
}

// Broadcast fires the event on the local bus (subject to targeting) and
// relays it to every other realm in the tree. Validation failures surface
// synchronously before anything fires or relays; everything afterwards is
// fire-and-forget.
func (s *Service) Broadcast(ctx context.Context, name string, data any, opts Options) error {
	if !strings.Contains(name, ":") {
		return ErrInvalidEventName
	}
	detail, err := coercePayload(data)
	if err != nil {
		return err
	}
	if opts.Seal && len(s.sealKey) == 0 {
		return ErrCipherKeyMissing
	}

	// First write wins: a relay hop re-entering this path must not overwrite
	// the identities stamped by the realm that created the broadcast.
	detail = detail.Clone()
	if _, ok := detail[domain.OriginKey]; !ok {
		detail[domain.OriginKey] = string(s.origin)
	}
	if opts.Target != "" {
		if _, ok := detail[domain.TargetKey]; !ok {
			detail[domain.TargetKey] = string(opts.Target)
		}
	}
	origin := stampedID(detail, domain.OriginKey)
	target := stampedID(detail, domain.TargetKey)

	// The local fire always sees plaintext; encoding happens on the wire
	// detail only.
	wire := any(detail)
	if opts.Seal || opts.Encrypt {
		raw, err := json.Marshal(detail)
		if err != nil {
			return fmt.Errorf("relay: serialize payload: %w", err)
		}
		if opts.Seal {
			sealed, err := cipher.Seal(string(raw), s.sealKey)
			if err != nil {
				return err
			}
			wire = sealed
		} else {
			encoded, err := cipher.Encode(string(raw), string(origin))
			if err != nil {
				return err
			}
			wire = encoded
		}
	}

	s.propagate(ctx, name, detail, wire, nil, origin, target, opts.Debug || s.cfg.Debug)
	return nil
}

// HandleMessage is the inbound side of the transport: it unwraps a delivered
// envelope and re-enters the propagation path, which both fires the event
// locally (subject to targeting) and continues the relay outward. Malformed
// messages and unrelated traffic are ignored without error.
func (s *Service) HandleMessage(ctx context.Context, sender topology.Realm, w domain.Wrapper) {
	if sender != nil && s.topology.IsSelf(sender, s.self) {
		return
	}
	if !w.Valid() || !strings.Contains(w.Broadcast.Type, ":") {
		return
	}
	env := w.Broadcast

	detail, wire := s.decodeDetail(env)
	s.propagate(ctx, env.Type, detail, wire, env.BroadcastIDs, env.OriginID, env.TargetID, env.Debug)
}

// ProcessRelay executes one deferred relay hop (invoked by queue workers).
func (s *Service) ProcessRelay(ctx context.Context, payload RelayJobPayload) error {
	if payload.Target == nil {
		return nil
	}
	return s.transport.Send(ctx, payload.Target, payload.Wrapper)
}

// propagate is the shared publish path for fresh and relayed broadcasts:
// dedup check, local fire, then fan-out to parent and children.
func (s *Service) propagate(ctx context.Context, name string, detail domain.JSONMap, wire any, carried []string, origin, target domain.OriginID, debug bool) {
	if s.cache.Seen(carried) {
		if debug {
			s.logger.Debug("broadcast suppressed as echo",
				logger.Field{Key: "event", Value: name},
				logger.Field{Key: "hops", Value: len(carried)})
		}
		s.record(ctx, name, origin, target, "", len(carried), true, detail)
		return
	}

	token := identity.MintToken(s.origin, name)
	s.cache.Remember(token)

	env := &domain.Envelope{
		Type:         name,
		Detail:       wire,
		OriginID:     origin,
		TargetID:     target,
		BroadcastIDs: append(append([]string{}, carried...), token),
		Debug:        debug,
	}
	s.record(ctx, name, origin, target, token, len(env.BroadcastIDs), false, detail)

	if target == "" || target == s.origin {
		if err := s.bus.Dispatch(ctx, name, detail); err != nil {
			s.logger.Warn("local dispatch failed",
				logger.Field{Key: "event", Value: name},
				logger.Field{Key: "error", Value: err.Error()})
		}
	} else if debug {
		s.logger.Debug("local dispatch skipped by target",
			logger.Field{Key: "event", Value: name},
			logger.Field{Key: "target", Value: string(target)})
	}

	s.fanOut(ctx, env)
}

// fanOut forwards the envelope to the parent and every direct child. Each
// send failure skips that one hop; the rest are still attempted.
func (s *Service) fanOut(ctx context.Context, env *domain.Envelope) {
	w := domain.Wrap(env)

	var targets []topology.Realm
	if parent, ok := s.topology.Parent(s.self); ok && parent != nil {
		targets = append(targets, parent)
	}
	targets = append(targets, s.topology.Children(s.self)...)

	for _, to := range targets {
		if to == nil || s.topology.IsSelf(to, s.self) {
			continue
		}
		if s.cfg.DeferRelays {
			job := queue.Job{
				Key:     fmt.Sprintf("relay:%s:%s", env.Type, to.ID()),
				Payload: RelayJobPayload{Target: to, Wrapper: w},
			}
			if err := s.queue.Enqueue(ctx, job); err != nil {
				s.logger.Warn("relay enqueue failed",
					logger.Field{Key: "event", Value: env.Type},
					logger.Field{Key: "realm", Value: to.ID()},
					logger.Field{Key: "error", Value: err.Error()})
			}
			continue
		}
		if err := s.transport.Send(ctx, to, w); err != nil {
			// Best-effort: a realm across a trust boundary may reject the
			// message. The hop is skipped, never the fan-out.
			if env.Debug {
				s.logger.Debug("relay send skipped",
					logger.Field{Key: "event", Value: env.Type},
					logger.Field{Key: "realm", Value: to.ID()},
					logger.Field{Key: "error", Value: err.Error()})
			}
		}
	}
}

// decodeDetail recovers the plaintext payload for local dispatch and decides
// what detail form travels onward. Encoded details are forwarded verbatim so
// intermediate realms never weaken in-transit concealment; decode failures
// degrade the local payload to empty instead of failing the receiver.
func (s *Service) decodeDetail(env *domain.Envelope) (domain.JSONMap, any) {
	if m := env.DetailMap(); m != nil {
		return m, m
	}
	raw, ok := env.DetailString()
	if !ok {
		return domain.JSONMap{}, env.Detail
	}

	switch {
	case cipher.IsSealed(raw):
		if len(s.sealKey) == 0 {
			// Not for our eyes; pass the sealed detail along unchanged.
			return domain.JSONMap{}, raw
		}
		plain, err := cipher.Open(raw, s.sealKey)
		if err != nil {
			s.logger.Warn("sealed payload discarded",
				logger.Field{Key: "event", Value: env.Type},
				logger.Field{Key: "error", Value: err.Error()})
			return domain.JSONMap{}, raw
		}
		return unmarshalDetail(s.logger, env.Type, plain), raw
	case cipher.IsEncoded(raw):
		plain, err := cipher.Decode(raw)
		if err != nil {
			s.logger.Warn("encrypted payload discarded",
				logger.Field{Key: "event", Value: env.Type},
				logger.Field{Key: "error", Value: err.Error()})
			return domain.JSONMap{}, raw
		}
		return unmarshalDetail(s.logger, env.Type, plain), raw
	default:
		return domain.JSONMap{}, raw
	}
}

// record writes one journal entry; journal failures never reach the caller.
func (s *Service) record(ctx context.Context, name string, origin, target domain.OriginID, token string, hops int, suppressed bool, detail domain.JSONMap) {
	entry := &domain.BroadcastRecord{
		Event:      name,
		OriginID:   string(origin),
		TargetID:   string(target),
		Token:      token,
		Hops:       hops,
		Suppressed: suppressed,
		Detail:     redact.Detail(detail),
	}
	if err := s.journal.Create(ctx, entry); err != nil {
		s.logger.Warn("journal write failed",
			logger.Field{Key: "event", Value: name},
			logger.Field{Key: "error", Value: err.Error()})
	}
}

func coercePayload(data any) (domain.JSONMap, error) {
	switch v := data.(type) {
	case nil:
		return domain.JSONMap{}, nil
	case domain.JSONMap:
		if v == nil {
			return domain.JSONMap{}, nil
		}
		return v, nil
	case map[string]any:
		if v == nil {
			return domain.JSONMap{}, nil
		}
		return domain.JSONMap(v), nil
	default:
		return nil, ErrInvalidPayload
	}
}

func stampedID(detail domain.JSONMap, key string) domain.OriginID {
	if v, ok := detail[key].(string); ok {
		return domain.OriginID(v)
	}
	return ""
}

func unmarshalDetail(log logger.Logger, event, plain string) domain.JSONMap {
	var detail domain.JSONMap
	if err := json.Unmarshal([]byte(plain), &detail); err != nil {
		log.Warn("decoded payload is not a structured map",
			logger.Field{Key: "event", Value: event},
			logger.Field{Key: "error", Value: err.Error()})
		return domain.JSONMap{}
	}
	return detail
}
