// Package broadcast is the public entry point: construct one Service per
// realm, attach its HandleMessage to the realm's inbound transport, and call
// Broadcast to reach every realm in the tree.
package broadcast

import (
	"context"
	"errors"

	"github.com/goliatone/go-broadcast/internal/relay"
	"github.com/goliatone/go-broadcast/pkg/domain"
	"github.com/goliatone/go-broadcast/pkg/interfaces/topology"
)

// Re-export the relay types callers need.
type (
	Options         = relay.Options
	Dependencies    = relay.Dependencies
	RelayJobPayload = relay.RelayJobPayload
)

// Re-export validation errors so callers can match them with errors.Is.
var (
	ErrInvalidEventName = relay.ErrInvalidEventName
	ErrInvalidPayload   = relay.ErrInvalidPayload
	ErrCipherKeyMissing = relay.ErrCipherKeyMissing
)

// Service exposes one realm's broadcast operations.
type Service struct {
	internal *relay.Service
}

// New constructs the public façade.
func New(deps Dependencies) (*Service, error) {
	internalSvc, err := relay.New(deps)
	if err != nil {
		return nil, err
	}
	return &Service{internal: internalSvc}, nil
}

// Origin returns this realm's identity, stable for the service's lifetime.
func (s *Service) Origin() domain.OriginID {
	if s == nil || s.internal == nil {
		return ""
	}
	return s.internal.Origin()
}

// Broadcast fires the event locally and relays it across the tree.
func (s *Service) Broadcast(ctx context.Context, name string, data any, opts Options) error {
	if s == nil || s.internal == nil {
		return errServiceNotInitialised
	}
	return s.internal.Broadcast(ctx, name, data, opts)
}

// HandleMessage is the inbound transport handler for this realm.
func (s *Service) HandleMessage(ctx context.Context, sender topology.Realm, w domain.Wrapper) {
	if s == nil || s.internal == nil {
		return
	}
	s.internal.HandleMessage(ctx, sender, w)
}

// ProcessRelay executes one deferred relay hop (invoked by queue workers).
func (s *Service) ProcessRelay(ctx context.Context, payload RelayJobPayload) error {
	if s == nil || s.internal == nil {
		return errServiceNotInitialised
	}
	return s.internal.ProcessRelay(ctx, payload)
}

var errServiceNotInitialised = errors.New("broadcast: service not initialised")
