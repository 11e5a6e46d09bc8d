// Package bus defines the local event facility each realm already provides:
// named events, arbitrary structured payloads, many independent listeners per
// name. The relay dispatches into it and never implements it; Local is an
// in-memory implementation for hosts and tests that have no facility of
// their own.
package bus

import (
	"context"

	"github.com/goliatone/go-broadcast/pkg/domain"
)

// Handler receives a locally fired event.
type Handler func(ctx context.Context, event string, detail domain.JSONMap)

// Bus is the local dispatch facility. Event names contain a ":" namespace
// separator; implementations must treat names as opaque strings.
type Bus interface {
	Dispatch(ctx context.Context, event string, detail domain.JSONMap) error
	Subscribe(event string, handler Handler) (func(), error)
}

// Nop bus drops dispatches and subscriptions.
type Nop struct{}

var _ Bus = (*Nop)(nil)

func (n *Nop) Dispatch(ctx context.Context, event string, detail domain.JSONMap) error {
	return nil
}

func (n *Nop) Subscribe(event string, handler Handler) (func(), error) {
	return func() {}, nil
}

// Func adapts a dispatch function to the Bus interface. Subscriptions are
// no-ops; use it when the host only needs to observe dispatches.
type Func func(ctx context.Context, event string, detail domain.JSONMap) error

var _ Bus = (Func)(nil)

func (f Func) Dispatch(ctx context.Context, event string, detail domain.JSONMap) error {
	if f == nil {
		return nil
	}
	return f(ctx, event, detail)
}

func (f Func) Subscribe(event string, handler Handler) (func(), error) {
	return func() {}, nil
}
