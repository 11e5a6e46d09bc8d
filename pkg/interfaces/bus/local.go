package bus

import (
	"context"
	"sync"

	"github.com/goliatone/go-broadcast/pkg/domain"
)

// Local is an in-memory Bus keyed by exact event name.
type Local struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string]map[int]Handler
}

var _ Bus = (*Local)(nil)

// NewLocal returns an empty in-memory bus.
func NewLocal() *Local {
	return &Local{handlers: make(map[string]map[int]Handler)}
}

// Dispatch fires the event to every listener registered for its name.
// Listeners run synchronously on the caller's goroutine.
func (l *Local) Dispatch(ctx context.Context, event string, detail domain.JSONMap) error {
	l.mu.RLock()
	registered := l.handlers[event]
	handlers := make([]Handler, 0, len(registered))
	for _, h := range registered {
		handlers = append(handlers, h)
	}
	l.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, event, detail)
	}
	return nil
}

// Subscribe registers a listener and returns its removal function.
func (l *Local) Subscribe(event string, handler Handler) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handlers[event] == nil {
		l.handlers[event] = make(map[int]Handler)
	}
	id := l.nextID
	l.nextID++
	l.handlers[event][id] = handler

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.handlers[event], id)
	}, nil
}
