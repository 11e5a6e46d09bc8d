package queue

import (
	"context"
	"time"
)

// Job represents a deferred unit of work (e.g., execute one relay hop later).
type Job struct {
	Key     string
	Payload any
	RunAt   time.Time
}

// Queue represents the go-job compatible enqueue interface used when relay
// hops are deferred to a scheduler instead of sent inline.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
}

// Nop queue swallows jobs (used for tests or inline relaying).
type Nop struct{}

var _ Queue = (*Nop)(nil)

func (n *Nop) Enqueue(ctx context.Context, job Job) error { return nil }
