package store

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-broadcast/pkg/domain"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a record cannot be located.
var ErrNotFound = errors.New("store: not found")

// ListOptions capture pagination and filtering knobs common to repositories.
type ListOptions struct {
	Limit              int
	Offset             int
	Since              time.Time
	Until              time.Time
	IncludeSoftDeleted bool
}

// ListResult bundles records and totals.
type ListResult[T any] struct {
	Items []T
	Total int
}

// JournalRepository persists the diagnostics trail of dedupe decisions.
// Implementations must tolerate high write rates; the relay writes one record
// per envelope it sees and never reads the journal on the propagation path.
type JournalRepository interface {
	Create(ctx context.Context, record *domain.BroadcastRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BroadcastRecord, error)
	List(ctx context.Context, opts ListOptions) (ListResult[domain.BroadcastRecord], error)
	ListByEvent(ctx context.Context, event string, opts ListOptions) (ListResult[domain.BroadcastRecord], error)
	// Purge hard-deletes records created before the cutoff and reports how
	// many were removed.
	Purge(ctx context.Context, olderThan time.Time) (int, error)
}

// NopJournal discards records; used when the journal is disabled.
type NopJournal struct{}

var _ JournalRepository = (*NopJournal)(nil)

func (n *NopJournal) Create(ctx context.Context, record *domain.BroadcastRecord) error {
	return nil
}

func (n *NopJournal) GetByID(ctx context.Context, id uuid.UUID) (*domain.BroadcastRecord, error) {
	return nil, ErrNotFound
}

func (n *NopJournal) List(ctx context.Context, opts ListOptions) (ListResult[domain.BroadcastRecord], error) {
	return ListResult[domain.BroadcastRecord]{}, nil
}

func (n *NopJournal) ListByEvent(ctx context.Context, event string, opts ListOptions) (ListResult[domain.BroadcastRecord], error) {
	return ListResult[domain.BroadcastRecord]{}, nil
}

func (n *NopJournal) Purge(ctx context.Context, olderThan time.Time) (int, error) {
	return 0, nil
}
