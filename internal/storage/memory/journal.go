// Package memory provides an in-memory journal store mirroring the bun one.
// It backs tests and deployments that want the diagnostics trail without a
// database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-broadcast/pkg/domain"
	"github.com/goliatone/go-broadcast/pkg/interfaces/store"
	"github.com/google/uuid"
)

// JournalRepository keeps journal entries in a map guarded by a RWMutex.
type JournalRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]domain.BroadcastRecord
}

var _ store.JournalRepository = (*JournalRepository)(nil)

// NewJournalRepository returns an empty in-memory journal.
func NewJournalRepository() *JournalRepository {
	return &JournalRepository{records: make(map[uuid.UUID]domain.BroadcastRecord)}
}

// Create appends one journal entry.
func (r *JournalRepository) Create(ctx context.Context, record *domain.BroadcastRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.EnsureID()
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	r.records[record.ID] = *record
	return nil
}

// GetByID fetches one journal entry.
func (r *JournalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BroadcastRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copy := record
	return &copy, nil
}

// List pages through journal entries ordered by creation time.
func (r *JournalRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.BroadcastRecord], error) {
	return r.filtered(opts, func(domain.BroadcastRecord) bool { return true })
}

// ListByEvent pages through entries for one event name.
func (r *JournalRepository) ListByEvent(ctx context.Context, event string, opts store.ListOptions) (store.ListResult[domain.BroadcastRecord], error) {
	return r.filtered(opts, func(rec domain.BroadcastRecord) bool { return rec.Event == event })
}

// Purge hard-deletes entries created before the cutoff.
func (r *JournalRepository) Purge(ctx context.Context, olderThan time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, record := range r.records {
		if record.CreatedAt.Before(olderThan) {
			delete(r.records, id)
			removed++
		}
	}
	return removed, nil
}

func (r *JournalRepository) filtered(opts store.ListOptions, match func(domain.BroadcastRecord) bool) (store.ListResult[domain.BroadcastRecord], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []domain.BroadcastRecord
	for _, record := range r.records {
		if !match(record) {
			continue
		}
		if !opts.Since.IsZero() && record.CreatedAt.Before(opts.Since) {
			continue
		}
		if !opts.Until.IsZero() && record.CreatedAt.After(opts.Until) {
			continue
		}
		filtered = append(filtered, record)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
	})

	total := len(filtered)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := total
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}

	return store.ListResult[domain.BroadcastRecord]{
		Items: filtered[start:end],
		Total: total,
	}, nil
}
