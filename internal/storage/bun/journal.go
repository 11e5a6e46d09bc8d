// Package bunrepo persists the broadcast journal through bun. The journal is
// write-heavy and append-only: the relay records one row per envelope it sees
// and operators query it after the fact to trace propagation paths.
package bunrepo

import (
	"context"
	"time"

	"github.com/goliatone/go-broadcast/pkg/domain"
	"github.com/goliatone/go-broadcast/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// JournalRepository is the bun-backed journal store.
type JournalRepository struct {
	repo repository.Repository[*domain.BroadcastRecord]
	db   *bun.DB
}

var _ store.JournalRepository = (*JournalRepository)(nil)

// NewJournalRepository builds the journal repository on the given DB handle.
func NewJournalRepository(db *bun.DB) *JournalRepository {
	handlers := repository.ModelHandlers[*domain.BroadcastRecord]{
		NewRecord:          func() *domain.BroadcastRecord { return &domain.BroadcastRecord{} },
		GetID:              func(r *domain.BroadcastRecord) uuid.UUID { return r.ID },
		SetID:              func(r *domain.BroadcastRecord, id uuid.UUID) { r.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(r *domain.BroadcastRecord) string { return r.ID.String() },
	}
	return &JournalRepository{
		repo: repository.MustNewRepository[*domain.BroadcastRecord](db, handlers),
		db:   db,
	}
}

// Create appends one journal entry.
func (r *JournalRepository) Create(ctx context.Context, record *domain.BroadcastRecord) error {
	record.EnsureID()
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	_, err := r.repo.Create(ctx, record)
	return mapError(err)
}

// GetByID fetches one journal entry.
func (r *JournalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BroadcastRecord, error) {
	record, err := r.repo.Get(ctx, withID(id))
	if err != nil {
		return nil, mapError(err)
	}
	return record, nil
}

// List pages through journal entries ordered by creation time.
func (r *JournalRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.BroadcastRecord], error) {
	return r.list(ctx, withListOptions(opts))
}

// ListByEvent pages through entries for one event name.
func (r *JournalRepository) ListByEvent(ctx context.Context, event string, opts store.ListOptions) (store.ListResult[domain.BroadcastRecord], error) {
	return r.list(ctx, withEvent(event), withListOptions(opts))
}

// Purge hard-deletes entries created before the cutoff.
func (r *JournalRepository) Purge(ctx context.Context, olderThan time.Time) (int, error) {
	res, err := r.db.NewDelete().
		Model((*domain.BroadcastRecord)(nil)).
		Where("created_at < ?", olderThan).
		ForceDelete().
		Exec(ctx)
	if err != nil {
		return 0, mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (r *JournalRepository) list(ctx context.Context, criteria ...repository.SelectCriteria) (store.ListResult[domain.BroadcastRecord], error) {
	records, total, err := r.repo.List(ctx, criteria...)
	if err != nil {
		return store.ListResult[domain.BroadcastRecord]{}, mapError(err)
	}
	items := make([]domain.BroadcastRecord, len(records))
	for i, rec := range records {
		items[i] = *rec
	}
	return store.ListResult[domain.BroadcastRecord]{Items: items, Total: total}, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if repository.IsRecordNotFound(err) {
		return store.ErrNotFound
	}
	return err
}
