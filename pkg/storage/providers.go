// Package storage wires journal repositories for the two supported backends.
package storage

import (
	bunrepo "github.com/goliatone/go-broadcast/internal/storage/bun"
	"github.com/goliatone/go-broadcast/internal/storage/memory"
	"github.com/goliatone/go-broadcast/pkg/domain"
	"github.com/goliatone/go-broadcast/pkg/interfaces/store"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// Providers exposes the repositories needed by the relay and its operators.
type Providers struct {
	Journal store.JournalRepository
}

// NewMemoryProviders returns repositories backed by in-memory maps.
func NewMemoryProviders() Providers {
	return Providers{
		Journal: memory.NewJournalRepository(),
	}
}

// NewBunProviders wires bun-backed repositories. The caller creates the
// *bun.DB instance (potentially via go-persistence-bun) and manages its
// lifecycle.
func NewBunProviders(db *bun.DB) Providers {
	if db == nil {
		panic("storage: bun DB is required")
	}

	// Register models so go-persistence-bun migrations can pick them up.
	persistence.RegisterModel(
		(*domain.BroadcastRecord)(nil),
	)

	return Providers{
		Journal: bunrepo.NewJournalRepository(db),
	}
}
