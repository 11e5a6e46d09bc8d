// Package commands re-exports the command catalog for host applications.
package commands

import (
	internalcommands "github.com/goliatone/go-broadcast/internal/commands"
	"github.com/goliatone/go-broadcast/pkg/broadcast"
	"github.com/goliatone/go-broadcast/pkg/interfaces/logger"
	"github.com/goliatone/go-broadcast/pkg/interfaces/store"
	command "github.com/goliatone/go-command"
)

// Re-export request types so consumers need not import internal packages.
type (
	PublishBroadcast = internalcommands.PublishBroadcast
	PurgeJournal     = internalcommands.PurgeJournal
)

// Registry exposes go-command compatible handlers backed by the module services.
type Registry struct {
	Catalog      *internalcommands.Catalog
	Publish      command.Commander[PublishBroadcast]
	RelayHop     command.Commander[broadcast.RelayJobPayload]
	PurgeJournal command.Commander[PurgeJournal]
}

// Dependencies mirror the internal command dependencies but keep them public.
type Dependencies struct {
	Broadcaster *broadcast.Service
	Journal     store.JournalRepository
	Logger      logger.Logger
}

// New builds the registry using the provided dependencies.
func New(deps Dependencies) (*Registry, error) {
	catalog, err := internalcommands.NewCatalog(internalcommands.Dependencies{
		Broadcaster: deps.Broadcaster,
		Journal:     deps.Journal,
		Logger:      deps.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Registry{
		Catalog:      catalog,
		Publish:      catalog.Publish,
		RelayHop:     catalog.RelayHop,
		PurgeJournal: catalog.PurgeJournal,
	}, nil
}

// Commanders returns every handler so callers can register them with
// go-command registries.
func (r *Registry) Commanders() []any {
	if r == nil {
		return nil
	}
	return []any{
		r.Publish,
		r.RelayHop,
		r.PurgeJournal,
	}
}
