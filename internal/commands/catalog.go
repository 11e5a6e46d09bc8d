// Package commands exposes go-command compatible handlers so host transports
// (CLI, cron, queue workers) can drive the broadcast module without importing
// its services directly.
package commands

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-broadcast/internal/relay"
	"github.com/goliatone/go-broadcast/pkg/domain"
	"github.com/goliatone/go-broadcast/pkg/interfaces/logger"
	"github.com/goliatone/go-broadcast/pkg/interfaces/store"
	command "github.com/goliatone/go-command"
)

// Catalog exposes the module operations as command handlers.
type Catalog struct {
	Publish      command.Commander[PublishBroadcast]
	RelayHop     command.Commander[relay.RelayJobPayload]
	PurgeJournal command.Commander[PurgeJournal]
}

type broadcastService interface {
	Broadcast(ctx context.Context, name string, data any, opts relay.Options) error
	ProcessRelay(ctx context.Context, payload relay.RelayJobPayload) error
}

// Dependencies wires the broadcast service and journal into the catalog.
type Dependencies struct {
	Broadcaster broadcastService
	Journal     store.JournalRepository
	Logger      logger.Logger
}

// NewCatalog builds the command catalog using the supplied dependencies.
func NewCatalog(deps Dependencies) (*Catalog, error) {
	if deps.Broadcaster == nil {
		return nil, errors.New("commands: broadcast service is required")
	}
	if deps.Journal == nil {
		deps.Journal = &store.NopJournal{}
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}

	return &Catalog{
		Publish:      publishCommand{svc: deps.Broadcaster},
		RelayHop:     relayHopCommand{svc: deps.Broadcaster},
		PurgeJournal: purgeJournalCommand{journal: deps.Journal, logger: deps.Logger},
	}, nil
}

// PublishBroadcast is the request payload for firing one broadcast.
type PublishBroadcast struct {
	Event   string         `json:"event"`
	Detail  map[string]any `json:"detail"`
	Target  string         `json:"target,omitempty"`
	Encrypt bool           `json:"encrypt,omitempty"`
	Seal    bool           `json:"seal,omitempty"`
	Debug   bool           `json:"debug,omitempty"`
}

type publishCommand struct {
	svc broadcastService
}

func (c publishCommand) Execute(ctx context.Context, msg PublishBroadcast) error {
	var data any
	if msg.Detail != nil {
		data = msg.Detail
	}
	return c.svc.Broadcast(ctx, msg.Event, data, relay.Options{
		Encrypt: msg.Encrypt,
		Seal:    msg.Seal,
		Target:  domain.OriginID(msg.Target),
		Debug:   msg.Debug,
	})
}

type relayHopCommand struct {
	svc broadcastService
}

func (c relayHopCommand) Execute(ctx context.Context, msg relay.RelayJobPayload) error {
	return c.svc.ProcessRelay(ctx, msg)
}

// PurgeJournal removes journal entries older than the retention window.
type PurgeJournal struct {
	Retention time.Duration `json:"retention"`
}

type purgeJournalCommand struct {
	journal store.JournalRepository
	logger  logger.Logger
}

func (c purgeJournalCommand) Execute(ctx context.Context, msg PurgeJournal) error {
	if msg.Retention <= 0 {
		return errors.New("commands: retention must be positive")
	}
	cutoff := time.Now().UTC().Add(-msg.Retention)
	removed, err := c.journal.Purge(ctx, cutoff)
	if err != nil {
		return err
	}
	c.logger.Info("journal purged",
		logger.Field{Key: "removed", Value: removed},
		logger.Field{Key: "cutoff", Value: cutoff.Format(time.RFC3339)})
	return nil
}
