package bunrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-broadcast/pkg/domain"
	"github.com/goliatone/go-broadcast/pkg/interfaces/store"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupSQLiteDB(t *testing.T) *bun.DB {
	t.Helper()

	// One named in-memory database per test so state never leaks across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqldb, err := sql.Open(sqliteshim.DriverName(), dsn)
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	_, err = db.NewCreateTable().Model((*domain.BroadcastRecord)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func TestJournalRepositoryBun(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewJournalRepository(db)
	ctx := context.Background()

	rec := &domain.BroadcastRecord{
		Event:    "app:ready",
		OriginID: "1a2b3c",
		Token:    "tok-1",
		Hops:     1,
		Detail:   domain.JSONMap{"ok": true},
	}
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.ID == uuid.Nil {
		t.Fatal("expected id to be assigned on create")
	}

	got, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Event != "app:ready" || got.Token != "tok-1" {
		t.Fatalf("unexpected record: %+v", got)
	}

	list, err := repo.List(ctx, store.ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("expected total 1, got %d", list.Total)
	}
}

func TestJournalRepositoryListByEvent(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewJournalRepository(db)
	ctx := context.Background()

	for _, event := range []string{"app:ready", "app:ready", "user:login"} {
		if err := repo.Create(ctx, &domain.BroadcastRecord{Event: event, OriginID: "o"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := repo.ListByEvent(ctx, "app:ready", store.ListOptions{})
	if err != nil {
		t.Fatalf("list by event: %v", err)
	}
	if list.Total != 2 {
		t.Fatalf("expected 2 records, got %d", list.Total)
	}
	for _, item := range list.Items {
		if item.Event != "app:ready" {
			t.Fatalf("unexpected event %s", item.Event)
		}
	}
}

func TestJournalRepositoryPurge(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewJournalRepository(db)
	ctx := context.Background()

	old := &domain.BroadcastRecord{Event: "app:old", OriginID: "o"}
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	if err := repo.Create(ctx, old); err != nil {
		t.Fatalf("create old: %v", err)
	}
	fresh := &domain.BroadcastRecord{Event: "app:new", OriginID: "o"}
	if err := repo.Create(ctx, fresh); err != nil {
		t.Fatalf("create fresh: %v", err)
	}

	removed, err := repo.Purge(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 purged record, got %d", removed)
	}

	if _, err := repo.GetByID(ctx, old.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for purged record, got %v", err)
	}
	if _, err := repo.GetByID(ctx, fresh.ID); err != nil {
		t.Fatalf("fresh record must survive purge: %v", err)
	}
}

func TestJournalRepositoryNotFound(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewJournalRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
