package options

import (
	"testing"

	opts "github.com/goliatone/go-options"
)

func TestNewResolverMergesSnapshots(t *testing.T) {
	resolver, err := NewResolver(
		Snapshot{
			Scope: ModuleScope,
			Data: map[string]any{
				"encrypt": false,
				"debug":   true,
			},
		},
		Snapshot{
			Scope: RealmScope,
			Data: map[string]any{
				"encrypt": true,
				"target":  "abc123",
			},
		},
	)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	encrypt, trace, err := resolver.ResolveBool("encrypt")
	if err != nil {
		t.Fatalf("resolve bool: %v", err)
	}
	if !encrypt {
		t.Fatal("expected realm layer to win over module defaults")
	}
	if trace.Path != "encrypt" || len(trace.Layers) != 2 {
		t.Fatalf("unexpected trace contents: %+v", trace)
	}

	target, _, err := resolver.ResolveString("target")
	if err != nil {
		t.Fatalf("resolve string: %v", err)
	}
	if target != "abc123" {
		t.Fatalf("expected target abc123, got %s", target)
	}
}

func TestCallScopeWinsOverRealm(t *testing.T) {
	resolver, err := NewResolver(
		Snapshot{Scope: RealmScope, Data: map[string]any{"seal": true}},
		Snapshot{Scope: CallScope, Data: map[string]any{"seal": false}},
	)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	seal, _, err := resolver.ResolveBool("seal")
	if err != nil {
		t.Fatalf("resolve bool: %v", err)
	}
	if seal {
		t.Fatal("expected call layer to win over realm layer")
	}
}

func TestNewResolverValidation(t *testing.T) {
	if _, err := NewResolver(); err != ErrNoSnapshots {
		t.Fatalf("expected ErrNoSnapshots, got %v", err)
	}
	if _, err := NewResolver(Snapshot{Scope: opts.Scope{}, Data: map[string]any{}}); err == nil {
		t.Fatal("expected error for missing scope name")
	}
}

func TestBroadcastOptions(t *testing.T) {
	resolver, err := NewResolver(
		Snapshot{Scope: ModuleScope, Data: map[string]any{"encrypt": true, "debug": false}},
		Snapshot{Scope: CallScope, Data: map[string]any{"target": "deadbeef"}},
	)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	got := BroadcastOptions(resolver)
	if !got.Encrypt || got.Seal || got.Debug {
		t.Fatalf("unexpected flags: %+v", got)
	}
	if string(got.Target) != "deadbeef" {
		t.Fatalf("unexpected target: %s", got.Target)
	}

	zero := BroadcastOptions(nil)
	if zero.Encrypt || zero.Target != "" {
		t.Fatalf("expected zero options for nil resolver, got %+v", zero)
	}
}
