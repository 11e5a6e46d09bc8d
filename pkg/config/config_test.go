package config

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func TestLoadFromMap(t *testing.T) {
	input := map[string]any{
		"relay": map[string]any{
			"dedupe_ttl": int64(10 * time.Second),
			"debug":      true,
		},
		"journal": map[string]any{
			"enabled": true,
		},
	}

	cfg, err := Load(input)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Relay.DedupeTTL != 10*time.Second {
		t.Fatalf("expected ttl 10s, got %s", cfg.Relay.DedupeTTL)
	}
	if !cfg.Relay.Debug {
		t.Fatal("expected debug enabled")
	}
	if !cfg.Journal.Enabled {
		t.Fatal("expected journal enabled")
	}
	if cfg.Journal.Retention != 24*time.Hour {
		t.Fatalf("expected default retention, got %s", cfg.Journal.Retention)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Relay.DedupeTTL != 30*time.Second {
		t.Fatalf("expected default ttl 30s, got %s", cfg.Relay.DedupeTTL)
	}
	if cfg.Journal.Enabled {
		t.Fatal("expected journal disabled by default")
	}
}

func TestValidateSealKey(t *testing.T) {
	cfg := Defaults()
	cfg.Cipher.SealKey = "not base64!!"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed seal key")
	}

	cfg.Cipher.SealKey = base64.StdEncoding.EncodeToString([]byte("short"))
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "32 bytes") {
		t.Fatalf("expected key length error, got %v", err)
	}

	cfg.Cipher.SealKey = base64.StdEncoding.EncodeToString(make([]byte, 32))
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid key, got %v", err)
	}
}

func TestLoadRejectsUnsupportedInput(t *testing.T) {
	if _, err := Load(42); err == nil {
		t.Fatal("expected error for unsupported input type")
	}
}
