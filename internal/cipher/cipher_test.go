package cipher

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payloads := []map[string]any{
		{},
		{"msg": "hello"},
		{"msg": "hello", "count": float64(3), "nested": map[string]any{"ok": true}},
		{"unicode": "héllo wörld 日本語", "emoji": "🎉"},
		{"repeat": strings.Repeat("aaaa", 100)},
	}
	keys := []string{"k", "1b2m2y8asgtu", "origin-id-with-dashes"}

	for _, payload := range payloads {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		for _, key := range keys {
			encoded, err := Encode(string(raw), key)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if !IsEncoded(encoded) {
				t.Fatalf("expected BE marker, got %q", encoded)
			}
			decoded, err := Decode(encoded)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			var got map[string]any
			if err := json.Unmarshal([]byte(decoded), &got); err != nil {
				t.Fatalf("unmarshal decoded payload: %v", err)
			}
			if !reflect.DeepEqual(got, payload) {
				t.Fatalf("round trip mismatch: want %v, got %v", payload, got)
			}
		}
	}
}

func TestEncodeHidesPlaintext(t *testing.T) {
	encoded, err := Encode(`{"secret":"hunter2"}`, "1b2m2y8asgtu")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Contains(encoded, "hunter2") {
		t.Fatal("plaintext leaked into encoded form")
	}
}

func TestEncodeRequiresKey(t *testing.T) {
	if _, err := Encode("{}", ""); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}

func TestDecodeMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"no-marker",
		"BE:",
		"BE:missingkey",
		"BE::key",
		"BE:!!notbase64!!:key",
		"BE:aGVsbG8=:",
	}
	for _, in := range cases {
		if _, err := Decode(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	plain := `{"msg":"for your eyes only"}`

	sealed, err := Seal(plain, key)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if !IsSealed(sealed) {
		t.Fatalf("expected BS marker, got %q", sealed)
	}
	if strings.Contains(sealed, "eyes only") {
		t.Fatal("plaintext leaked into sealed form")
	}

	opened, err := Open(sealed, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened != plain {
		t.Fatalf("want %q, got %q", plain, opened)
	}
}

func TestSealRejectsBadKey(t *testing.T) {
	if _, err := Seal("{}", []byte("short")); !errors.Is(err, ErrSealKeySize) {
		t.Fatalf("expected ErrSealKeySize, got %v", err)
	}
}

func TestOpenRejectsTamperedPayload(t *testing.T) {
	key := make([]byte, 32)
	sealed, err := Seal(`{"a":1}`, key)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	b := []byte(sealed)
	if b[len(b)-3] == 'A' {
		b[len(b)-3] = 'B'
	} else {
		b[len(b)-3] = 'A'
	}
	if _, err := Open(string(b), key); err == nil {
		t.Fatal("expected error for tampered payload")
	}
	other := make([]byte, 32)
	other[0] = 1
	if _, err := Open(sealed, other); err == nil {
		t.Fatal("expected error for wrong key")
	}
}
