package identity

import (
	"strings"
	"testing"
)

func TestHashStringDeterministic(t *testing.T) {
	inputs := []string{"", "a", "ns:event", "realm|123|uuid", "héllo wörld", "日本語テキスト"}
	for _, in := range inputs {
		first := hashString(in)
		for i := 0; i < 3; i++ {
			if got := hashString(in); got != first {
				t.Fatalf("hashString(%q) unstable: %q then %q", in, first, got)
			}
		}
	}
}

func TestHashStringBase36(t *testing.T) {
	got := hashString("ns:event|origin|42")
	if got == "" {
		t.Fatal("expected non-empty hash")
	}
	if strings.ContainsAny(got, "-.") {
		t.Fatalf("expected unsigned base36 output, got %q", got)
	}
	for _, r := range got {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z') {
			t.Fatalf("unexpected digit %q in %q", r, got)
		}
	}
}

func TestHashStringDistinctInputs(t *testing.T) {
	if hashString("app:one") == hashString("app:two") {
		t.Fatal("expected different hashes for different inputs")
	}
}

func TestNewOriginStableAndUnique(t *testing.T) {
	a := New("top")
	if a == "" {
		t.Fatal("expected non-empty origin id")
	}
	seen := map[string]bool{string(a): true}
	for i := 0; i < 50; i++ {
		id := New("top")
		if seen[string(id)] {
			t.Fatalf("duplicate origin id %q after %d draws", id, i)
		}
		seen[string(id)] = true
	}
}

func TestMintTokenUnique(t *testing.T) {
	origin := New("top")
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok := MintToken(origin, "app:ping")
		if tok == "" {
			t.Fatal("expected non-empty token")
		}
		if seen[tok] {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = true
	}
}
