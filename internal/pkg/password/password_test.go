package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	passwords := []string{"Secret123", "a", strings.Repeat("x", 72), "pa$$ word !@#"}
	for _, p := range passwords {
		hash, err := h.Hash(p)
		if err != nil {
			t.Fatalf("Hash(%q) returned error: %v", p, err)
		}
		if hash == p {
			t.Fatalf("hash equals plaintext for %q", p)
		}
		if !h.Verify(p, hash) {
			t.Fatalf("Verify failed for %q", p)
		}
		if h.Verify(p+"?", hash) {
			t.Fatalf("Verify accepted wrong password for %q", p)
		}
	}
}

func TestHasher_SaltedHashesDiffer(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	h1, err := h.Hash("Secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := h.Hash("Secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected salted hashes to differ")
	}
}

func TestNewHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewHasher(99)
	if h.cost != DefaultCost {
		t.Fatalf("expected cost %d, got %d", DefaultCost, h.cost)
	}
	h = NewHasher(-1)
	if h.cost != DefaultCost {
		t.Fatalf("expected cost %d, got %d", DefaultCost, h.cost)
	}
}
