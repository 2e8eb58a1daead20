package http

import (
	"testing"
	"time"
)

func TestSessionLifecycle(t *testing.T) {
	store := newSessionStore(time.Hour)

	token, err := store.Create("alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	username, ok := store.Lookup(token)
	if !ok || username != "alice" {
		t.Fatalf("lookup = %q, %v", username, ok)
	}

	if _, ok := store.Lookup("nope"); ok {
		t.Fatal("unknown token resolved")
	}

	store.Destroy(token)
	if _, ok := store.Lookup(token); ok {
		t.Fatal("destroyed session resolved")
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	store := newSessionStore(time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := store.Create("alice")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[token] {
			t.Fatal("duplicate session token")
		}
		seen[token] = true
	}
}

func TestSessionExpiry(t *testing.T) {
	store := newSessionStore(10 * time.Millisecond)

	token, err := store.Create("alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, ok := store.Lookup(token); ok {
		t.Fatal("expired session resolved")
	}

	if _, err := store.Create("bob"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Create("carol"); err != nil {
		t.Fatalf("create: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if removed := store.CleanExpired(); removed != 2 {
		t.Fatalf("CleanExpired removed %d, want 2", removed)
	}
}
