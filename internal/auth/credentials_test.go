package auth

import "testing"

func TestBcryptRoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcryptTestCost)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" || hash == "" {
		t.Fatal("hash must be an opaque non-empty value")
	}
	if !h.Verify(hash, "s3cret") {
		t.Fatal("expected matching secret to verify")
	}
	if h.Verify(hash, "wrong") {
		t.Fatal("wrong secret must not verify")
	}
	if h.Verify("not-a-hash", "s3cret") {
		t.Fatal("garbage hash must not verify")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h := NewBcryptHasher(bcryptTestCost)

	a, err := h.Hash("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := h.Hash("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same secret should differ")
	}
}

func TestUUIDTokenSource(t *testing.T) {
	src := UUIDTokenSource{}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok := src.NewToken()
		if tok == "" {
			t.Fatal("empty token")
		}
		if seen[tok] {
			t.Fatalf("duplicate token %s", tok)
		}
		seen[tok] = true
	}
}

// bcryptTestCost keeps the hashing tests fast.
const bcryptTestCost = 4
