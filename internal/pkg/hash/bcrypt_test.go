package hash

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hashed, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if strings.Contains(hashed, "password123") {
		t.Fatal("hash contains the plaintext")
	}
	if !h.Verify("password123", hashed) {
		t.Fatal("correct password did not verify")
	}
	if h.Verify("wrong", hashed) {
		t.Fatal("wrong password verified")
	}
}

func TestBcryptHasherSaltsEveryHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}
