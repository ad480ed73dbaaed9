package service

import (
	"testing"
	"time"

	"github.com/acmecorp/identity-service/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       7,
		Username: "alice",
		Roles:    []string{domain.RoleUser},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", 15*time.Minute)
	svc.now = func() time.Time { return testNow }

	token, expiresAt, err := svc.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if !expiresAt.Equal(testNow.Add(15 * time.Minute)) {
		t.Fatalf("expiresAt = %v", expiresAt)
	}

	id, ok := svc.ValidateAccessToken(token)
	if !ok {
		t.Fatal("token did not validate")
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}
}

func TestAccessTokenExpiry(t *testing.T) {
	svc := NewTokenService("test-secret", 15*time.Minute)
	svc.now = func() time.Time { return testNow }

	token, _, err := svc.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	svc.now = func() time.Time { return testNow.Add(16 * time.Minute) }
	if _, ok := svc.ValidateAccessToken(token); ok {
		t.Fatal("expired token must not validate")
	}
}

func TestAccessTokenTampered(t *testing.T) {
	svc := NewTokenService("test-secret", 15*time.Minute)
	svc.now = func() time.Time { return testNow }

	token, _, err := svc.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, ok := svc.ValidateAccessToken(token + "x"); ok {
		t.Fatal("tampered token must not validate")
	}

	other := NewTokenService("different-secret", 15*time.Minute)
	other.now = svc.now
	if _, ok := other.ValidateAccessToken(token); ok {
		t.Fatal("token signed with another key must not validate")
	}
}

func TestAccessTokenMalformed(t *testing.T) {
	svc := NewTokenService("test-secret", 15*time.Minute)
	if _, ok := svc.ValidateAccessToken("not-a-jwt"); ok {
		t.Fatal("garbage must not validate")
	}
	if _, ok := svc.ValidateAccessToken(""); ok {
		t.Fatal("empty string must not validate")
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	svc := NewTokenService("test-secret", 15*time.Minute)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		secret, err := svc.GenerateRefreshToken()
		if err != nil {
			t.Fatalf("GenerateRefreshToken: %v", err)
		}
		if secret == "" {
			t.Fatal("empty secret")
		}
		if seen[secret] {
			t.Fatal("duplicate refresh token generated")
		}
		seen[secret] = true
	}
}
