package domain

import (
	"testing"
	"time"
)

func TestRefreshTokenState(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	revokedAt := now.Add(-time.Minute)

	tests := []struct {
		name  string
		token RefreshToken
		want  TokenState
	}{
		{
			name:  "active",
			token: RefreshToken{ExpiresAt: now.Add(time.Hour)},
			want:  TokenActive,
		},
		{
			name:  "expired",
			token: RefreshToken{ExpiresAt: now.Add(-time.Hour)},
			want:  TokenExpired,
		},
		{
			name:  "exactly at expiry",
			token: RefreshToken{ExpiresAt: now},
			want:  TokenExpired,
		},
		{
			name:  "revoked",
			token: RefreshToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt},
			want:  TokenRevoked,
		},
		{
			name:  "revoked and expired reports revoked",
			token: RefreshToken{ExpiresAt: now.Add(-time.Hour), RevokedAt: &revokedAt},
			want:  TokenRevoked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.State(now); got != tt.want {
				t.Fatalf("State() = %v, want %v", got, tt.want)
			}
			wantActive := tt.want == TokenActive
			if got := tt.token.IsActive(now); got != wantActive {
				t.Fatalf("IsActive() = %v, want %v", got, wantActive)
			}
		})
	}
}
