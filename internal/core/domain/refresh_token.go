package domain

import "time"

// TokenState is the derived lifecycle state of a refresh token. It is never
// stored; it is computed from the revocation and expiry fields on demand.
type TokenState string

const (
	TokenActive  TokenState = "active"
	TokenExpired TokenState = "expired"
	TokenRevoked TokenState = "revoked"
)

// RefreshToken is a long-lived opaque credential bound to one user. Tokens
// are retained forever for audit and replay detection; after creation the
// only permitted mutation is setting the revocation fields, exactly once.
type RefreshToken struct {
	Token           string     `json:"token"`
	UserID          int64      `json:"user_id"`
	ExpiresAt       time.Time  `json:"expires_at"`
	CreatedAt       time.Time  `json:"created_at"`
	CreatedByIP     string     `json:"created_by_ip"`
	RevokedAt       *time.Time `json:"revoked_at,omitempty"`
	RevokedByIP     string     `json:"revoked_by_ip,omitempty"`
	ReplacedByToken string     `json:"replaced_by_token,omitempty"`
}

// IsRevoked reports whether the token has been revoked. Revocation is terminal.
func (t *RefreshToken) IsRevoked() bool { return t.RevokedAt != nil }

// IsExpired is a pure time comparison against now; expiry never mutates the
// entity and is evaluated lazily, never swept.
func (t *RefreshToken) IsExpired(now time.Time) bool { return !now.Before(t.ExpiresAt) }

// IsActive reports whether the token can still be presented.
func (t *RefreshToken) IsActive(now time.Time) bool { return !t.IsRevoked() && !t.IsExpired(now) }

// State reports the lifecycle state at now. A token that is both expired and
// revoked reports TokenRevoked: the revocation timestamp wins for messaging.
func (t *RefreshToken) State(now time.Time) TokenState {
	switch {
	case t.IsRevoked():
		return TokenRevoked
	case t.IsExpired(now):
		return TokenExpired
	default:
		return TokenActive
	}
}
