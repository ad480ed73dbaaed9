package ports

import (
	"context"
	"time"

	"github.com/acmecorp/identity-service/internal/core/domain"
)

// RefreshTokenRepository defines persistence operations for refresh tokens.
type RefreshTokenRepository interface {
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	GetActiveByUserID(ctx context.Context, userID int64, now time.Time) ([]*domain.RefreshToken, error)
	Create(ctx context.Context, token *domain.RefreshToken) error
	Update(ctx context.Context, token *domain.RefreshToken) error
	// Revoke marks the token revoked only if it is not revoked already; the
	// conditional write is what makes the loser of two concurrent rotations
	// fail instead of double-issuing. replacedBy may be empty for explicit
	// revocations.
	Revoke(ctx context.Context, token, revokedByIP, replacedBy string, at time.Time) error
	// RevokeAllForUser revokes every token of the user that is still active
	// at the given instant. No replacement links are set.
	RevokeAllForUser(ctx context.Context, userID int64, revokedByIP string, at time.Time) error
}
