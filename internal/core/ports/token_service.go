package ports

import (
	"time"

	"github.com/acmecorp/identity-service/internal/core/domain"
)

// TokenService is the stateless credential factory: signed access tokens and
// opaque refresh secrets. It performs no I/O.
type TokenService interface {
	// GenerateAccessToken produces a signed, time-boxed token encoding the
	// user's id, username and roles.
	GenerateAccessToken(user *domain.User) (token string, expiresAt time.Time, err error)
	// GenerateRefreshToken produces a cryptographically random opaque
	// secret with no embedded claims.
	GenerateRefreshToken() (string, error)
	// ValidateAccessToken verifies signature and expiry and reports the
	// embedded user id. The comma-ok form is deliberate: "no identity" is
	// a query answer, not a fault.
	ValidateAccessToken(token string) (int64, bool)
}
