package ports

import (
	"context"
	"time"

	"github.com/acmecorp/identity-service/internal/core/domain"
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Username string
	Password string
}

// UserInfo is the credential-free projection of a user returned to callers.
type UserInfo struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Roles     []string `json:"roles"`
}

// AuthResponse is returned by every flow that issues credentials.
// ExpiresAt is the access token expiry in UTC.
type AuthResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         UserInfo  `json:"user"`
}

// AuthService orchestrates the credential lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput, ip string) (domain.Result[AuthResponse], error)
	Login(ctx context.Context, in LoginInput, ip string) (domain.Result[AuthResponse], error)
	// Refresh rotates the presented refresh token and issues a new pair.
	Refresh(ctx context.Context, token, ip string) (domain.Result[AuthResponse], error)
	// Revoke retires an active token with no replacement.
	Revoke(ctx context.Context, token, ip string) (domain.Result[any], error)
	// RevokeAll retires every active token of the user, used after a
	// suspected compromise.
	RevokeAll(ctx context.Context, userID int64, ip string) (domain.Result[any], error)
	CurrentUser(ctx context.Context, userID int64) (domain.Result[UserInfo], error)
}
