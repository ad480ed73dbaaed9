package ports

import (
	"context"

	"github.com/acmecorp/identity-service/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Pure CRUD: no business decisions live here.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create inserts the user and assigns user.ID.
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	// Exists reports whether an active user already holds the username or
	// the email.
	Exists(ctx context.Context, username, email string) (bool, error)
}
