package repositories

import (
	"context"

	"ratlist/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create inserts a new user and fails with ErrDuplicateUsername on collision.
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// FindOrCreate inserts user unless one with the same username exists, in a
	// single conditional write. The stored record is returned unmodified together
	// with whether this call inserted it.
	FindOrCreate(ctx context.Context, user *models.User) (*models.User, bool, error)
}
