package identity

import (
	"context"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Delete deletes a user by ID
	Delete(ctx context.Context, id string) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByUsername finds a user by exact, case-sensitive username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindAll returns every user ordered by creation time
	FindAll(ctx context.Context) ([]User, error)

	// ExistsByUsername checks if a username already exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// CountActiveAdmins returns the number of active admin users
	CountActiveAdmins(ctx context.Context) (int64, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)
}
