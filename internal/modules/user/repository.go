package user

import "context"

// Repository defines user data storage.
type Repository interface {
	// Create persists a new user. Fails with Conflict if the email is taken.
	Create(ctx context.Context, u *User) error

	// GetByEmail retrieves a user by lowercase email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID retrieves a user by UUID.
	GetByID(ctx context.Context, id string) (*User, error)

	// CountActive returns the number of active accounts.
	CountActive(ctx context.Context) (int, error)
}
