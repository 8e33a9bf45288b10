package repository

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations.
// Services depend on this abstraction for testability.
type UserRepository interface {
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	SetUserActive(ctx context.Context, id uuid.UUID, active bool) error
}

// Ensure Repository implements UserRepository
var _ UserRepository = (*Repository)(nil)
