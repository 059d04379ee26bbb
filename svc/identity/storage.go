package identity

import (
	"context"

	"github.com/google/uuid"
)

// Storage persists users and their password hashes.
type Storage interface {
	// CreateUser returns ErrEmailTaken for duplicate emails.
	CreateUser(ctx context.Context, u User, passwordHash []byte) error
	// GetUserByEmail returns ErrUserNotFound when absent.
	GetUserByEmail(ctx context.Context, email string) (User, []byte, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, []byte, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash []byte) error
}

// StateStore binds browser sessions to users.
type StateStore interface {
	Bind(ctx context.Context, sessionID string, userID uuid.UUID) error
	// Lookup returns uuid.Nil when the session is not bound.
	Lookup(ctx context.Context, sessionID string) (uuid.UUID, error)
	Unbind(ctx context.Context, sessionID string) error
}
