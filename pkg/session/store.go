package session

import "context"

// Store persists sessions by token.
type Store interface {
	Save(ctx context.Context, s *Session) error
	// Get returns ErrSessionNotFound or ErrSessionExpired.
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
