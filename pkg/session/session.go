package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is an anonymous browser session. ID is stable for the lifetime of
// the session; Token is what the cookie carries and is rotated on sign-in.
type Session struct {
	ID             uuid.UUID `json:"id"`
	Token          string    `json:"token"`
	ExpiresAt      time.Time `json:"expires_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func newSession(ttl time.Duration) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:             uuid.New(),
		Token:          token,
		ExpiresAt:      now.Add(ttl),
		LastActivityAt: now,
		CreatedAt:      now,
	}, nil
}

func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
