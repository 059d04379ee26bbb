package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Principal is the signed-in identity as seen by the rest of the app.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// User is a stored account. The password hash never leaves storage.
type User struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
}

func (u User) Principal() *Principal {
	return &Principal{ID: u.ID, Email: u.Email}
}

// Credential proves knowledge of a password. It is consumed by
// Reauthenticate.
type Credential struct {
	Email    string
	Password string
}

// CredentialFromPassword builds an email/password credential.
func CredentialFromPassword(email, password string) Credential {
	return Credential{Email: email, Password: password}
}

// AuthStateChange is published whenever a session signs in or out.
// Principal is nil after sign-out.
type AuthStateChange struct {
	SessionID string
	Principal *Principal
}

// StateSource streams auth state for one browser session.
type StateSource interface {
	// OnAuthStateChanged calls fn with the current principal (nil when signed
	// out) right away and again on every change, until unsubscribe is called
	// or ctx is done. unsubscribe is idempotent and must not be called from
	// inside fn.
	OnAuthStateChanged(ctx context.Context, sessionID string, fn func(*Principal)) (unsubscribe func())
}

// Provider is the identity service the password flow talks to.
type Provider interface {
	StateSource
	Reauthenticate(ctx context.Context, p *Principal, cred Credential) error
	UpdatePassword(ctx context.Context, p *Principal, newPassword string) error
}
