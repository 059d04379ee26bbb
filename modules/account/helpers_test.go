package account_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/studylog/svc/identity"
)

// fakeProvider records the order of remote calls.
type fakeProvider struct {
	mu        sync.Mutex
	calls     []string
	cred      identity.Credential
	password  string
	reauthErr error
	updateErr error

	// When set, Reauthenticate signals entered and waits for proceed or ctx.
	entered chan struct{}
	proceed chan struct{}
}

func (f *fakeProvider) OnAuthStateChanged(_ context.Context, _ string, fn func(*identity.Principal)) func() {
	fn(nil)
	return func() {}
}

func (f *fakeProvider) Reauthenticate(ctx context.Context, _ *identity.Principal, cred identity.Credential) error {
	f.mu.Lock()
	f.calls = append(f.calls, "reauthenticate")
	f.cred = cred
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
		select {
		case <-f.proceed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.reauthErr
}

func (f *fakeProvider) UpdatePassword(_ context.Context, _ *identity.Principal, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update_password")
	f.password = newPassword
	return f.updateErr
}

func (f *fakeProvider) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func testPrincipal() *identity.Principal {
	return &identity.Principal{ID: uuid.New(), Email: "user@example.com"}
}

func newLocalProvider(t *testing.T) *identity.LocalProvider {
	t.Helper()
	p := identity.NewLocalProvider(identity.NewMemoryStorage(), identity.NewMemoryStateStore(),
		identity.WithConfig(identity.Config{BcryptCost: bcrypt.MinCost}),
	)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func signedIn(t *testing.T, p *identity.LocalProvider, sessionID string) *identity.Principal {
	t.Helper()
	ctx := context.Background()
	_, err := p.SignUp(ctx, "user@example.com", "oldpw1")
	require.NoError(t, err)
	principal, err := p.SignIn(ctx, sessionID, "user@example.com", "oldpw1")
	require.NoError(t, err)
	return principal
}
