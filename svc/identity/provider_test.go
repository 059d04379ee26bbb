package identity_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/studylog/svc/identity"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newProvider(t *testing.T) (*identity.LocalProvider, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	p := identity.NewLocalProvider(identity.NewMemoryStorage(), identity.NewMemoryStateStore(),
		identity.WithConfig(identity.Config{BcryptCost: bcrypt.MinCost}),
		identity.WithClock(c.Now),
	)
	t.Cleanup(func() { _ = p.Close() })
	return p, c
}

func TestSignUp(t *testing.T) {
	t.Parallel()
	p, _ := newProvider(t)
	ctx := context.Background()

	principal, err := p.SignUp(ctx, "  Alice@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", principal.Email)

	_, err = p.SignUp(ctx, "alice@example.com", "secret2")
	assert.ErrorIs(t, err, identity.ErrEmailTaken)

	_, err = p.SignUp(ctx, "not-an-email", "secret1")
	assert.ErrorIs(t, err, identity.ErrInvalidEmail)

	_, err = p.SignUp(ctx, "bob@example.com", "abc")
	assert.ErrorIs(t, err, identity.ErrWeakPassword)

	_, err = p.SignUp(ctx, "carol@example.com", "😀😀")
	assert.ErrorIs(t, err, identity.ErrWeakPassword)
	_, err = p.SignUp(ctx, "carol@example.com", "😀😀😀")
	assert.NoError(t, err)
}

func TestSignInAndOut(t *testing.T) {
	t.Parallel()
	p, _ := newProvider(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "s1", "alice@example.com", "wrong!")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	_, err = p.SignIn(ctx, "s1", "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	_, err = p.SignIn(ctx, "", "alice@example.com", "secret1")
	assert.ErrorIs(t, err, identity.ErrEmptySessionID)

	signedIn, err := p.SignIn(ctx, "s1", "ALICE@example.com", "secret1")
	require.NoError(t, err)

	current, err := p.CurrentPrincipal(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, signedIn, current)

	other, err := p.CurrentPrincipal(ctx, "s2")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, p.SignOut(ctx, "s1"))
	current, err = p.CurrentPrincipal(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestReauthenticate(t *testing.T) {
	t.Parallel()
	p, _ := newProvider(t)
	ctx := context.Background()

	principal, err := p.SignUp(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	assert.ErrorIs(t, p.Reauthenticate(ctx, nil, identity.CredentialFromPassword("alice@example.com", "secret1")), identity.ErrNoPrincipal)
	assert.ErrorIs(t, p.Reauthenticate(ctx, principal, identity.CredentialFromPassword("bob@example.com", "secret1")), identity.ErrUserMismatch)
	assert.ErrorIs(t, p.Reauthenticate(ctx, principal, identity.CredentialFromPassword("alice@example.com", "nope")), identity.ErrInvalidCredentials)
	assert.NoError(t, p.Reauthenticate(ctx, principal, identity.CredentialFromPassword("Alice@example.com", "secret1")))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, p.Reauthenticate(cancelled, principal, identity.CredentialFromPassword("alice@example.com", "secret1")), context.Canceled)
}

func TestUpdatePassword(t *testing.T) {
	t.Parallel()
	p, c := newProvider(t)
	ctx := context.Background()

	principal, err := p.SignUp(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	t.Run("requires recent login", func(t *testing.T) {
		assert.ErrorIs(t, p.UpdatePassword(ctx, principal, "newpass1"), identity.ErrRequiresRecentLogin)
	})

	t.Run("succeeds after reauthentication", func(t *testing.T) {
		require.NoError(t, p.Reauthenticate(ctx, principal, identity.CredentialFromPassword(principal.Email, "secret1")))
		assert.ErrorIs(t, p.UpdatePassword(ctx, principal, "abc"), identity.ErrWeakPassword)
		require.NoError(t, p.UpdatePassword(ctx, principal, "newpass1"))

		_, err := p.SignIn(ctx, "s1", principal.Email, "secret1")
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
		_, err = p.SignIn(ctx, "s1", principal.Email, "newpass1")
		assert.NoError(t, err)
	})

	t.Run("window expires", func(t *testing.T) {
		c.Advance(6 * time.Minute)
		assert.ErrorIs(t, p.UpdatePassword(ctx, principal, "another1"), identity.ErrRequiresRecentLogin)
	})

	t.Run("no principal", func(t *testing.T) {
		assert.ErrorIs(t, p.UpdatePassword(ctx, nil, "another1"), identity.ErrNoPrincipal)
	})
}

func TestOnAuthStateChanged(t *testing.T) {
	t.Parallel()
	p, _ := newProvider(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	var mu sync.Mutex
	var seen []*identity.Principal
	unsubscribe := p.OnAuthStateChanged(ctx, "s1", func(pr *identity.Principal) {
		mu.Lock()
		seen = append(seen, pr)
		mu.Unlock()
	})
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(seen)
	}

	require.Equal(t, 1, count(), "current state is delivered on subscribe")
	assert.Nil(t, seen[0])

	_, err = p.SignIn(ctx, "other-session", "alice@example.com", "secret1")
	require.NoError(t, err)
	_, err = p.SignIn(ctx, "s1", "alice@example.com", "secret1")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return count() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, p.SignOut(ctx, "s1"))
	require.Eventually(t, func() bool { return count() == 3 }, time.Second, 5*time.Millisecond)

	mu.Lock()
	require.NotNil(t, seen[1])
	assert.Equal(t, "alice@example.com", seen[1].Email)
	assert.Nil(t, seen[2])
	mu.Unlock()

	unsubscribe()
	unsubscribe()

	_, err = p.SignIn(ctx, "s1", "alice@example.com", "secret1")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 3, count(), "no delivery after unsubscribe")
}

func TestOnAuthStateChanged_ContextCancel(t *testing.T) {
	t.Parallel()
	p, _ := newProvider(t)

	ctx, cancel := context.WithCancel(context.Background())
	unsubscribe := p.OnAuthStateChanged(ctx, "s1", func(*identity.Principal) {})
	cancel()

	done := make(chan struct{})
	go func() {
		unsubscribe()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unsubscribe blocked after context cancel")
	}
}
