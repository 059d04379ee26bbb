package account_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/studylog/modules/account"
	"github.com/dmitrymomot/studylog/pkg/ratelimiter"
	"github.com/dmitrymomot/studylog/pkg/session"
	"github.com/dmitrymomot/studylog/svc/identity"
)

type countingRotator struct {
	rotations atomic.Int32
}

func (c *countingRotator) Rotate(context.Context, http.ResponseWriter, *http.Request) (*session.Session, error) {
	c.rotations.Add(1)
	return &session.Session{}, nil
}

func authViews() *account.AuthServiceViews {
	page := func(p account.AuthPageParams) templ.Component {
		return textf("<html>toast=%s email=%s</html>", p.Toast.Title, p.Email)
	}
	form := func(p account.AuthFormParams) templ.Component {
		return textf(`<form id="auth-form">email=%s</form>`, p.Email)
	}
	return &account.AuthServiceViews{
		LoginPage:    page,
		LoginForm:    form,
		RegisterPage: page,
		RegisterForm: form,
		Toast:        toastView,
	}
}

type authFixture struct {
	provider  *identity.LocalProvider
	rotator   *countingRotator
	sessionID uuid.UUID
	handler   http.Handler
}

func newAuthFixture(t *testing.T, opts ...account.AuthOption) *authFixture {
	t.Helper()
	f := &authFixture{
		provider:  newLocalProvider(t),
		rotator:   &countingRotator{},
		sessionID: uuid.New(),
	}
	svc := account.NewAuthService(account.DefaultConfig(), f.provider, f.rotator, nil, &recordingFlasher{}, authViews(), nil, nil, opts...)
	f.handler = withIdentity(svc.Handle(), nil, f.sessionID)
	return f
}

func (f *authFixture) do(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)
	return w
}

func (f *authFixture) current(t *testing.T) *identity.Principal {
	t.Helper()
	p, err := f.provider.CurrentPrincipal(context.Background(), f.sessionID.String())
	require.NoError(t, err)
	return p
}

func TestAuthService_LoginPage(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/login?email=a@b.co", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "email=a@b.co")
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	_, err := f.provider.SignUp(context.Background(), "user@example.com", "secret1")
	require.NoError(t, err)

	w := f.do(postForm("/login", url.Values{"email": {"user@example.com"}, "password": {"nope"}}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "toast="+account.KeyInvalidCredentials)
	assert.Nil(t, f.current(t))
	assert.Zero(t, f.rotator.rotations.Load())

	w = f.do(postForm("/login", url.Values{
		"email":        {"user@example.com"},
		"password":     {"secret1"},
		"redirect_url": {"/account/password"},
	}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/account/password", w.Header().Get("Location"))
	require.NotNil(t, f.current(t))
	assert.Equal(t, "user@example.com", f.current(t).Email)
	assert.Equal(t, int32(1), f.rotator.rotations.Load())
}

func TestAuthService_LoginThrottling(t *testing.T) {
	t.Parallel()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(func() { _ = store.Close() })
	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Hour})
	require.NoError(t, err)

	f := newAuthFixture(t, account.WithSignInLimiter(limiter))
	_, err = f.provider.SignUp(context.Background(), "user@example.com", "secret1")
	require.NoError(t, err)

	wrong := url.Values{"email": {"user@example.com"}, "password": {"nope"}}
	right := url.Values{"email": {"User@Example.com "}, "password": {"secret1"}}

	assert.Equal(t, http.StatusUnauthorized, f.do(postForm("/login", wrong)).Code)
	assert.Equal(t, http.StatusSeeOther, f.do(postForm("/login", right)).Code, "success resets the counter")

	assert.Equal(t, http.StatusUnauthorized, f.do(postForm("/login", wrong)).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(postForm("/login", wrong)).Code)

	w := f.do(postForm("/login", right))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "toast="+account.KeyTooManyAttempts)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, int32(1), f.rotator.rotations.Load())
}

func TestAuthService_LoginIgnoresForeignRedirect(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	_, err := f.provider.SignUp(context.Background(), "user@example.com", "secret1")
	require.NoError(t, err)

	for _, target := range []string{"//evil.test", "https://evil.test/", "/\\evil.test"} {
		w := f.do(postForm("/login", url.Values{
			"email":        {"user@example.com"},
			"password":     {"secret1"},
			"redirect_url": {target},
		}))
		assert.Equal(t, "/", w.Header().Get("Location"), target)
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	w := f.do(postForm("/register", url.Values{"email": {"new@example.com"}, "password": {"secret1"}, "passwordConf": {"secret2"}}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "toast="+account.KeyMismatch)

	w = f.do(postForm("/register", url.Values{"email": {"bad"}, "password": {"secret1"}, "passwordConf": {"secret1"}}))
	assert.Contains(t, w.Body.String(), "toast="+account.KeyInvalidEmail)

	w = f.do(postForm("/register", url.Values{"email": {"new@example.com"}, "password": {"secret1"}, "passwordConf": {"secret1"}}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	require.NotNil(t, f.current(t))

	w = f.do(postForm("/register", url.Values{"email": {"new@example.com"}, "password": {"secret1"}, "passwordConf": {"secret1"}}))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "toast="+account.KeyEmailTaken)
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	signedIn(t, f.provider, f.sessionID.String())

	w := f.do(httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/account/login", w.Header().Get("Location"))
	assert.Nil(t, f.current(t))
	assert.Equal(t, int32(1), f.rotator.rotations.Load())
}
