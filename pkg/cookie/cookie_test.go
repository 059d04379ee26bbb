package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/studylog/pkg/cookie"
)

const (
	secretA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	secretB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func roundTrip(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := cookie.New(nil)
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"", ""})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"short"})
	assert.ErrorIs(t, err, cookie.ErrSecretTooShort)

	_, err = cookie.NewFromConfig(cookie.Config{Secrets: " " + secretA + " , "})
	assert.NoError(t, err)
}

func TestSignedRoundTrip(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	m.SetSigned(w, "sid", "token-123", cookie.WithMaxAge(60))

	c := w.Result().Cookies()[0]
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 60, c.MaxAge)

	got, err := m.GetSigned(roundTrip(w), "sid")
	require.NoError(t, err)
	assert.Equal(t, "token-123", got)
}

func TestSignedTampered(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "sid", Value: "dG9rZW4.forged"})
	_, err = m.GetSigned(r, "sid")
	assert.ErrorIs(t, err, cookie.ErrInvalidSignature)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "sid", Value: "no-separator"})
	_, err = m.GetSigned(r, "sid")
	assert.ErrorIs(t, err, cookie.ErrInvalidFormat)

	_, err = m.GetSigned(httptest.NewRequest(http.MethodGet, "/", nil), "sid")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestSecretRotation(t *testing.T) {
	t.Parallel()

	old, err := cookie.New([]string{secretA})
	require.NoError(t, err)
	rotated, err := cookie.New([]string{secretB, secretA})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	old.SetSigned(w, "sid", "v")
	got, err := rotated.GetSigned(roundTrip(w), "sid")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	w = httptest.NewRecorder()
	rotated.SetSigned(w, "sid", "v")
	_, err = old.GetSigned(roundTrip(w), "sid")
	assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA}, cookie.WithSecure(true))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	m.Delete(w, "sid")
	header := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(header, "sid=;"))
	assert.Contains(t, header, "Max-Age=0")
	assert.Contains(t, header, "Secure")
}
