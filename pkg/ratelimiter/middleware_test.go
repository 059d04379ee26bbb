package ratelimiter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/studylog/pkg/ratelimiter"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (ratelimiter.Result, error) {
	return ratelimiter.Result{}, ratelimiter.ErrStoreUnavailable
}

func remoteAddr(r *http.Request) string { return r.RemoteAddr }

func TestMiddleware(t *testing.T) {
	t.Parallel()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	defer store.Close()
	b, err := ratelimiter.NewBucket(store, testConfig)
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("OK")) })
	h := ratelimiter.Middleware(b, remoteAddr, nil, nil)(ok)

	call := func(addr string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	for i := range 3 {
		w := call("10.0.0.1:1000")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, []string{"2", "1", "0"}[i], w.Header().Get("X-RateLimit-Remaining"))
	}

	w := call("10.0.0.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000").Code)
}

func TestMiddleware_EmptyKeySkips(t *testing.T) {
	t.Parallel()
	h := ratelimiter.Middleware(failingLimiter{}, func(*http.Request) string { return "" }, nil, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMiddleware_StoreFailure(t *testing.T) {
	t.Parallel()
	var gotErr bool
	onError := func(w http.ResponseWriter, _ *http.Request) {
		gotErr = true
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	h := ratelimiter.Middleware(failingLimiter{}, remoteAddr, nil, onError)(http.NotFoundHandler())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, gotErr)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestComposite(t *testing.T) {
	t.Parallel()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1000"

	assert.Equal(t, "10.0.0.1:1000", ratelimiter.Composite(remoteAddr)(r))
	assert.Equal(t, "signin:10.0.0.1:1000",
		ratelimiter.Composite(func(*http.Request) string { return "signin" }, func(*http.Request) string { return "" }, remoteAddr)(r))
	assert.Empty(t, ratelimiter.Composite()(r))

	long := ratelimiter.Key(strings.Repeat("x", 100), "y")
	assert.LessOrEqual(t, len(long), 13)
	assert.Equal(t, long, ratelimiter.Key(strings.Repeat("x", 100), "y"))
}
