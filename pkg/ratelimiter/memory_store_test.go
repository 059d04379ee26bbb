package ratelimiter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/studylog/pkg/ratelimiter"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)}
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

var testConfig = ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Minute}

func TestMemoryStore_ConsumeTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("new bucket starts full", func(t *testing.T) {
		t.Parallel()
		store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
		defer store.Close()

		remaining, resetAt, err := store.ConsumeTokens(ctx, "k", 1, testConfig)
		require.NoError(t, err)
		assert.Equal(t, 2, remaining)
		assert.False(t, resetAt.IsZero())
	})

	t.Run("denied requests do not drain further", func(t *testing.T) {
		t.Parallel()
		c := newClock()
		store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0), ratelimiter.WithClock(c.Now))
		defer store.Close()

		for range 3 {
			_, _, err := store.ConsumeTokens(ctx, "k", 1, testConfig)
			require.NoError(t, err)
		}
		for range 5 {
			remaining, _, err := store.ConsumeTokens(ctx, "k", 1, testConfig)
			require.NoError(t, err)
			assert.Equal(t, -1, remaining)
		}

		c.Advance(time.Minute)
		remaining, _, err := store.ConsumeTokens(ctx, "k", 1, testConfig)
		require.NoError(t, err)
		assert.Equal(t, 0, remaining)
	})

	t.Run("refill is capped at capacity", func(t *testing.T) {
		t.Parallel()
		c := newClock()
		store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0), ratelimiter.WithClock(c.Now))
		defer store.Close()

		_, _, err := store.ConsumeTokens(ctx, "k", 3, testConfig)
		require.NoError(t, err)
		c.Advance(24 * time.Hour)
		remaining, _, err := store.ConsumeTokens(ctx, "k", 0, testConfig)
		require.NoError(t, err)
		assert.Equal(t, 3, remaining)
	})

	t.Run("keys are independent and resettable", func(t *testing.T) {
		t.Parallel()
		store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
		defer store.Close()

		_, _, err := store.ConsumeTokens(ctx, "a", 3, testConfig)
		require.NoError(t, err)
		remaining, _, err := store.ConsumeTokens(ctx, "b", 1, testConfig)
		require.NoError(t, err)
		assert.Equal(t, 2, remaining)

		require.NoError(t, store.Reset(ctx, "a"))
		remaining, _, err = store.ConsumeTokens(ctx, "a", 1, testConfig)
		require.NoError(t, err)
		assert.Equal(t, 2, remaining)
	})
}

func TestMemoryStore_Cleanup(t *testing.T) {
	t.Parallel()
	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithCleanupInterval(10*time.Millisecond),
		ratelimiter.WithStaleAfter(time.Millisecond),
	)
	defer store.Close()

	_, _, err := store.ConsumeTokens(context.Background(), "k", 1, testConfig)
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 10*time.Millisecond)
	assert.NoError(t, store.Close())
}
