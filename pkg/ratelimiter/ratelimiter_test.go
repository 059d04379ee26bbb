package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/studylog/pkg/ratelimiter"
)

func TestNewBucket_Validation(t *testing.T) {
	t.Parallel()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	defer store.Close()

	tests := []struct {
		name string
		cfg  ratelimiter.Config
	}{
		{"zero capacity", ratelimiter.Config{RefillRate: 1, RefillInterval: time.Second}},
		{"zero rate", ratelimiter.Config{Capacity: 1, RefillInterval: time.Second}},
		{"zero interval", ratelimiter.Config{Capacity: 1, RefillRate: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ratelimiter.NewBucket(store, tt.cfg)
			assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
		})
	}

	_, err := ratelimiter.NewBucket(nil, testConfig)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
}

func TestBucket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newClock()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0), ratelimiter.WithClock(c.Now))
	defer store.Close()
	b, err := ratelimiter.NewBucket(store, testConfig)
	require.NoError(t, err)

	for i := range 3 {
		res, err := b.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, res.Allowed(), "request %d", i)
		assert.Equal(t, 3, res.Limit)
		assert.Zero(t, res.RetryAfter())
	}

	res, err := b.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, res.Allowed())

	status, err := b.Status(ctx, "ip")
	require.NoError(t, err)
	assert.Equal(t, 0, status.Remaining)

	_, err = b.AllowN(ctx, "ip", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)

	require.NoError(t, b.Reset(ctx, "ip"))
	res, err = b.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)
}

func TestResult_RetryAfter(t *testing.T) {
	t.Parallel()
	res := ratelimiter.Result{Limit: 1, Remaining: -1, ResetAt: time.Now().Add(30 * time.Second)}
	assert.InDelta(t, 30*time.Second, res.RetryAfter(), float64(time.Second))

	res.ResetAt = time.Now().Add(-time.Second)
	assert.Zero(t, res.RetryAfter())
}
