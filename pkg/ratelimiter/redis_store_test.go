package ratelimiter_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/studylog/pkg/ratelimiter"
)

func TestRedisStore_Unavailable(t *testing.T) {
	t.Parallel()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	store := ratelimiter.NewRedisStore(client, "")
	_, _, err := store.ConsumeTokens(context.Background(), "k", 1, testConfig)
	assert.ErrorIs(t, err, ratelimiter.ErrStoreUnavailable)
	assert.ErrorIs(t, store.Reset(context.Background(), "k"), ratelimiter.ErrStoreUnavailable)
}

func TestRedisStore_Integration(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	ctx := context.Background()
	store := ratelimiter.NewRedisStore(client, "ratelimit-test")
	key := uuid.NewString()
	defer store.Reset(ctx, key)

	for want := 2; want >= 0; want-- {
		remaining, resetAt, err := store.ConsumeTokens(ctx, key, 1, testConfig)
		require.NoError(t, err)
		assert.Equal(t, want, remaining)
		assert.True(t, resetAt.After(time.Now()))
	}
	remaining, _, err := store.ConsumeTokens(ctx, key, 1, testConfig)
	require.NoError(t, err)
	assert.Equal(t, -1, remaining)

	require.NoError(t, store.Reset(ctx, key))
	remaining, _, err = store.ConsumeTokens(ctx, key, 1, testConfig)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}
