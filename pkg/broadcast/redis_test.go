package broadcast_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/studylog/pkg/broadcast"
)

func TestRedisBroadcaster_SubscribeFails(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := broadcast.NewRedisBroadcaster[string](ctx, client, "events", 4, nil)
	assert.Error(t, err)
}

func TestRedisBroadcaster_Integration(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	ctx := context.Background()
	channel := "broadcast-test-" + time.Now().Format("150405.000000")

	a, err := broadcast.NewRedisBroadcaster[string](ctx, client, channel, 4, nil)
	require.NoError(t, err)
	defer a.Close()
	b, err := broadcast.NewRedisBroadcaster[string](ctx, client, channel, 4, nil)
	require.NoError(t, err)
	defer b.Close()

	sub := b.Subscribe(ctx)
	require.NoError(t, a.Broadcast(ctx, broadcast.Message[string]{Data: "hello"}))

	msg, ok := receive(t, sub)
	require.True(t, ok)
	assert.Equal(t, "hello", msg.Data)

	require.NoError(t, b.Close())
	assert.ErrorIs(t, b.Broadcast(ctx, broadcast.Message[string]{Data: "late"}), broadcast.ErrClosed)
}
