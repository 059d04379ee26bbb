package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/studylog/pkg/logger"
)

// RedisBroadcaster fans messages out across processes through a Redis
// pub/sub channel. Messages are JSON encoded; each process relays what it
// receives to its local subscribers.
type RedisBroadcaster[T any] struct {
	client  redis.UniversalClient
	channel string
	pubsub  *redis.PubSub
	local   *MemoryBroadcaster[T]
	log     *slog.Logger
	done    chan struct{}
	once    sync.Once
}

// NewRedisBroadcaster subscribes to channel and starts relaying. It returns
// once Redis has confirmed the subscription.
func NewRedisBroadcaster[T any](ctx context.Context, client redis.UniversalClient, channel string, bufferSize int, log *slog.Logger) (*RedisBroadcaster[T], error) {
	if log == nil {
		log = logger.Discard()
	}
	ps := client.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", channel, err)
	}

	b := &RedisBroadcaster[T]{
		client:  client,
		channel: channel,
		pubsub:  ps,
		local:   NewMemoryBroadcaster[T](bufferSize),
		log:     log.With(logger.Component("broadcast"), slog.String("channel", channel)),
		done:    make(chan struct{}),
	}
	go b.relay()
	return b, nil
}

func (b *RedisBroadcaster[T]) relay() {
	defer close(b.done)
	for msg := range b.pubsub.Channel() {
		var data T
		if err := json.Unmarshal([]byte(msg.Payload), &data); err != nil {
			b.log.Warn("dropping undecodable message", logger.Error(err))
			continue
		}
		_ = b.local.Broadcast(context.Background(), Message[T]{Data: data})
	}
}

func (b *RedisBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	return b.local.Subscribe(ctx)
}

// Broadcast publishes msg to every process listening on the channel,
// this one included.
func (b *RedisBroadcaster[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	select {
	case <-b.done:
		return ErrClosed
	default:
	}
	payload, err := json.Marshal(msg.Data)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

// Close stops relaying and closes every local subscriber.
func (b *RedisBroadcaster[T]) Close() error {
	var err error
	b.once.Do(func() {
		err = b.pubsub.Close()
		<-b.done
		_ = b.local.Close()
	})
	return err
}
