package broadcast

import (
	"context"
	"sync"
)

// MemoryBroadcaster is an in-process Broadcaster. Publishers never block:
// a subscriber whose buffer is full misses that message.
// All methods are safe for concurrent use.
type MemoryBroadcaster[T any] struct {
	mu          sync.RWMutex
	subscribers map[*subscriber[T]]struct{}
	bufferSize  int
	closed      bool
	watchers    sync.WaitGroup
}

// NewMemoryBroadcaster creates a broadcaster with the given per-subscriber
// buffer size (minimum 1).
func NewMemoryBroadcaster[T any](bufferSize int) *MemoryBroadcaster[T] {
	return &MemoryBroadcaster[T]{
		subscribers: make(map[*subscriber[T]]struct{}),
		bufferSize:  max(bufferSize, 1),
	}
}

// Subscribe registers a new subscriber. It is removed when ctx is cancelled
// or when the subscriber is closed. Subscribing to a closed broadcaster
// returns an already-closed subscriber.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	sub := newSubscriber[T](b.bufferSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		_ = sub.Close()
		return sub
	}

	sub.onClose = func() { b.remove(sub) }
	b.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		b.watchers.Add(1)
		go func() {
			defer b.watchers.Done()
			select {
			case <-ctx.Done():
				_ = sub.Close()
			case <-sub.done:
			}
		}()
	}

	return sub
}

// Broadcast delivers msg to all active subscribers. Returns ErrClosed after Close.
func (b *MemoryBroadcaster[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}
	for sub := range b.subscribers {
		sub.send(msg)
	}
	return nil
}

// Len reports the number of active subscribers.
func (b *MemoryBroadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscriber and waits for context watchers to exit.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := make([]*subscriber[T], 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	clear(b.subscribers)
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}
	b.watchers.Wait()
	return nil
}

func (b *MemoryBroadcaster[T]) remove(sub *subscriber[T]) {
	b.mu.Lock()
	delete(b.subscribers, sub)
	b.mu.Unlock()
}
