package broadcast

import (
	"context"
	"sync"
)

// Message wraps data of type T for type-safe broadcasting.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster.
type Subscriber[T any] interface {
	// Receive returns the delivery channel. It is closed when the subscriber
	// is closed, its context is cancelled, or the broadcaster shuts down.
	Receive() <-chan Message[T]
	// Close is idempotent.
	Close() error
}

// Broadcaster fans messages out to every active subscriber without blocking
// the publisher.
type Broadcaster[T any] interface {
	Subscribe(ctx context.Context) Subscriber[T]
	Broadcast(ctx context.Context, msg Message[T]) error
	Close() error
}

type subscriber[T any] struct {
	ch      chan Message[T]
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	onClose func()
}

func newSubscriber[T any](bufferSize int) *subscriber[T] {
	return &subscriber[T]{
		ch:   make(chan Message[T], bufferSize),
		done: make(chan struct{}),
	}
}

func (s *subscriber[T]) Receive() <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.ch)
	close(s.done)
	onClose := s.onClose
	s.mu.Unlock()

	if onClose != nil {
		onClose()
	}
	return nil
}

// send delivers msg if the buffer has room. A full buffer drops the message
// and keeps the subscription.
func (s *subscriber[T]) send(msg Message[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}
	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}
