package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// MemoryStore keeps buckets in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time

	cleanupInterval time.Duration
	staleAfter      time.Duration
	done            chan struct{}
	once            sync.Once
}

type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often idle buckets are dropped. Zero disables
// the cleanup loop.
func WithCleanupInterval(d time.Duration) MemoryStoreOption {
	return func(m *MemoryStore) { m.cleanupInterval = d }
}

// WithStaleAfter sets how long a bucket may stay untouched before cleanup
// drops it.
func WithStaleAfter(d time.Duration) MemoryStoreOption {
	return func(m *MemoryStore) {
		if d > 0 {
			m.staleAfter = d
		}
	}
}

func WithClock(now func() time.Time) MemoryStoreOption {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	m := &MemoryStore{
		buckets:         make(map[string]*bucket),
		now:             time.Now,
		cleanupInterval: 5 * time.Minute,
		staleAfter:      time.Hour,
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cleanupInterval > 0 {
		go m.cleanupLoop()
	}
	return m
}

func (m *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{tokens: cfg.Capacity, lastRefill: now}
		m.buckets[key] = b
	}

	// Cap the interval count so a long idle period cannot overflow.
	maxIntervals := int64(cfg.Capacity/cfg.RefillRate + 1)
	intervals := int(min(int64(now.Sub(b.lastRefill)/cfg.RefillInterval), maxIntervals))
	if intervals > 0 {
		b.tokens = min(b.tokens+intervals*cfg.RefillRate, cfg.Capacity)
		b.lastRefill = now
	}

	// Denied requests do not dig the bucket deeper than one request.
	if b.tokens-tokens < 0 {
		b.lastAccess = now
		return b.tokens - tokens, b.lastRefill.Add(cfg.RefillInterval), nil
	}
	b.tokens -= tokens
	b.lastAccess = now
	return b.tokens, b.lastRefill.Add(cfg.RefillInterval), nil
}

func (m *MemoryStore) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.buckets, key)
	m.mu.Unlock()
	return nil
}

// Len reports the number of tracked buckets.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

func (m *MemoryStore) removeStale() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for key, b := range m.buckets {
		if now.Sub(b.lastAccess) > m.staleAfter {
			delete(m.buckets, key)
		}
	}
}

func (m *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.removeStale()
		case <-m.done:
			return
		}
	}
}

// Close stops the cleanup loop. Safe to call more than once.
func (m *MemoryStore) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}
