package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// Config describes a token bucket.
type Config struct {
	Capacity       int           `env:"CAPACITY" envDefault:"10"`
	RefillRate     int           `env:"REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"REFILL_INTERVAL" envDefault:"1s"`
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// Result is the outcome of one check.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Allowed reports whether the request fit in the bucket.
func (r Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is zero for allowed requests.
func (r Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

// Store keeps bucket state. A negative remaining count means the request
// must be denied. Consuming zero tokens only refreshes the bucket.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// Limiter is what callers of a Bucket depend on.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Bucket is a token bucket limiter.
type Bucket struct {
	store Store
	cfg   Config
}

var _ Limiter = (*Bucket)(nil)

func NewBucket(store Store, cfg Config) (*Bucket, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidConfig)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Bucket{store: store, cfg: cfg}, nil
}

func (b *Bucket) Allow(ctx context.Context, key string) (Result, error) {
	return b.AllowN(ctx, key, 1)
}

func (b *Bucket) AllowN(ctx context.Context, key string, n int) (Result, error) {
	if n <= 0 {
		return Result{}, fmt.Errorf("%w: must be positive, got %d", ErrInvalidTokenCount, n)
	}
	return b.consume(ctx, key, n)
}

// Status reports the bucket without consuming tokens.
func (b *Bucket) Status(ctx context.Context, key string) (Result, error) {
	return b.consume(ctx, key, 0)
}

func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}

func (b *Bucket) consume(ctx context.Context, key string, n int) (Result, error) {
	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, n, b.cfg)
	if err != nil {
		return Result{}, err
	}
	return Result{Limit: b.cfg.Capacity, Remaining: remaining, ResetAt: resetAt}, nil
}
