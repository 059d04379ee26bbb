package httpserver

import (
	"context"
	"log/slog"
	"time"
)

// Option configures a Server.
type Option func(*config)

// Hook runs around the server life-cycle.
type Hook func(ctx context.Context, log *slog.Logger)

func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: empty addr")
	}
	return func(c *config) { c.addr = addr }
}

func WithReadTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.readTimeout = d
		}
	}
}

func WithIdleTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.idleTimeout = d
		}
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStartHook registers h to run once the listener is about to serve.
func WithStartHook(h Hook) Option {
	return func(c *config) {
		if h != nil {
			c.startHooks = append(c.startHooks, h)
		}
	}
}

// WithStopHook registers h to run after graceful shutdown, e.g. closing
// database pools.
func WithStopHook(h Hook) Option {
	return func(c *config) {
		if h != nil {
			c.stopHooks = append(c.stopHooks, h)
		}
	}
}
