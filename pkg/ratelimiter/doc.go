// Package ratelimiter implements token bucket rate limiting over a pluggable
// Store. MemoryStore serves a single process; RedisStore shares buckets
// between instances.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       5,
//		RefillRate:     1,
//		RefillInterval: time.Minute,
//	})
//	if err != nil {
//		return err
//	}
//
//	res, err := limiter.Allow(ctx, "signin:"+ip)
//	if err != nil {
//		return err
//	}
//	if !res.Allowed() {
//		// retry after res.RetryAfter()
//	}
//
// Middleware applies a limiter to an HTTP handler and sets the
// X-RateLimit-* and Retry-After headers.
package ratelimiter
