package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript refills and consumes a bucket stored as a hash in one round
// trip. Times are unix milliseconds.
var consumeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])
local now = tonumber(ARGV[5])
local ttl = tonumber(ARGV[6])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'refill')
local tokens = tonumber(state[1])
local refill = tonumber(state[2])
if tokens == nil or refill == nil then
	tokens = capacity
	refill = now
end

local intervals = math.floor((now - refill) / interval)
local cap = math.floor(capacity / rate) + 1
if intervals > cap then
	intervals = cap
end
if intervals > 0 then
	tokens = math.min(tokens + intervals * rate, capacity)
	refill = now
end

local remaining = tokens - requested
if remaining >= 0 then
	tokens = remaining
end
redis.call('HSET', KEYS[1], 'tokens', tokens, 'refill', refill)
redis.call('PEXPIRE', KEYS[1], ttl)
return {remaining, refill + interval}
`)

// RedisStore keeps buckets in Redis so every instance shares them.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + ":" + k
}

func (s *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	// A full refill takes capacity/rate intervals; keep the key a little longer.
	ttl := cfg.RefillInterval * time.Duration(cfg.Capacity/cfg.RefillRate+1)
	res, err := consumeScript.Run(ctx, s.client, []string{s.key(key)},
		cfg.Capacity,
		cfg.RefillRate,
		cfg.RefillInterval.Milliseconds(),
		tokens,
		s.now().UnixMilli(),
		ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("%w: unexpected script reply %v", ErrStoreUnavailable, res)
	}
	return int(res[0]), time.UnixMilli(res[1]), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
