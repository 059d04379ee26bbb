package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/studylog/pkg/redis"
)

// RedisStateStore keeps session bindings in Redis so every instance sees the
// same signed-in state.
type RedisStateStore struct {
	kv  *redis.Store[uuid.UUID]
	ttl time.Duration
}

func NewRedisStateStore(client goredis.UniversalClient, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{kv: redis.NewStore[uuid.UUID](client, "identity:session"), ttl: ttl}
}

func (s *RedisStateStore) Bind(ctx context.Context, sessionID string, userID uuid.UUID) error {
	return s.kv.Set(ctx, sessionID, userID, s.ttl)
}

func (s *RedisStateStore) Lookup(ctx context.Context, sessionID string) (uuid.UUID, error) {
	id, err := s.kv.Get(ctx, sessionID)
	if errors.Is(err, redis.ErrKeyNotFound) {
		return uuid.Nil, nil
	}
	return id, err
}

func (s *RedisStateStore) Unbind(ctx context.Context, sessionID string) error {
	return s.kv.Delete(ctx, sessionID)
}
