package session

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/studylog/pkg/redis"
)

// RedisStore keeps sessions in Redis with a TTL matching ExpiresAt.
type RedisStore struct {
	kv *redis.Store[Session]
}

func NewRedisStore(client goredis.UniversalClient) *RedisStore {
	return &RedisStore{kv: redis.NewStore[Session](client, "session")}
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.Token == "" {
		return ErrInvalidSession
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}
	return s.kv.Set(ctx, sess.Token, *sess, ttl)
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	sess, err := s.kv.Get(ctx, token)
	if errors.Is(err, redis.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if sess.IsExpired() {
		return nil, ErrSessionExpired
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.kv.Delete(ctx, token)
}
