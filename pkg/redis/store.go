package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps JSON-encoded values of type T under a common key prefix.
type Store[T any] struct {
	client redis.UniversalClient
	prefix string
}

// NewStore returns a Store writing keys as "<prefix>:<key>".
func NewStore[T any](client redis.UniversalClient, prefix string) *Store[T] {
	return &Store[T]{client: client, prefix: prefix}
}

func (s *Store[T]) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

// Get returns ErrKeyNotFound for missing keys.
func (s *Store[T]) Get(ctx context.Context, key string) (T, error) {
	var v T
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, ErrKeyNotFound
	}
	if err != nil {
		return v, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

// Set stores v. A zero ttl keeps the key forever.
func (s *Store[T]) Set(ctx context.Context, key string, v T, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete is a no-op for missing keys.
func (s *Store[T]) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
