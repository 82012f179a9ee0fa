package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis so database selections survive
// process restarts and are shared across instances.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

// NewRedisStore creates a Redis-backed store. Keys expire ttl after their
// last write.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, prefix: "tenantdb:selection:"}
}

func (s *RedisStore) key(token string) string {
	return s.prefix + token
}

// Get returns the alias stored for token.
func (s *RedisStore) Get(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrEmptyToken
	}

	alias, err := s.client.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return alias, nil
}

// Set stores the alias for token and resets its TTL.
func (s *RedisStore) Set(ctx context.Context, token, alias string) error {
	if token == "" {
		return ErrEmptyToken
	}
	return s.client.Set(ctx, s.key(token), alias, s.ttl).Err()
}

// Delete removes the selection for token.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	return s.client.Del(ctx, s.key(token)).Err()
}
