// Package cache provides the key-value store used to stage pending
// mutations. Keys expire server-side; a lapsed key is indistinguishable
// from one that never existed.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/posthubapp/posthub-backend/internal/config"
)

// ErrMiss is returned by Get when the key is absent or has expired.
var ErrMiss = errors.New("cache: key not found")

// Store is the staging backend. Set overwrites any existing value under
// the key (last writer wins).
type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// RedisStore is the production Store backed by Redis.
type RedisStore struct {
	inner *redis.Client
}

func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &RedisStore{inner: client}, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.inner.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return val, err
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.inner.Del(ctx, key).Err()
}

func (s *RedisStore) Close() error {
	return s.inner.Close()
}
