package cart

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is the small key-value surface the cart persists through. A nil
// byte slice with a nil error means the key does not exist yet.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// RedisStorage persists carts in Redis with a TTL, scoped per browsing
// session. There is no cross-session locking; the last writer wins.
type RedisStorage struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStorage(client redis.UniversalClient, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, err
	}

	return data, nil
}

func (s *RedisStorage) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, s.ttl).Err()
}

// MemoryStorage is an in-process Storage used by tests and local tooling.
type MemoryStorage struct {
	values map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values: make(map[string][]byte),
	}
}

func (s *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	return s.values[key], nil
}

func (s *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	s.values[key] = value
	return nil
}
