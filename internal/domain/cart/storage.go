// internal/domain/cart/storage.go
package cart

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is the durable key-value store holding serialized cart
// entries. A single string key maps to one JSON blob.
type Storage interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisStorage implements Storage on a Redis client. The key is also
// given a server-side TTL matching the entry-level one, so abandoned
// carts are reclaimed even if never read again.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage creates a Redis-backed cart storage
func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

// Load reads the value under key; the second return is false when the
// key does not exist.
func (s *RedisStorage) Load(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Save writes the value under key with the given TTL
func (s *RedisStorage) Save(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes the key
func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
