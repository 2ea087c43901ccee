package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces identity keys in Redis
const DefaultKeyPrefix = "connector:job:identity:"

// RedisIdentityStore shares job identity keys between connector instances
type RedisIdentityStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisIdentityStore wraps an existing client
func NewRedisIdentityStore(client *redis.Client, keyPrefix string) *RedisIdentityStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisIdentityStore{client: client, keyPrefix: keyPrefix}
}

// DialRedis opens a client and checks the connection
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return client, nil
}

// MarkProcessed takes key with SETNX so concurrent submitters race safely
func (s *RedisIdentityStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to take identity key: %w", err)
	}
	return ok, nil
}

// IsProcessed reports whether key is currently taken
func (s *RedisIdentityStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check identity key: %w", err)
	}
	return n > 0, nil
}

// Release frees key
func (s *RedisIdentityStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release identity key: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisIdentityStore) Close() error {
	return s.client.Close()
}

var _ shared.IdempotencyStore = (*RedisIdentityStore)(nil)
