// ABOUTME: Redis cache for sharing deduplicated result batches across instances
// ABOUTME: Values are opaque JSON bytes; misses surface as ErrCacheMiss

package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"search-results-api/pkg/config"
)

// pingTimeout bounds the connection check at construction time
const pingTimeout = 5 * time.Second

// ErrCacheMiss is returned for missing or expired keys
var ErrCacheMiss = errors.New("cache miss")

// RedisCache implements the Cache interface on a Redis server, letting
// multiple API instances share cached result batches
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection before
// returning, so a misconfigured address fails at startup rather than on
// the first search
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

// Get retrieves the bytes stored under key, or ErrCacheMiss
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores value under key. A zero TTL stores without expiration,
// matching Redis SET semantics.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes key. Deleting an absent key is not an error.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Close releases the connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}
