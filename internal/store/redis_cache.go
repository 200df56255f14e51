package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/counter-shortener/internal/shortener"
)

// RedisCache is a Redis implementation of shortener.Cache.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a Redis cache. A zero ttl keeps entries until evicted.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: "cache:url:",
		ttl:    ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context, code shortener.Code) (string, error) {
	url, err := c.client.Get(ctx, c.prefix+string(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrCacheMiss
		}

		return "", err
	}

	return url, nil
}

func (c *RedisCache) Set(ctx context.Context, code shortener.Code, originalURL string) error {
	return c.client.Set(ctx, c.prefix+string(code), originalURL, c.ttl).Err()
}

// Ping checks Redis connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

var _ shortener.Cache = (*RedisCache)(nil)
