// Package cache is the best-effort Redis profile cache.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Common cache errors.
var (
	ErrCacheMiss       = errors.New("cache miss")
	ErrMissingRedisURL = errors.New("REDIS_URL is not defined")
)

// Cache provides Redis cache access methods.
type Cache struct {
	client *redis.Client
}

// Open builds a Cache for redisURL without contacting the server.
// go-redis dials lazily, so an outage at startup only surfaces on first use.
func Open(redisURL string) (*Cache, error) {
	if redisURL == "" {
		return nil, ErrMissingRedisURL
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	return &Cache{client: redis.NewClient(opt)}, nil
}

// New is Open followed by a ping. The client is closed if the ping fails.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	c, err := Open(redisURL)
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return c, nil
}

// NewFromClient wraps an existing Redis client.
func NewFromClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get returns the raw value stored at key.
// Returns ErrCacheMiss if the key does not exist.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

// Set stores value at key. A zero ttl keeps the key until it is overwritten or deleted.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client is used by integration helpers to flush the database.
func (c *Cache) Client() *redis.Client {
	return c.client
}
