package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps redis.Client and fails safe: an unreachable redis degrades to
// cache misses instead of surfacing errors, since every cached payload can be
// recomputed from the store.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Get returns the value, or nil on a miss or when redis is unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		zap.L().Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL. Redis errors are logged and dropped.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		zap.L().Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// Delete removes a key. Redis errors are logged and dropped.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		zap.L().Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}
