// Package cache wraps Redis for read-through caching of single users.
// Every method fails safe: a nil client or an unreachable server behaves
// like an empty cache.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client. An empty addr disables caching and returns nil.
func New(addr, password string, db int) *Client {
	if addr == "" {
		return nil
	}
	return &Client{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) []byte {
	if c == nil || c.client == nil {
		return nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Debug().Err(err).Str("key", key).Msg("cache get failed")
		}
		return nil
	}
	return res
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache delete failed")
	}
}

// DeletePrefix removes every key starting with prefix.
func (c *Client) DeletePrefix(ctx context.Context, prefix string) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Debug().Err(err).Str("key", iter.Val()).Msg("cache delete failed")
		}
	}
	if err := iter.Err(); err != nil {
		log.Debug().Err(err).Str("prefix", prefix).Msg("cache scan failed")
	}
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
