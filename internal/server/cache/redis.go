// Package cache owns the Redis connection used by the API. When no address
// is configured an embedded miniredis instance is started instead.
package cache

import (
	"context"
	"fmt"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/biscotto/internal/logging"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
	mini   *miniredis.Miniredis
}

// Open connects to addr, or starts embedded Redis when addr is empty.
func Open(ctx context.Context, addr string, l logging.Logger) (*Cache, error) {
	c := &Cache{}

	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("failed to start embedded redis: %w", err)
		}
		c.mini = mr
		c.client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		l.Info(ctx, "embedded redis started", "addr", mr.Addr())
		return c, nil
	}

	c.client = redis.NewClient(&redis.Options{Addr: addr})
	if err := c.client.Ping(ctx).Err(); err != nil {
		_ = c.client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	l.Info(ctx, "connected to redis", "addr", addr)
	return c, nil
}

func (c *Cache) Client() *redis.Client { return c.client }

// Embedded reports whether the cache runs on in-process miniredis.
func (c *Cache) Embedded() bool { return c.mini != nil }

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the client and stops embedded Redis if it was started.
func (c *Cache) Close() error {
	err := c.client.Close()
	if c.mini != nil {
		c.mini.Close()
	}
	return err
}
