package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter per key.
type RateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

func (r *RateLimiter) Limit() int { return r.limit }

// Allow counts one hit for key and reports whether it is within the limit,
// together with the number of hits left in the current window.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	k := r.prefix + key

	n64, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return true, r.limit, err
	}
	if n64 == 1 {
		if err := r.client.Expire(ctx, k, r.window).Err(); err != nil {
			return true, r.limit, err
		}
	}

	n := int(n64)
	remaining := r.limit - n
	if remaining < 0 {
		remaining = 0
	}
	return n <= r.limit, remaining, nil
}
