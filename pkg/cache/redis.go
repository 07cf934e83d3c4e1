package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens a Redis client and verifies it with a ping. The caller owns
// the client and should fall back to NewMemoryCounter on error.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return rdb, nil
}

// RedisCounter keeps counters in Redis so every instance shares the window.
type RedisCounter struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisCounter(rdb *redis.Client, prefix string) *RedisCounter {
	return &RedisCounter{rdb: rdb, prefix: prefix}
}

// Incr runs INCR and sets the expiry on the first hit of a window.
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := c.prefix + key

	n, err := c.rdb.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("cache: incr %s: %w", k, err)
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, k, window).Err(); err != nil {
			return n, fmt.Errorf("cache: expire %s: %w", k, err)
		}
	}
	return n, nil
}

func (c *RedisCounter) Driver() string { return "redis" }
