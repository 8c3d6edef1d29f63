package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store counts requests per key within a fixed window. Incr returns the
// count after incrementing and the time the current window resets.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int, reset time.Time, err error)
}

// RedisStore keeps fixed-window counters in Redis so the limit is shared
// across instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed counter store.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Incr increments the counter for key using INCR with an EXPIRE set on the
// first hit of each window.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	rkey := fmt.Sprintf("%s:%s", s.prefix, key)

	count, err := s.client.Incr(ctx, rkey).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("ratelimit: incr %s: %w", rkey, err)
	}

	// Set expiry only on first increment
	if count == 1 {
		s.client.Expire(ctx, rkey, window)
	}

	ttl, err := s.client.TTL(ctx, rkey).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}

	return int(count), time.Now().Add(ttl), nil
}

var _ Store = (*RedisStore)(nil)
