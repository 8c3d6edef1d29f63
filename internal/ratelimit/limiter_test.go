package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestRedisStore_FixedWindow(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client, "contact")
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		count, _, err := store.Incr(ctx, "203.0.113.7", 10*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	// Window expiry resets the counter.
	mr.FastForward(11 * time.Minute)
	count, _, err := store.Incr(ctx, "203.0.113.7", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRedisStore_IndependentKeys(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisStore(client, "contact")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := store.Incr(ctx, "203.0.113.7", 10*time.Minute)
		require.NoError(t, err)
	}

	count, _, err := store.Incr(ctx, "198.51.100.1", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "a distinct IP gets its own window")
}

func TestMemoryStore_FixedWindow(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		count, reset, err := store.Incr(ctx, "ip-a", 50*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, i, count)
		assert.False(t, reset.IsZero())
	}

	time.Sleep(60 * time.Millisecond)

	count, _, err := store.Incr(ctx, "ip-a", 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "expired window restarts the count")
}

func TestLimiter_SixthRequestDenied(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewLimiter(NewRedisStore(client, "contact"), 5, 10*time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res := limiter.Allow(ctx, "203.0.113.7")
		assert.True(t, res.Allowed, "request %d should be allowed", i+1)
	}

	res := limiter.Allow(ctx, "203.0.113.7")
	assert.False(t, res.Allowed, "sixth request should be denied")
	assert.Equal(t, 6, res.Count)

	other := limiter.Allow(ctx, "198.51.100.1")
	assert.True(t, other.Allowed, "a distinct IP in the same window succeeds")
}

func TestLimiter_FallsBackWhenRedisDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	limiter := NewLimiter(NewRedisStore(client, "contact"), 2, 10*time.Minute, nil)
	ctx := context.Background()

	mr.Close()

	// Store errors degrade to per-instance tracking instead of failing.
	assert.True(t, limiter.Allow(ctx, "203.0.113.7").Allowed)
	assert.True(t, limiter.Allow(ctx, "203.0.113.7").Allowed)
	assert.False(t, limiter.Allow(ctx, "203.0.113.7").Allowed)
}

func TestLimiter_MemoryOnly(t *testing.T) {
	limiter := NewLimiter(nil, 3, 10*time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, "ip-a").Allowed)
	}
	assert.False(t, limiter.Allow(ctx, "ip-a").Allowed)
	assert.True(t, limiter.Allow(ctx, "ip-b").Allowed)
}
