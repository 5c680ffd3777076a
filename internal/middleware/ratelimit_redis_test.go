package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T, limit int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLimiter(client, "ratelimit:test", limit, window), mr
}

func TestRedisLimiterWindow(t *testing.T) {
	limiter, mr := newRedisLimiter(t, 2, time.Hour)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Allow(ctx, "user:1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, retry, err := limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retry, time.Duration(0))
	assert.LessOrEqual(t, retry, time.Hour)

	allowed, _, err = limiter.Allow(ctx, "user:2")
	require.NoError(t, err)
	assert.True(t, allowed)

	mr.FastForward(time.Hour)

	allowed, _, err = limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiterRestoresMissingTTL(t *testing.T) {
	limiter, mr := newRedisLimiter(t, 1, time.Minute)
	ctx := context.Background()

	// Counter left without an expiry, as after a failed EXPIRE
	require.NoError(t, mr.Set("ratelimit:test:user:1", "5"))

	allowed, retry, err := limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, retry)
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:test:user:1"))

	mr.FastForward(time.Minute)

	allowed, _, err = limiter.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiterUnavailable(t *testing.T) {
	limiter, mr := newRedisLimiter(t, 1, time.Minute)
	mr.Close()

	_, _, err := limiter.Allow(context.Background(), "user:1")
	assert.Error(t, err)
}
