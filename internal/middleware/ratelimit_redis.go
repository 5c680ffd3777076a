package middleware

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed window Limiter shared by every server instance.
// Each key counts up with INCR and expires one window after its first hit.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := l.prefix + ":" + key

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		ttl = pipe.TTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return false, 0, errors.Wrap(err, "redis incr")
	}

	count := incr.Val()
	remaining := ttl.Val()

	// A key without a TTL starts its window now, including one left behind
	// by an earlier EXPIRE that failed.
	if remaining < 0 {
		err = l.client.Expire(ctx, redisKey, l.window).Err()
		if err != nil {
			return false, 0, errors.Wrap(err, "redis expire")
		}
		remaining = l.window
	}

	if count > int64(l.limit) {
		return false, remaining, nil
	}

	return true, 0, nil
}
