package service

import (
	"context"
	"testing"
	"time"

	"rsvp-relay/pkg/logger"
	"rsvp-relay/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRedisLimiter(t *testing.T) (*miniredis.Miniredis, *RedisRateLimiter) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://"+mr.Addr(), "production", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewRedisRateLimiter(client, logger.Nop())
}

func TestRedisRateLimiter_WithinWindow(t *testing.T) {
	_, limiter := setupRedisLimiter(t)
	ctx := context.Background()

	rejected, err := limiter.CheckAndRecord(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, rejected)

	rejected, err = limiter.CheckAndRecord(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, rejected)

	rejected, err = limiter.CheckAndRecord(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.False(t, rejected)
}

func TestRedisRateLimiter_AfterWindow(t *testing.T) {
	mr, limiter := setupRedisLimiter(t)
	ctx := context.Background()

	rejected, err := limiter.CheckAndRecord(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, rejected)

	mr.FastForward(RateLimitWindow)

	rejected, err = limiter.CheckAndRecord(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, rejected)
}

func TestRedisRateLimiter_KeyIsHashedAndExpires(t *testing.T) {
	mr, limiter := setupRedisLimiter(t)

	_, err := limiter.CheckAndRecord(context.Background(), "10.0.0.1")
	require.NoError(t, err)

	key := "prod:ratelimit:response:" + hashClientID("10.0.0.1")
	assert.True(t, mr.Exists(key))
	assert.Equal(t, RateLimitWindow, mr.TTL(key))
	assert.NotContains(t, mr.Keys()[0], "10.0.0.1")
}

func TestRedisRateLimiter_RedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := redis.NewClient("redis://"+mr.Addr(), "production", zap.NewNop())
	require.NoError(t, err)
	defer client.Close()

	limiter := NewRedisRateLimiter(client, logger.Nop())
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rejected, err := limiter.CheckAndRecord(ctx, "10.0.0.1")
	assert.Error(t, err)
	assert.False(t, rejected)
}
