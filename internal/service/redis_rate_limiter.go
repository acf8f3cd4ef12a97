package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"rsvp-relay/pkg/logger"
	"rsvp-relay/pkg/redis"
)

// RedisRateLimiter shares the ledger between instances. SET NX with a TTL of
// one window admits a client at most once per window; Redis expiry replaces
// the in-memory sweep.
type RedisRateLimiter struct {
	redisClient *redis.Client
	window      time.Duration
	logger      *logger.Logger
	now         func() time.Time
}

// NewRedisRateLimiter creates a Redis-backed limiter with the default window
func NewRedisRateLimiter(redisClient *redis.Client, logger *logger.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		redisClient: redisClient,
		window:      RateLimitWindow,
		logger:      logger,
		now:         time.Now,
	}
}

// CheckAndRecord implements RateLimiter. Redis errors are returned with
// rejected=false so callers can fail open.
func (l *RedisRateLimiter) CheckAndRecord(ctx context.Context, clientID string) (bool, error) {
	key := l.redisClient.KeyBuilder.KeyResponseRateLimit(hashClientID(clientID))

	admitted, err := l.redisClient.SetNX(ctx, key, l.now().UnixMilli(), l.window)
	if err != nil {
		return false, fmt.Errorf("failed to record rate limit entry: %w", err)
	}

	if !admitted {
		l.logger.WithField("key", key).Debug("Rate limit hit")
	}

	return !admitted, nil
}

// hashClientID keeps raw addresses out of Redis keys
func hashClientID(clientID string) string {
	hash := sha256.Sum256([]byte(clientID))
	return fmt.Sprintf("%x", hash)[:16]
}
