package container

import (
	"testing"

	"rsvp-relay/internal/config"
	"rsvp-relay/internal/service"
	"rsvp-relay/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name         string
		config       *config.Config
		expectRedis  bool
		expectLedger interface{}
	}{
		{
			name: "Container with Redis configured",
			config: &config.Config{
				Environment: "production",
				RedisURL:    "redis://" + mr.Addr(),
			},
			expectRedis:  true,
			expectLedger: &service.RedisRateLimiter{},
		},
		{
			name: "Container without Redis configured",
			config: &config.Config{
				Environment: "production",
			},
			expectRedis:  false,
			expectLedger: &service.MemoryRateLimiter{},
		},
		{
			name: "Container with invalid Redis URL",
			config: &config.Config{
				Environment: "staging",
				RedisURL:    "invalid://redis-url",
			},
			expectRedis:  false, // Redis client initialization fails but container creation succeeds
			expectLedger: &service.MemoryRateLimiter{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.config, logger.Nop())
			require.NoError(t, err)
			require.NotNil(t, c)
			t.Cleanup(func() {
				if c.HasRedis() {
					_ = c.GetRedisClient().Close()
				}
			})

			assert.Equal(t, tt.config, c.GetConfig())
			assert.NotNil(t, c.GetLogger())
			assert.Equal(t, tt.expectRedis, c.HasRedis())
			assert.IsType(t, tt.expectLedger, c.RateLimiter)
			assert.IsType(t, &service.WebhookRelay{}, c.MailRelay)
		})
	}
}
