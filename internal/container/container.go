package container

import (
	"rsvp-relay/internal/config"
	"rsvp-relay/internal/service"
	"rsvp-relay/pkg/logger"
	"rsvp-relay/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisClient *redis.Client
	RateLimiter service.RateLimiter
	MailRelay   service.MailRelay
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *logger.Logger) (*Container, error) {
	// Initialize Redis client if Redis URL is configured
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, falling back to in-memory rate limiting")
		} else {
			redisClient = client
			logger.Info("Redis client initialized successfully")
		}
	} else {
		logger.Info("Redis URL not configured, using in-memory rate limiting")
	}

	var rateLimiter service.RateLimiter
	if redisClient != nil {
		rateLimiter = service.NewRedisRateLimiter(redisClient, logger)
	} else {
		rateLimiter = service.NewMemoryRateLimiter()
	}

	if !cfg.MailConfigured() {
		logger.WithField("missing", cfg.MissingMailSettings()).Warn("Mail forwarding is not configured, responses will be rejected")
	}

	return &Container{
		Config:      cfg,
		Logger:      logger,
		RedisClient: redisClient,
		RateLimiter: rateLimiter,
		MailRelay:   service.NewWebhookRelay(cfg.MailWebhookURL, cfg.MailWebhookSecret, logger),
	}, nil
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetRedisClient returns the Redis client (may be nil if not configured)
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}
