package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Environment    string

	// Mail relay webhook. All three are required to forward responses; they
	// are checked per request so a misconfigured instance still serves the
	// frontend and health checks.
	MailWebhookURL    string
	MailWebhookSecret string
	TargetEmail       string

	RedisURL string // Optional shared rate-limit ledger
	DistDir  string // Built frontend
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:              getEnv("PORT", "3000"),
		AllowedOrigins:    parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Environment:       getEnv("ENVIRONMENT", "production"),
		MailWebhookURL:    getEnv("LOGIC_APP_URL", ""),
		MailWebhookSecret: getEnv("LOGIC_APP_SHARED_SECRET", ""),
		TargetEmail:       getEnv("TARGET_EMAIL", ""),
		RedisURL:          getEnv("REDIS_URL", ""),
		DistDir:           getEnv("DIST_DIR", "dist"),
	}, nil
}

// MissingMailSettings lists the environment variables the mail relay still needs
func (c *Config) MissingMailSettings() []string {
	var missing []string
	if c.MailWebhookURL == "" {
		missing = append(missing, "LOGIC_APP_URL")
	}
	if c.MailWebhookSecret == "" {
		missing = append(missing, "LOGIC_APP_SHARED_SECRET")
	}
	if c.TargetEmail == "" {
		missing = append(missing, "TARGET_EMAIL")
	}
	return missing
}

// MailConfigured reports whether responses can be forwarded
func (c *Config) MailConfigured() bool {
	return len(c.MissingMailSettings()) == 0
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
