package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Contact intake rate limiting (fixed window, per client IP)
	ContactRateMax    int
	ContactRateWindow time.Duration

	// Email notifications. Provider is "sendgrid" or "ses"; dispatch is
	// skipped entirely when NotifyEmail or the provider credentials are
	// missing.
	EmailProvider  string
	NotifyEmail    string
	FromEmail      string
	FromName       string
	SendGridAPIKey string

	// AWS credentials, only consulted when EmailProvider is "ses"
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Chat notifications
	ChatWebhookURL string

	// Redis-backed shared rate-limit state (optional; in-process fallback
	// is used when unset or unreachable)
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Booking page: when set the frontend renders the scheduler iframe
	// instead of the simple booking form
	SchedulerEmbedURL string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),

		ContactRateMax:    getEnvAsInt("CONTACT_RATE_MAX", 5),
		ContactRateWindow: getEnvAsDuration("CONTACT_RATE_WINDOW", 10*time.Minute),

		EmailProvider:  strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "sendgrid"))),
		NotifyEmail:    getEnv("NOTIFY_EMAIL", ""),
		FromEmail:      getEnv("EMAIL_FROM", ""),
		FromName:       getEnv("EMAIL_FROM_NAME", "ClarityForge"),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		ChatWebhookURL: getEnv("CHAT_WEBHOOK_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		SchedulerEmbedURL: getEnv("SCHEDULER_EMBED_URL", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
