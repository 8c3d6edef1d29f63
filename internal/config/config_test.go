package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CONTACT_RATE_MAX", "")
	t.Setenv("CONTACT_RATE_WINDOW", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CHAT_WEBHOOK_URL", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.ContactRateMax != 5 {
		t.Fatalf("expected default rate max 5, got %d", cfg.ContactRateMax)
	}
	if cfg.ContactRateWindow != 10*time.Minute {
		t.Fatalf("expected default rate window 10m, got %s", cfg.ContactRateWindow)
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Fatalf("expected default email provider sendgrid, got %s", cfg.EmailProvider)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("expected redis disabled by default, got %s", cfg.RedisAddr)
	}
	if cfg.SchedulerEmbedURL != "" {
		t.Fatalf("expected no scheduler embed by default, got %s", cfg.SchedulerEmbedURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CONTACT_RATE_MAX", "10")
	t.Setenv("CONTACT_RATE_WINDOW", "1h")
	t.Setenv("EMAIL_PROVIDER", " SES ")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://clarityforge.dev, https://www.clarityforge.dev")

	cfg := Load()

	if cfg.ContactRateMax != 10 {
		t.Fatalf("expected rate max 10, got %d", cfg.ContactRateMax)
	}
	if cfg.ContactRateWindow != time.Hour {
		t.Fatalf("expected rate window 1h, got %s", cfg.ContactRateWindow)
	}
	if cfg.EmailProvider != "ses" {
		t.Fatalf("expected normalized provider ses, got %q", cfg.EmailProvider)
	}
	if !cfg.RedisTLS {
		t.Fatal("expected redis TLS enabled")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://www.clarityforge.dev" {
		t.Fatalf("expected parsed CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("CONTACT_RATE_MAX", "lots")
	t.Setenv("CONTACT_RATE_WINDOW", "soon")
	t.Setenv("REDIS_TLS", "definitely")

	cfg := Load()

	if cfg.ContactRateMax != 5 {
		t.Fatalf("expected fallback rate max, got %d", cfg.ContactRateMax)
	}
	if cfg.ContactRateWindow != 10*time.Minute {
		t.Fatalf("expected fallback rate window, got %s", cfg.ContactRateWindow)
	}
	if cfg.RedisTLS {
		t.Fatal("expected fallback redis TLS false")
	}
}
