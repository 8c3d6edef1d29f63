package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clarityforge/site-backend/internal/api/router"
	"github.com/clarityforge/site-backend/internal/booking"
	appconfig "github.com/clarityforge/site-backend/internal/config"
	"github.com/clarityforge/site-backend/internal/inquiry"
	"github.com/clarityforge/site-backend/internal/notify"
	"github.com/clarityforge/site-backend/internal/observability/metrics"
	"github.com/clarityforge/site-backend/internal/ratelimit"
	"github.com/clarityforge/site-backend/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	if cfg.Env == "development" {
		logger = logging.NewText(cfg.LogLevel)
	}
	logger.Info("starting site-backend API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Shared rate-limit state is optional; without Redis the limiter
	// tracks per instance only.
	var primaryStore ratelimit.Store
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		primaryStore = ratelimit.NewRedisStore(redis.NewClient(opts), "contact")
		logger.Info("rate limiting backed by redis", "addr", cfg.RedisAddr)
	}
	limiter := ratelimit.NewLimiter(primaryStore, cfg.ContactRateMax, cfg.ContactRateWindow, logger)

	emailSender := buildEmailSender(cfg, logger)
	if emailSender == nil || cfg.NotifyEmail == "" {
		logger.Warn("email dispatch disabled, missing provider credentials or NOTIFY_EMAIL")
	}

	var chatSender notify.ChatSender
	if chat := notify.NewWebhookChatSender(cfg.ChatWebhookURL, nil, logger); chat != nil {
		chatSender = chat
	} else {
		logger.Warn("chat dispatch disabled, CHAT_WEBHOOK_URL not set")
	}

	intakeMetrics := metrics.NewIntakeMetrics(nil)
	dispatcher := notify.NewService(emailSender, chatSender, cfg.NotifyEmail, intakeMetrics, logger)
	contactHandler := inquiry.NewHandler(limiter, dispatcher, intakeMetrics, logger)
	bookingHandler := booking.NewConfigHandler(cfg.SchedulerEmbedURL, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		ContactHandler:     contactHandler,
		BookingHandler:     bookingHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildEmailSender picks the email provider from config. Returns nil when
// the selected provider is not fully configured, which disables the email
// channel rather than failing startup.
func buildEmailSender(cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "ses":
		loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
		if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
			loaders = append(loaders, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
			))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loaders...)
		if err != nil {
			logger.Error("failed to load AWS config, email dispatch disabled", "error", err)
			return nil
		}
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		}, logger); sender != nil {
			return sender
		}
	default:
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		}, logger); sender != nil {
			return sender
		}
	}
	return nil
}
