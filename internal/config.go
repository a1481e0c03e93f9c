package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16

	// APIBaseURL is the storefront backend this gateway fronts,
	// including any path prefix (e.g. "https://api.example.com/api").
	APIBaseURL string

	// TenantID travels with auth calls; the backend is multi-tenant.
	TenantID int

	// RedisURL selects the session store. Empty means in-memory
	// sessions, which do not survive a restart.
	RedisURL string

	SessionTTL time.Duration

	// RazorpayKeyID is the publishable key handed to the hosted widget.
	RazorpayKeyID string

	Currency         string
	MetricsNamespace string
}

func NewConfig() (*Config, error) {
	// Try .env in the current directory, then walk up (max 2 levels).
	if err := godotenv.Load(); err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", 3000)
	v.SetDefault("API_BASE_URL", "http://localhost:5000/api")
	v.SetDefault("TENANT_ID", 1)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("SESSION_TTL", "720h")
	v.SetDefault("RAZORPAY_KEY_ID", "")
	v.SetDefault("CURRENCY", "INR")
	v.SetDefault("METRICS_NAMESPACE", "market")

	cfg := &Config{
		Env:              v.GetString("ENV"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		Port:             uint16(v.GetUint32("PORT")),
		APIBaseURL:       v.GetString("API_BASE_URL"),
		TenantID:         v.GetInt("TENANT_ID"),
		RedisURL:         v.GetString("REDIS_URL"),
		SessionTTL:       v.GetDuration("SESSION_TTL"),
		RazorpayKeyID:    v.GetString("RAZORPAY_KEY_ID"),
		Currency:         v.GetString("CURRENCY"),
		MetricsNamespace: v.GetString("METRICS_NAMESPACE"),
	}

	if cfg.Env != "dev" && cfg.Env != "prod" {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.TenantID <= 0 {
		return nil, fmt.Errorf("TENANT_ID must be a positive integer")
	}

	if cfg.Env == "prod" {
		if cfg.RazorpayKeyID == "" {
			return nil, fmt.Errorf("RAZORPAY_KEY_ID must be set in production")
		}
		if cfg.RedisURL == "" {
			slog.Default().Warn("REDIS_URL not set: sessions will not survive a restart")
		}
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 720 * time.Hour
	}

	return cfg, nil
}
