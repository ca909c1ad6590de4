// Package config loads the service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Payment gateway redirect target and the URL the gateway sends the
	// customer back to after paying.
	PaymentGatewayURL string
	PaymentReturnURL  string

	ImageDir         string
	ImagePlaceholder string

	NotifyPollInterval time.Duration
	DashboardLineLimit int

	AdminToken string
}

func Load() (*Config, error) {
	// Missing .env is fine; in production everything comes from the
	// environment directly.
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		PaymentGatewayURL:  getEnv("PAYMENT_GATEWAY_URL", "https://pay.example.com/checkout"),
		PaymentReturnURL:   getEnv("PAYMENT_RETURN_URL", "http://localhost:8080/api/checkout/return"),
		ImageDir:           getEnv("IMAGE_DIR", "./data/images"),
		ImagePlaceholder:   getEnv("IMAGE_PLACEHOLDER", "./assets/placeholder.png"),
		NotifyPollInterval: getEnvDuration("NOTIFY_POLL_INTERVAL", 30*time.Second),
		DashboardLineLimit: getEnvInt("DASHBOARD_LINE_LIMIT", 1000),
		AdminToken:         os.Getenv("ADMIN_TOKEN"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
