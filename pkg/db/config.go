package db

import (
	"os"
	"strconv"
)

type PostgresConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

func LoadPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:         envOr("DB_HOST", "localhost"),
		Port:         envOrInt("DB_PORT", 5432),
		User:         envOr("DB_USER", "storefront"),
		Password:     os.Getenv("DB_PASSWORD"),
		DBName:       envOr("DB_NAME", "storefront"),
		SSLMode:      envOr("DB_SSLMODE", "disable"),
		MaxOpenConns: envOrInt("DB_MAX_OPEN_CONNS", 20),
		MaxIdleConns: envOrInt("DB_MAX_IDLE_CONNS", 10),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
