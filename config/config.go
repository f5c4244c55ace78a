package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Rabbit   RabbitConfig
	Billing  BillingConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	LogLevel     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type RabbitConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
	Queue    string
}

type BillingConfig struct {
	// FraudVelocityLimit is the max transactions per trailing 24h before
	// the generic path rejects; FraudMagnitudeThreshold the max absolute
	// distance from the user's average amount.
	FraudVelocityLimit      int64
	FraudMagnitudeThreshold int64
	SubscriptionCacheTTL    time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8099"),
			Env:          env("APP_ENV", "development"),
			LogLevel:     env("LOG_LEVEL", "info"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             env("DATABASE_DSN", "crave:crave@tcp(localhost:3306)/crave?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: env("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "crave",
		},
		Rabbit: RabbitConfig{
			Host:     env("RABBIT_HOST", "localhost"),
			Port:     envInt("RABBIT_PORT", 5672),
			User:     env("RABBIT_USER", "guest"),
			Password: env("RABBIT_PASSWORD", "guest"),
			VHost:    env("RABBIT_VHOST", "/"),
			Queue:    env("RABBIT_QUEUE", "billing.notifications"),
		},
		Billing: BillingConfig{
			FraudVelocityLimit:      10,
			FraudMagnitudeThreshold: 1000,
			SubscriptionCacheTTL:    30 * time.Second,
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
