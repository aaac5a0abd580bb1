package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/cofferhq/coffer/pkg/jwtx"
	"github.com/shopspring/decimal"
)

type Config struct {
	Issuer    string // Optional: issuer claim for tokens (default: coffer)
	JWTSecret string // Required: symmetric HS256 signing secret, min 32 bytes

	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTokenTTL time.Duration // Optional: refresh token lifetime (default: 24h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./coffer.db)
	PepperFile   string // Optional: path to password hashing pepper file (default: ./pepper)

	PromotionalAmount decimal.Decimal // Optional: opening balance credited at registration (default: 0)
	MaxTopUp          decimal.Decimal // Optional: per-operation top-up ceiling (default: 500)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// ErrMissingJWTSecret means BANK_JWT_SECRET is unset. There is no usable
// default for a signing secret.
var ErrMissingJWTSecret = errors.New("app: BANK_JWT_SECRET is required")

func LoadConfig() (Config, error) {
	cfg := Config{
		Issuer:    getEnvOrDefault("BANK_ISSUER", "coffer"),
		JWTSecret: os.Getenv("BANK_JWT_SECRET"),

		AccessTokenTTL:  getEnvDurationOrDefault("BANK_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("BANK_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),

		DatabaseFile: getEnvOrDefault("BANK_DATABASE_FILE", "coffer.db"),
		PepperFile:   getEnvOrDefault("BANK_PEPPER_FILE", "pepper"),

		PromotionalAmount: getEnvDecimalOrDefault("BANK_PROMOTIONAL_AMOUNT", decimal.Zero),
		MaxTopUp:          getEnvDecimalOrDefault("BANK_MAX_TOPUP", decimal.NewFromInt(500)),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}

func getEnvDecimalOrDefault(key string, defaultValue decimal.Decimal) decimal.Decimal {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if d, err := decimal.NewFromString(value); err == nil {
		return d
	}

	return defaultValue
}
