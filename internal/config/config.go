package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

type Config struct {
	ServerPort     string
	Env            string
	DatabaseURL    string
	RedisURL       string
	RequestTimeout time.Duration

	JWTSecret       string
	TokenIssuer     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	DeviceType    string
	AppKeyType    string
	AdminUsername string
	DefaultTenant string
	TemplateDir   string
}

func LoadConfig() (*Config, error) {
	accessTTL, err := getDuration("ACCESS_TOKEN_TTL", "1h")
	if err != nil {
		return nil, err
	}
	refreshTTL, err := getDuration("REFRESH_TOKEN_TTL", "720h")
	if err != nil {
		return nil, err
	}
	timeout, err := getDuration("REQUEST_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		Env:            getEnv("APP_ENV", "dev"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		RequestTimeout: timeout,

		JWTSecret:       os.Getenv("JWT_SECRET"),
		TokenIssuer:     getEnv("TOKEN_ISSUER", "deviceprov"),
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,

		DeviceType:    getEnv("DEVICE_TYPE", "arduino"),
		AppKeyType:    getEnv("APP_KEY_TYPE", "PRODUCTION"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		DefaultTenant: getEnv("DEFAULT_TENANT", "carbon.super"),
		TemplateDir:   os.Getenv("TEMPLATE_DIR"),
	}

	// DATABASE_URL and REDIS_URL are optional; empty means in-memory stores
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}

	return cfg, nil
}

// Helper: get env with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %w", key, err)
	}
	return d, nil
}
