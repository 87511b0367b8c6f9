package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is the environment-driven service configuration.
type Config struct {
	DatabaseURL string
	Port        int

	// Store API keys: the anonymous key for customer-facing reads and the
	// service-role key for privileged admin operations.
	StoreAnonKey    string
	StoreServiceKey string

	// OAuth identity provider.
	OAuthClientID     string
	OAuthClientSecret string
	OAuthJWKSURL      string
	JWTSecret         string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
}

// Load reads configuration from the environment. DATABASE_URL is the only
// hard requirement; everything else has development defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		StoreAnonKey:      os.Getenv("STORE_ANON_KEY"),
		StoreServiceKey:   os.Getenv("STORE_SERVICE_KEY"),
		OAuthClientID:     os.Getenv("OAUTH_CLIENT_ID"),
		OAuthClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
		OAuthJWKSURL:      os.Getenv("OAUTH_JWKS_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RedisAddr:         envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		MinioEndpoint:     envOr("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:    envOr("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:    envOr("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:       os.Getenv("MINIO_USE_SSL") == "true",
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	port := envOr("PORT", "8080")
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
	}
	cfg.Port = p

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			cfg.RedisDB = db
		}
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
