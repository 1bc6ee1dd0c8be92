// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Development fallbacks that must never reach production.
const (
	defaultDBPassword = "changeme"
	defaultJWTSecret  = "dev-secret-change-me"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string `envconfig:"APP_HOST" default:"0.0.0.0"`
	Port string `envconfig:"APP_PORT" default:"8080"`
	Env  string `envconfig:"APP_ENV" default:"development"` // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	DBPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	DBUser     string `envconfig:"POSTGRES_USER" default:"coursereview"`
	DBPassword string `envconfig:"POSTGRES_PASSWORD" default:"changeme"`
	DBName     string `envconfig:"POSTGRES_DB" default:"coursereview"`

	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`

	// Valkey (Redis-compatible cache). Caching is disabled when ValkeyHost is empty.
	ValkeyHost     string `envconfig:"VALKEY_HOST" default:"localhost"`
	ValkeyPort     string `envconfig:"VALKEY_PORT" default:"6379"`
	ValkeyPassword string `envconfig:"VALKEY_PASSWORD"`
	ValkeyDB       int    `envconfig:"VALKEY_DB" default:"0"`

	// Credentials
	JWTAccessSecret    string        `envconfig:"JWT_ACCESS_SECRET" default:"dev-secret-change-me"`
	JWTAccessExpiresIn time.Duration `envconfig:"JWT_ACCESS_EXPIRES_IN" default:"240h"`
	BcryptSaltRounds   int           `envconfig:"BCRYPT_SALT_ROUNDS" default:"12"`
	DefaultPassword    string        `envconfig:"DEFAULT_PASSWORD" default:"course123"`

	// HTTP edge
	CORSOrigins   []string `envconfig:"CORS_ORIGINS" default:"*"`
	AuthRateLimit float64  `envconfig:"AUTH_RATE_LIMIT" default:"1"` // requests per second per client
	AuthRateBurst int      `envconfig:"AUTH_RATE_BURST" default:"10"`
	// TrustProxy keys the auth rate limiter on X-Forwarded-For/X-Real-IP.
	// Enable only behind a reverse proxy that overwrites those headers.
	TrustProxy bool `envconfig:"TRUST_PROXY" default:"false"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if cfg.JWTAccessExpiresIn <= 0 {
		return nil, errors.New("JWT_ACCESS_EXPIRES_IN must be positive")
	}
	if len(cfg.DefaultPassword) > 20 {
		return nil, errors.New("DEFAULT_PASSWORD cannot be more than 20 characters")
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == defaultDBPassword {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.JWTAccessSecret == defaultJWTSecret {
			return nil, fmt.Errorf("JWT_ACCESS_SECRET must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ValkeyEnabled reports whether a cache host is configured.
func (c *Config) ValkeyEnabled() bool {
	return c.ValkeyHost != ""
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
