// Package config loads Guildhall configuration from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file (ENV_FILE, default ".env"). Variables already present in the
// environment win over the file. Load never fails on missing values;
// call Validate before using the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/forgo/guildhall/api/internal/database"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	RateLimit   RateLimitConfig
	Idempotency IdempotencyConfig
	Metrics     MetricsConfig
	Audit       AuditConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	Env             string        `env:"SERVER_ENV" envDefault:"development"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	APIPrefix       string        `env:"API_PREFIX" envDefault:"/api/v1"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:8080" envSeparator:","`
}

// DatabaseConfig holds the SurrealDB connection string
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL"`
}

// JWTConfig holds access token settings
type JWTConfig struct {
	SecretKey      string `env:"JWT_SECRET_KEY"`
	Algorithm      string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	ExpirationMins int    `env:"JWT_ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
	Issuer         string `env:"JWT_ISSUER" envDefault:"guildhall"`
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	Burst    int           `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

// IdempotencyConfig holds Idempotency-Key replay settings
type IdempotencyConfig struct {
	TTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// AuditConfig schedules the bookmark counter audit. Zero disables it.
type AuditConfig struct {
	Interval time.Duration `env:"BOOKMARK_AUDIT_INTERVAL" envDefault:"15m"`
}

// minProductionSecretLen is the shortest HMAC secret accepted in production.
const minProductionSecretLen = 32

var validAlgorithms = map[string]bool{"HS256": true, "HS384": true, "HS512": true}

// Load reads the optional .env file and parses the environment.
func Load() (*Config, error) {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// DatabaseConnection parses DATABASE_URL into connection settings.
func (c *Config) DatabaseConnection() (database.Config, error) {
	return database.ParseURL(c.Database.URL)
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if !strings.HasPrefix(c.Server.APIPrefix, "/") || strings.HasSuffix(c.Server.APIPrefix, "/") {
		errs = append(errs, fmt.Errorf("API_PREFIX must start with '/' and not end with '/', got '%s'", c.Server.APIPrefix))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	} else if _, err := c.DatabaseConnection(); err != nil {
		errs = append(errs, fmt.Errorf("DATABASE_URL is invalid: %w", err))
	}

	// JWT
	if c.JWT.SecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	} else if c.IsProduction() && len(c.JWT.SecretKey) < minProductionSecretLen {
		errs = append(errs, fmt.Errorf("JWT_SECRET_KEY must be at least %d bytes in production", minProductionSecretLen))
	}
	if !validAlgorithms[c.JWT.Algorithm] {
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM must be HS256, HS384, or HS512, got '%s'", c.JWT.Algorithm))
	}
	if c.JWT.ExpirationMins <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}

	// Rate limiting
	if c.RateLimit.Requests <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be positive"))
	}

	if c.Audit.Interval < 0 {
		errs = append(errs, errors.New("BOOKMARK_AUDIT_INTERVAL must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
