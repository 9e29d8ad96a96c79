package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBaseConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			APIPrefix:      "/api/v1",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			URL: "ws://root:root@localhost:8000/guildhall/main",
		},
		JWT: JWTConfig{
			SecretKey:      "development-secret",
			Algorithm:      "HS256",
			ExpirationMins: 30,
			Issuer:         "guildhall",
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   time.Minute,
			Burst:    20,
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	t.Parallel()

	if err := validBaseConfig().Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing port", func(c *Config) { c.Server.Port = "" }, "SERVER_PORT"},
		{"invalid env", func(c *Config) { c.Server.Env = "staging" }, "SERVER_ENV"},
		{"prefix without slash", func(c *Config) { c.Server.APIPrefix = "api" }, "API_PREFIX"},
		{"prefix with trailing slash", func(c *Config) { c.Server.APIPrefix = "/api/" }, "API_PREFIX"},
		{"empty origins", func(c *Config) { c.Server.AllowedOrigins = nil }, "CORS_ALLOWED_ORIGINS"},
		{"missing database url", func(c *Config) { c.Database.URL = "" }, "DATABASE_URL is required"},
		{"malformed database url", func(c *Config) { c.Database.URL = "http://localhost/ns/db" }, "DATABASE_URL is invalid"},
		{"missing secret", func(c *Config) { c.JWT.SecretKey = "" }, "JWT_SECRET_KEY is required"},
		{"short production secret", func(c *Config) { c.Server.Env = "production" }, "at least 32 bytes"},
		{"bad algorithm", func(c *Config) { c.JWT.Algorithm = "RS256" }, "JWT_ALGORITHM"},
		{"zero expiry", func(c *Config) { c.JWT.ExpirationMins = 0 }, "JWT_ACCESS_TOKEN_EXPIRE_MINUTES"},
		{"zero rate", func(c *Config) { c.RateLimit.Requests = 0 }, "RATE_LIMIT_REQUESTS"},
		{"zero window", func(c *Config) { c.RateLimit.Window = 0 }, "RATE_LIMIT_WINDOW"},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }, "RATE_LIMIT_BURST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validBaseConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error mentioning %s", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error to mention %s, got: %v", tt.want, err)
			}
		})
	}
}

func TestConfig_Validate_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Database.URL = ""
	cfg.JWT.SecretKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := parse(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "/api/v1", cfg.Server.APIPrefix)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8080"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, 30, cfg.JWT.ExpirationMins)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Audit.Interval)
	assert.Empty(t, cfg.Database.URL)
	assert.True(t, cfg.IsDevelopment())
}

func TestParse_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := parse(env.Options{Environment: map[string]string{
		"SERVER_ENV":                      "production",
		"CORS_ALLOWED_ORIGINS":            "https://a.example,https://b.example",
		"DATABASE_URL":                    "wss://u:p@db.example:443/guildhall/prod",
		"JWT_ACCESS_TOKEN_EXPIRE_MINUTES": "60",
		"RATE_LIMIT_WINDOW":               "30s",
		"METRICS_ENABLED":                 "false",
	}})
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 60, cfg.JWT.ExpirationMins)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.False(t, cfg.Metrics.Enabled)

	conn, err := cfg.DatabaseConnection()
	require.NoError(t, err)
	assert.Equal(t, "db.example", conn.Host)
	assert.Equal(t, "prod", conn.Database)
}

func TestParse_InvalidValue(t *testing.T) {
	t.Parallel()

	_, err := parse(env.Options{Environment: map[string]string{
		"JWT_ACCESS_TOKEN_EXPIRE_MINUTES": "soon",
	}})
	assert.Error(t, err)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GUILDHALL_TEST_MARKER=1\nJWT_ISSUER=from-file\n"), 0o600))

	t.Setenv("ENV_FILE", path)
	t.Setenv("JWT_ISSUER", "")
	t.Cleanup(func() { os.Unsetenv("GUILDHALL_TEST_MARKER") })

	// godotenv does not override variables that are already set, so clear
	// the issuer first to let the file supply it.
	os.Unsetenv("JWT_ISSUER")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWT.Issuer)
	assert.Equal(t, "1", os.Getenv("GUILDHALL_TEST_MARKER"))
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	_, err := Load()
	assert.NoError(t, err)
}
