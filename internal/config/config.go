// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is populated by Load from environment variables.
type Config struct {
	// Application settings
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   int    `env:"PORT" envDefault:"3001"`

	// Database (PostgreSQL)
	DatabaseURL      string        `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns       int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns       int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnIdle    time.Duration `env:"DB_MAX_CONN_IDLE" envDefault:"5m"`
	DBConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`

	// Cache (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// CacheTTL bounds cached client profiles. Zero keeps entries until overwritten or invalidated.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"0s"`

	// Token signing. An empty secret is allowed at startup; login then fails
	// with 500 and every token verification with 401.
	JWTSecret string        `env:"JWT_SECRET"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"clientauth"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"0s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Comma-separated list of allowed origins, "*" allows any origin.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 100KB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"102400"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// HasJWTSecret reports whether tokens can be issued and verified.
func (c *Config) HasJWTSecret() bool {
	return c.JWTSecret != ""
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load fails when DATABASE_URL or REDIS_URL is missing or a numeric
// setting is out of range.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if cfg.DBMaxConns <= 0 {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS %d", cfg.DBMaxConns)
	}
	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return nil, fmt.Errorf("DB_MIN_CONNS %d must be between 0 and DB_MAX_CONNS %d", cfg.DBMinConns, cfg.DBMaxConns)
	}
	return cfg, nil
}
