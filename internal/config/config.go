// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the server configuration from DARCHIVE_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "DARCHIVE_"

// MinSessionSecretLength is the minimum session secret length in bytes.
const MinSessionSecretLength = 32

// knownWeakSecrets are example values that must never reach a deployment.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"darchive-development-secret-key!",
}

// Config holds the application configuration.
type Config struct {
	DBPath        string `env:"DB_PATH" envDefault:"./data/darchive.db"`
	SessionSecret string `env:"SESSION_SECRET,required"`
	ServerHost    string `env:"SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"SERVER_PORT" envDefault:"8080"`
	Env           string `env:"ENV" envDefault:"development"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"UPLOADS_DIR" envDefault:"./uploads"`

	// Cache
	RedisURL     string `env:"REDIS_URL"`
	CachePrefix  string `env:"CACHE_PREFIX" envDefault:"darchive:"`
	CacheTTL     int    `env:"CACHE_TTL" envDefault:"3600"` // seconds
	CacheMaxSize int    `env:"CACHE_MAX_SIZE" envDefault:"10000"`

	// Optional path to a GeoLite2-Country.mmdb file
	GeoIPDBPath string `env:"GEOIP_DB_PATH"`

	DoSeed bool `env:"DO_SEED" envDefault:"false"`

	SessionLifetimeHours int `env:"SESSION_LIFETIME_HOURS" envDefault:"720"`
	EventRetentionDays   int `env:"EVENT_RETENTION_DAYS" envDefault:"90"`

	// Per-IP API limiter: requests per second and burst
	APIRateLimit float64 `env:"API_RATE_LIMIT" envDefault:"20"`
	APIRateBurst int     `env:"API_RATE_BURST" envDefault:"40"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns host:port.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache reports whether a Redis URL is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled reports whether a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// SessionLifetime returns the session lifetime as a duration.
func (c Config) SessionLifetime() time.Duration {
	return time.Duration(c.SessionLifetimeHours) * time.Hour
}

// CacheTTLDuration returns the cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("%sSESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			EnvPrefix, MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return fmt.Errorf("%sSESSION_SECRET is a known default value and must not be used", EnvPrefix)
		}
	}

	if !hasMinimumEntropy(c.SessionSecret) {
		slog.Warn(EnvPrefix + "SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("%sSERVER_PORT %d is out of range", EnvPrefix, c.ServerPort)
	}
	if c.SessionLifetimeHours <= 0 {
		return errors.New(EnvPrefix + "SESSION_LIFETIME_HOURS must be positive")
	}
	if c.EventRetentionDays < 0 {
		return errors.New(EnvPrefix + "EVENT_RETENTION_DAYS must not be negative")
	}
	if c.APIRateLimit <= 0 || c.APIRateBurst <= 0 {
		return errors.New(EnvPrefix + "API_RATE_LIMIT and API_RATE_BURST must be positive")
	}
	return nil
}

// hasMinimumEntropy checks that s mixes at least 3 character classes.
func hasMinimumEntropy(s string) bool {
	classes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		classes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		classes++
	}
	if strings.ContainsAny(s, "0123456789") {
		classes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		classes++
	}
	return classes >= 3
}
