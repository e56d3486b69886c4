// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sellkit/sellkit/internal/fx"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"SELLKIT_DB_PATH" envDefault:"./data/sellkit.db"`
	ServerHost string `env:"SELLKIT_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"SELLKIT_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"SELLKIT_ENV" envDefault:"development"`
	LogLevel   string `env:"SELLKIT_LOG_LEVEL" envDefault:"info"`

	// BaseURL is the public origin published pages are shared under.
	BaseURL string `env:"SELLKIT_BASE_URL" envDefault:"http://localhost:8080"`

	// Currency configuration
	DefaultCurrency string `env:"SELLKIT_DEFAULT_CURRENCY" envDefault:"USD"`
	GeoProviderURL  string `env:"SELLKIT_GEO_PROVIDER_URL"`            // Optional visitor-currency lookup endpoint
	RateProviderURL string `env:"SELLKIT_RATE_PROVIDER_URL"`           // Exchange-rate provider endpoint
	RateTTL         int    `env:"SELLKIT_RATE_TTL" envDefault:"3600"`  // Rate cache TTL in seconds
	ProviderRPS     int    `env:"SELLKIT_PROVIDER_RPS" envDefault:"5"` // Outbound provider requests per second

	// Cache configuration
	RedisURL     string `env:"SELLKIT_REDIS_URL"`                          // Optional Redis URL for distributed caching
	CachePrefix  string `env:"SELLKIT_CACHE_PREFIX" envDefault:"sellkit:"` // Redis key prefix
	CacheTTL     int    `env:"SELLKIT_CACHE_TTL" envDefault:"3600"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"SELLKIT_CACHE_MAX_SIZE" envDefault:"10000"`  // Max memory cache entries

	// GeoIP configuration
	GeoIPDBPath string `env:"SELLKIT_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// RateCacheTTL returns the rate cache TTL as a duration.
func (c Config) RateCacheTTL() time.Duration {
	return time.Duration(c.RateTTL) * time.Second
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cfg.DefaultCurrency))
	if !fx.IsValidCurrency(cfg.DefaultCurrency) {
		return nil, fmt.Errorf("SELLKIT_DEFAULT_CURRENCY %q is not an ISO 4217 code", cfg.DefaultCurrency)
	}
	if cfg.RateTTL <= 0 {
		return nil, fmt.Errorf("SELLKIT_RATE_TTL must be positive, got %d", cfg.RateTTL)
	}

	return cfg, nil
}
