// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config selects and configures a cache backend.
type Config struct {
	// RedisURL enables the Redis backend when non-empty.
	RedisURL string

	// Prefix is the Redis key prefix.
	Prefix string

	// DefaultTTL applies when Set is called with a zero TTL.
	DefaultTTL time.Duration

	// MaxItems bounds the memory backend (0 = unlimited).
	MaxItems int

	// CleanupInterval is the memory janitor period.
	CleanupInterval time.Duration
}

// DefaultConfig returns the memory-backend defaults.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:      time.Hour,
		MaxItems:        10000,
		CleanupInterval: time.Minute,
	}
}

// New creates a cache from the config. When Redis is configured but
// unreachable it falls back to the memory backend so a cache outage
// never blocks startup.
func New(cfg Config) Cacher {
	if cfg.RedisURL != "" {
		c, err := NewRedis(RedisOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
		if err == nil {
			return c
		}
		slog.Warn("redis cache unavailable, falling back to memory",
			"error", err, "category", "cache")
	}

	return NewMemory(MemoryOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxItems:        cfg.MaxItems,
		CleanupInterval: cfg.CleanupInterval,
	})
}
