// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the caching infrastructure for sellkit.
// Implementations are thread-safe and keyed by string with []byte
// values so the same interface serves in-memory and Redis backends.
package cache

import (
	"context"
	"time"
)

// Cacher is the interface all cache backends implement.
type Cacher interface {
	// Get retrieves a value. Returns ErrMiss if absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. A zero TTL uses the
	// backend's default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Has checks if a key exists and is not expired.
	Has(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the cache.
	Close() error
}

// Stats holds cache hit/miss counters.
type Stats struct {
	Hits   int64
	Misses int64
	Sets   int64
	Items  int
}

// StatsProvider is an optional interface for backends with counters.
type StatsProvider interface {
	Stats() Stats
}

// Error is the error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrMiss indicates the key was not found or has expired.
	ErrMiss Error = "cache miss"

	// ErrClosed indicates the cache has been closed.
	ErrClosed Error = "cache closed"
)
