// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "localhost:8080")
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.DefaultCurrency != "USD" {
		t.Errorf("DefaultCurrency = %q, want USD", cfg.DefaultCurrency)
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() = true with no Redis URL")
	}
	if cfg.GeoIPEnabled() {
		t.Error("GeoIPEnabled() = true with no DB path")
	}
	if cfg.RateCacheTTL() != time.Hour {
		t.Errorf("RateCacheTTL() = %v, want 1h", cfg.RateCacheTTL())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SELLKIT_SERVER_HOST", "0.0.0.0")
	t.Setenv("SELLKIT_SERVER_PORT", "9090")
	t.Setenv("SELLKIT_ENV", "production")
	t.Setenv("SELLKIT_DEFAULT_CURRENCY", "ghs")
	t.Setenv("SELLKIT_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SELLKIT_GEOIP_DB_PATH", "/data/GeoLite2-Country.mmdb")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerAddr() != "0.0.0.0:9090" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true in production")
	}
	if cfg.DefaultCurrency != "GHS" {
		t.Errorf("DefaultCurrency = %q, want GHS", cfg.DefaultCurrency)
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() = false with Redis URL set")
	}
	if !cfg.GeoIPEnabled() {
		t.Error("GeoIPEnabled() = false with DB path set")
	}
}

func TestLoadRejectsBadCurrency(t *testing.T) {
	t.Setenv("SELLKIT_DEFAULT_CURRENCY", "XYZ")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted invalid default currency")
	}
}

func TestLoadRejectsZeroRateTTL(t *testing.T) {
	t.Setenv("SELLKIT_RATE_TTL", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted zero rate TTL")
	}
}
