// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import "testing"

func TestLookupUninitialized(t *testing.T) {
	g := NewLookup()
	if got := g.LookupCountry("8.8.8.8"); got != "" {
		t.Errorf("uninitialized lookup returned %q", got)
	}
}

func TestLookupDisabled(t *testing.T) {
	g := NewLookup()
	if err := g.Init(""); err != nil {
		t.Fatalf("Init with empty path: %v", err)
	}
	if g.IsEnabled() {
		t.Error("lookup should be disabled with empty path")
	}

	tests := []struct {
		ip       string
		expected string
	}{
		{"192.168.1.10", "LOCAL"},
		{"10.0.0.5", "LOCAL"},
		{"127.0.0.1", "LOCAL"},
		{"fe80::1", "LOCAL"},
		{"8.8.8.8", ""}, // no database loaded
		{"not-an-ip", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := g.LookupCountry(tt.ip); got != tt.expected {
			t.Errorf("LookupCountry(%q) = %q, want %q", tt.ip, got, tt.expected)
		}
	}
}

func TestInitMissingDatabase(t *testing.T) {
	g := NewLookup()
	if err := g.Init("/nonexistent/GeoLite2-Country.mmdb"); err == nil {
		t.Error("Init with missing file should return an error")
	}
	if g.IsEnabled() {
		t.Error("lookup should be disabled after failed Init")
	}

	// Failed init still degrades gracefully for lookups.
	if got := g.LookupCountry("8.8.8.8"); got != "" {
		t.Errorf("lookup after failed init returned %q", got)
	}
}

func TestCountryCurrency(t *testing.T) {
	tests := []struct {
		country  string
		expected string
	}{
		{"US", "USD"},
		{"GH", "GHS"},
		{"DE", "EUR"},
		{"NG", "NGN"},
		{"JP", "JPY"},
		{"", ""},
		{"XX", ""},
		{"LOCAL", ""},
	}

	for _, tt := range tests {
		if got := CountryCurrency(tt.country); got != tt.expected {
			t.Errorf("CountryCurrency(%q) = %q, want %q", tt.country, got, tt.expected)
		}
	}
}
