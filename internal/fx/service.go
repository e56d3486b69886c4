// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package fx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/time/rate"

	"github.com/sellkit/sellkit/internal/cache"
	"github.com/sellkit/sellkit/internal/geoip"
)

// ErrRateUnavailable is returned when an exchange rate cannot be
// obtained from cache or the provider. Callers other than Convert
// should not surface it to users.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// RateTable is a full rate table rooted at one base currency, as
// fetched from the provider and held in cache.
type RateTable struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	FetchedAt time.Time                  `json:"fetched_at"`
}

// Options configures the conversion service.
type Options struct {
	// GeoProviderURL is the remote IP-geolocation endpoint, used when
	// the local GeoIP database cannot resolve a currency.
	GeoProviderURL string

	// RateProviderURL is the exchange-rate endpoint. A request fetches
	// the full table for one base currency.
	RateProviderURL string

	// DefaultCurrency is the fallback when detection fails.
	DefaultCurrency string

	// RateTTL bounds how long a fetched rate table is served from
	// cache before it is looked up again.
	RateTTL time.Duration

	// RequestTimeout bounds each outbound provider call.
	RequestTimeout time.Duration

	// ProviderRPS limits outbound provider calls per second.
	ProviderRPS float64
}

// DefaultOptions returns production defaults.
func DefaultOptions() Options {
	return Options{
		DefaultCurrency: "USD",
		RateTTL:         time.Hour,
		RequestTimeout:  5 * time.Second,
		ProviderRPS:     2,
	}
}

// Service detects visitor currencies and converts prices. The rate
// cache is injected so deployments can share it via Redis and tests
// can expire entries deterministically.
type Service struct {
	rates   *cache.Typed[RateTable]
	geo     *geoip.Lookup
	client  *http.Client
	limiter *rate.Limiter
	opts    Options
}

// NewService creates a conversion service. geo may be nil when no
// local GeoIP database is configured.
func NewService(backend cache.Cacher, geo *geoip.Lookup, opts Options) *Service {
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "USD"
	}
	if opts.RateTTL <= 0 {
		opts.RateTTL = time.Hour
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 5 * time.Second
	}
	if opts.ProviderRPS <= 0 {
		opts.ProviderRPS = 2
	}

	return &Service{
		rates:   cache.NewTyped[RateTable](backend, opts.RateTTL),
		geo:     geo,
		client:  &http.Client{Timeout: opts.RequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(opts.ProviderRPS), 5),
		opts:    opts,
	}
}

// DefaultCurrency returns the configured fallback currency.
func (s *Service) DefaultCurrency() string {
	return s.opts.DefaultCurrency
}

// IsValidCurrency reports whether code is a well-formed ISO 4217
// currency code.
func IsValidCurrency(code string) bool {
	_, err := currency.ParseISO(code)
	return err == nil
}

// DetectVisitorCurrency resolves the currency for a visitor's IP.
// The local GeoIP database is consulted first, then the remote
// geolocation provider. Every failure path resolves to the default
// currency; this call never returns an error and never blocks beyond
// the provider timeout.
func (s *Service) DetectVisitorCurrency(ctx context.Context, ip string) string {
	if s.geo != nil {
		if code := s.geo.LookupCountry(ip); code != "" && code != "LOCAL" {
			if cur := geoip.CountryCurrency(code); cur != "" {
				return cur
			}
		}
	}

	if s.opts.GeoProviderURL == "" {
		return s.opts.DefaultCurrency
	}

	cur, err := s.fetchVisitorCurrency(ctx, ip)
	if err != nil {
		slog.Debug("visitor currency detection failed, using default",
			"error", err, "category", "fx")
		return s.opts.DefaultCurrency
	}

	cur = strings.ToUpper(cur)
	if !IsValidCurrency(cur) {
		return s.opts.DefaultCurrency
	}
	return cur
}

// Rate returns the exchange rate from one currency to another,
// consulting the cache first and fetching the full table rooted at
// `from` on a miss.
func (s *Service) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if !IsValidCurrency(from) || !IsValidCurrency(to) {
		return decimal.Zero, fmt.Errorf("%w: invalid currency pair %s/%s", ErrRateUnavailable, from, to)
	}

	table, err := s.rates.GetOrSet(ctx, "rates:"+from, func() (*RateTable, error) {
		return s.fetchRateTable(ctx, from)
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}

	r, ok := table.Rates[to]
	if !ok || !r.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: no rate %s/%s", ErrRateUnavailable, from, to)
	}
	return r, nil
}

// Convert converts an amount between currencies. Identical currencies
// short-circuit with zero network calls; a failed lookup yields the
// original amount marked unavailable rather than an error.
func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, from, to string) Conversion {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if from == to || to == "" {
		return Conversion{
			Amount:   amount,
			Currency: from,
			Rate:     decimal.NewFromInt(1),
			Status:   StatusNotNeeded,
		}
	}

	r, err := s.Rate(ctx, from, to)
	if err != nil {
		slog.Warn("price conversion unavailable",
			"from", from, "to", to, "error", err, "category", "fx")
		return Conversion{
			Amount:   amount,
			Currency: from,
			Status:   StatusUnavailable,
		}
	}

	return Conversion{
		Amount:   amount.Mul(r),
		Currency: to,
		Rate:     r,
		Status:   StatusConverted,
	}
}

// ConvertCached converts an amount using only rate tables already in
// the cache; it never reaches the provider and never blocks. The
// boolean reports whether this answer is final: false means the table
// for the pair is simply not cached yet and a background fetch could
// still produce a real conversion.
func (s *Service) ConvertCached(ctx context.Context, amount decimal.Decimal, from, to string) (Conversion, bool) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if from == to || to == "" {
		return Conversion{
			Amount:   amount,
			Currency: from,
			Rate:     decimal.NewFromInt(1),
			Status:   StatusNotNeeded,
		}, true
	}
	if !IsValidCurrency(from) || !IsValidCurrency(to) {
		return Conversion{Amount: amount, Currency: from, Status: StatusUnavailable}, true
	}

	table, ok := s.rates.Get(ctx, "rates:"+from)
	if !ok {
		return Conversion{Amount: amount, Currency: from, Status: StatusUnavailable}, false
	}

	r, ok := table.Rates[to]
	if !ok || !r.IsPositive() {
		// The table is fresh and the rate genuinely is not in it.
		return Conversion{Amount: amount, Currency: from, Status: StatusUnavailable}, true
	}

	return Conversion{
		Amount:   amount.Mul(r),
		Currency: to,
		Rate:     r,
		Status:   StatusConverted,
	}, true
}

// WarmRates prefetches the rate tables for the given base currencies.
// Used by the scheduler so visitor requests rarely pay a provider
// round trip.
func (s *Service) WarmRates(ctx context.Context, bases []string) {
	for _, base := range bases {
		base = strings.ToUpper(base)
		if !IsValidCurrency(base) {
			continue
		}
		if _, err := s.rates.GetOrSet(ctx, "rates:"+base, func() (*RateTable, error) {
			return s.fetchRateTable(ctx, base)
		}); err != nil {
			slog.Warn("rate table warmup failed", "base", base, "error", err, "category", "fx")
		}
	}
}
