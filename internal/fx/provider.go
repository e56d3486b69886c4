// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellkit/sellkit/internal/geoip"
)

// geoResponse is the shape of the remote geolocation provider's
// answer for one IP address.
type geoResponse struct {
	CountryCode string `json:"country_code"`
	Currency    string `json:"currency"`
}

// rateResponse is the shape of the exchange-rate provider's answer
// for one base currency.
type rateResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// fetchVisitorCurrency asks the remote geolocation provider for the
// currency of one IP address.
func (s *Service) fetchVisitorCurrency(ctx context.Context, ip string) (string, error) {
	if err := s.waitProvider(ctx); err != nil {
		return "", err
	}

	u := fmt.Sprintf("%s/%s", s.opts.GeoProviderURL, url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("geolocation request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geolocation provider returned status %d", resp.StatusCode)
	}

	var body geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("parsing geolocation response: %w", err)
	}

	if body.Currency != "" {
		return body.Currency, nil
	}
	if cur := geoip.CountryCurrency(body.CountryCode); cur != "" {
		return cur, nil
	}
	return "", fmt.Errorf("geolocation response carries no currency")
}

// fetchRateTable asks the exchange-rate provider for the full table
// rooted at the given base currency.
func (s *Service) fetchRateTable(ctx context.Context, base string) (*RateTable, error) {
	if err := s.waitProvider(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s?base=%s", s.opts.RateProviderURL, url.QueryEscape(base))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing rate response: %w", err)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("rate provider returned empty table for %s", base)
	}

	return &RateTable{
		Base:      base,
		Rates:     body.Rates,
		FetchedAt: time.Now(),
	}, nil
}

// waitProvider applies the outbound rate limit. It does not wait
// longer than the caller's context allows.
func (s *Service) waitProvider(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("provider rate limit: %w", err)
	}
	return nil
}
