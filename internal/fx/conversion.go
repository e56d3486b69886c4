// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package fx detects a visitor's local currency and converts page
// prices into it. All network failures degrade to the page's native
// currency; they are never surfaced to the editing or rendering caller.
package fx

import "github.com/shopspring/decimal"

// Status describes the outcome of a conversion attempt. The three
// states are distinct so the display layer never presents a failed
// lookup as a true 1:1 equivalence.
type Status string

const (
	// StatusConverted means the amount was converted at a real rate.
	StatusConverted Status = "converted"

	// StatusNotNeeded means source and target currency are identical;
	// no lookup was attempted.
	StatusNotNeeded Status = "not-needed"

	// StatusUnavailable means a conversion was wanted but the rate
	// could not be obtained; the amount is unchanged and in the
	// source currency.
	StatusUnavailable Status = "unavailable"
)

// Conversion is the result of a price conversion.
type Conversion struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
	Status   Status          `json:"status"`
}

// IsConverted reports whether the amount is expressed in the target
// currency at a real exchange rate.
func (c Conversion) IsConverted() bool {
	return c.Status == StatusConverted
}
