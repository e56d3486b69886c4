// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "github.com/shopspring/decimal"

// Product is a single sellable item on a page.
type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Benefits   []string        `json:"benefits,omitempty"`
	UsageSteps []string        `json:"usage_steps,omitempty"`
}

// Package is a named grouping of products. TotalPrice is always
// derived from the member products; SpecialPrice is an author-set
// display override and is never computed.
type Package struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	ProductIDs   []string         `json:"product_ids"`
	TotalPrice   decimal.Decimal  `json:"total_price"`
	SpecialPrice *decimal.Decimal `json:"special_price,omitempty"`
}

// HasProduct reports whether the package references the product.
func (p *Package) HasProduct(productID string) bool {
	for _, id := range p.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// AddProduct adds a product reference to the package.
// Returns false if the product is already a member.
func (p *Package) AddProduct(productID string) bool {
	if p.HasProduct(productID) {
		return false
	}
	p.ProductIDs = append(p.ProductIDs, productID)
	return true
}

// RemoveProduct removes a product reference from the package.
// Returns false if the product was not a member.
func (p *Package) RemoveProduct(productID string) bool {
	for i, id := range p.ProductIDs {
		if id == productID {
			p.ProductIDs = append(p.ProductIDs[:i], p.ProductIDs[i+1:]...)
			return true
		}
	}
	return false
}

// PricingOption is a selectable variant of a base price. At most one
// option may be selected at checkout; its effective price is the base
// price plus PriceDelta. Runtime selection is not modeled here.
type PricingOption struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
	Features   []string        `json:"features,omitempty"`
}

// CTA action types
const (
	CTAActionLink     = "link"
	CTAActionScroll   = "scroll"
	CTAActionWhatsApp = "whatsapp"
)

// CTA styles
const (
	CTAStylePrimary   = "primary"
	CTAStyleSecondary = "secondary"
	CTAStyleOutline   = "outline"
)

// CTAButton is a call-to-action button with a destination and a style.
type CTAButton struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	ActionType string `json:"action_type"`
	Style      string `json:"style"`
	URL        string `json:"url,omitempty"`
}

// IsValidCTAAction reports whether the action type is known.
func IsValidCTAAction(action string) bool {
	switch action {
	case CTAActionLink, CTAActionScroll, CTAActionWhatsApp:
		return true
	}
	return false
}
