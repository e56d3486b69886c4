// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the core domain entities of the sales-page
// workspace: typed page documents and their catalog substructures.
package model

import (
	"encoding/json"
	"time"
)

// PageType identifies the kind of sales page a document represents.
// The set is closed; adding a type requires touching ParsePageType,
// AllPageTypes and the workflow table in the pagetype package.
type PageType string

// Known page types.
const (
	PageTypeProduct PageType = "product"
	PageTypeBundle  PageType = "bundle"
	PageTypeProblem PageType = "problem"
	PageTypeCapture PageType = "capture"
	PageTypeBrand   PageType = "brand"
	PageTypeRecruit PageType = "recruit"
)

// AllPageTypes lists every known page type in a stable order.
var AllPageTypes = []PageType{
	PageTypeProduct,
	PageTypeBundle,
	PageTypeProblem,
	PageTypeCapture,
	PageTypeBrand,
	PageTypeRecruit,
}

// ParsePageType converts a string to a PageType.
// Returns false if the value is not one of the known types.
func ParsePageType(s string) (PageType, bool) {
	switch PageType(s) {
	case PageTypeProduct, PageTypeBundle, PageTypeProblem,
		PageTypeCapture, PageTypeBrand, PageTypeRecruit:
		return PageType(s), true
	}
	return "", false
}

// Valid reports whether the page type is one of the known types.
func (t PageType) Valid() bool {
	_, ok := ParsePageType(string(t))
	return ok
}

// Page statuses
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

// PageDocument is one authored sales page. The type is fixed at
// creation; everything else is mutated through the generic field
// updater in the service layer.
type PageDocument struct {
	ID             string          `json:"id"`
	Type           PageType        `json:"type"`
	Title          string          `json:"title"`
	Slug           string          `json:"slug"`
	SlugIsCustom   bool            `json:"slug_is_custom"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	Products       []Product       `json:"products"`
	Packages       []Package       `json:"packages"`
	PricingOptions []PricingOption `json:"pricing_options"`
	CTAs           []CTAButton     `json:"ctas"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	PublishedAt    *time.Time      `json:"published_at,omitempty"`
}

// IsPublished returns true if the page is published.
func (p *PageDocument) IsPublished() bool {
	return p.Status == PageStatusPublished
}

// IsDraft returns true if the page is a draft.
func (p *PageDocument) IsDraft() bool {
	return p.Status == PageStatusDraft
}

// Product returns the product with the given ID, or nil.
func (p *PageDocument) Product(id string) *Product {
	for i := range p.Products {
		if p.Products[i].ID == id {
			return &p.Products[i]
		}
	}
	return nil
}

// Package returns the package with the given ID, or nil.
func (p *PageDocument) Package(id string) *Package {
	for i := range p.Packages {
		if p.Packages[i].ID == id {
			return &p.Packages[i]
		}
	}
	return nil
}
