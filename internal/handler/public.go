// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sellkit/sellkit/internal/fx"
	"github.com/sellkit/sellkit/internal/model"
	"github.com/sellkit/sellkit/internal/pricing"
	"github.com/sellkit/sellkit/internal/service"
	"github.com/sellkit/sellkit/internal/util"
)

// renderCacheTTL bounds how long a converted rendering is served
// before prices are recomputed.
const renderCacheTTL = 5 * time.Minute

// refineTimeout caps the background rate fetch behind an uncached
// public rendering.
const refineTimeout = 10 * time.Second

// PublicPrice is one price as shown to a visitor: the native amount
// plus the conversion attempt into the visitor's currency.
type PublicPrice struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Converted fx.Conversion   `json:"converted"`
}

// PublicProduct is a product as rendered on a published page.
type PublicProduct struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Benefits   []string    `json:"benefits,omitempty"`
	UsageSteps []string    `json:"usage_steps,omitempty"`
	Price      PublicPrice `json:"price"`
}

// PublicPackage is a package as rendered on a published page. Price is
// the display price: the special price when the editor set one,
// otherwise the computed total.
type PublicPackage struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	ProductIDs []string    `json:"product_ids,omitempty"`
	Price      PublicPrice `json:"price"`
	IsSpecial  bool        `json:"is_special"`
}

// PublicPage is the visitor-facing rendering of a published page.
type PublicPage struct {
	Slug     string                `json:"slug"`
	Type     model.PageType        `json:"type"`
	Title    string                `json:"title"`
	Currency string                `json:"currency"`
	Visitor  string                `json:"visitor_currency"`
	Products []PublicProduct       `json:"products"`
	Packages []PublicPackage       `json:"packages"`
	Options  []model.PricingOption `json:"pricing_options,omitempty"`
	CTAs     []model.CTAButton     `json:"ctas"`
	Payload  json.RawMessage       `json:"payload,omitempty"`
}

// PublicPage serves a published page by slug, with prices converted to
// the visitor's currency. The response never waits on the rate
// provider: conversions come from cached tables, and on a miss the
// page renders in its own currency while the conversion is refined in
// the background for the next visit. The cache key carries the
// document version, so an edit immediately stops serving pre-edit
// renderings.
func (h *Handler) PublicPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pageSlug := chi.URLParam(r, "slug")

	doc, err := h.pages.GetPublishedBySlug(ctx, pageSlug)
	if errors.Is(err, service.ErrNotFound) {
		WriteNotFound(w, "Page not found")
		return
	}
	if err != nil {
		h.log.Error("public page lookup failed", "category", "page", "slug", pageSlug, "error", err)
		WriteInternalError(w, "Failed to load page")
		return
	}

	target := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("currency")))
	if target == "" || !fx.IsValidCurrency(target) {
		target = h.fx.DetectVisitorCurrency(ctx, util.ClientIP(r))
	}

	cacheKey := fmt.Sprintf("render:%s:v%d:%s", doc.ID, doc.Version, target)
	if cached, ok := h.renders.Get(ctx, cacheKey); ok {
		WriteJSON(w, http.StatusOK, cached)
		return
	}

	gen := h.annotator.Begin(doc.ID)

	page, final := h.renderCached(ctx, doc, target)
	if final {
		h.annotator.Commit(doc.ID, gen, func() {
			_ = h.renders.SetWithTTL(ctx, cacheKey, page, renderCacheTTL)
		})
		WriteJSON(w, http.StatusOK, page)
		return
	}

	// The rate table is not cached yet. Serve in the page's own
	// currency now and fetch the conversion off-request; the result is
	// dropped if the document changes before it lands.
	h.annotator.Annotate(context.WithoutCancel(ctx), doc.ID, gen, func(ctx context.Context) func() {
		ctx, cancel := context.WithTimeout(ctx, refineTimeout)
		defer cancel()

		refined, converted := h.renderBlocking(ctx, doc, target)
		if !converted {
			// Provider failure; leave nothing cached so a later visit
			// retries instead of pinning the failure for the TTL.
			return nil
		}

		bg := context.WithoutCancel(ctx)
		return func() {
			_ = h.renders.SetWithTTL(bg, cacheKey, refined, renderCacheTTL)
		}
	})

	WriteJSON(w, http.StatusOK, page)
}

// renderCached renders using only cached rate tables. final is false
// when a background fetch could still improve the conversion.
func (h *Handler) renderCached(ctx context.Context, doc *model.PageDocument, target string) (*PublicPage, bool) {
	final := true
	return h.render(doc, target, func(amount decimal.Decimal) fx.Conversion {
		conv, ok := h.fx.ConvertCached(ctx, amount, doc.Currency, target)
		if !ok {
			final = false
		}
		return conv
	}), final
}

// renderBlocking renders with full provider lookups. converted is
// false when any price could not be converted.
func (h *Handler) renderBlocking(ctx context.Context, doc *model.PageDocument, target string) (*PublicPage, bool) {
	converted := true
	return h.render(doc, target, func(amount decimal.Decimal) fx.Conversion {
		conv := h.fx.Convert(ctx, amount, doc.Currency, target)
		if conv.Status == fx.StatusUnavailable {
			converted = false
		}
		return conv
	}), converted
}

func (h *Handler) render(doc *model.PageDocument, target string, convert func(decimal.Decimal) fx.Conversion) *PublicPage {
	price := func(amount decimal.Decimal) PublicPrice {
		return PublicPrice{
			Amount:    amount,
			Currency:  doc.Currency,
			Converted: convert(amount),
		}
	}

	page := &PublicPage{
		Slug:     doc.Slug,
		Type:     doc.Type,
		Title:    doc.Title,
		Currency: doc.Currency,
		Visitor:  target,
		Products: make([]PublicProduct, 0, len(doc.Products)),
		Packages: make([]PublicPackage, 0, len(doc.Packages)),
		Options:  doc.PricingOptions,
		CTAs:     doc.CTAs,
		Payload:  doc.Payload,
	}

	for _, p := range doc.Products {
		page.Products = append(page.Products, PublicProduct{
			ID:         p.ID,
			Name:       p.Name,
			Benefits:   p.Benefits,
			UsageSteps: p.UsageSteps,
			Price:      price(p.Price),
		})
	}
	for _, pkg := range doc.Packages {
		page.Packages = append(page.Packages, PublicPackage{
			ID:         pkg.ID,
			Title:      pkg.Title,
			ProductIDs: pkg.ProductIDs,
			Price:      price(pricing.DisplayPrice(pkg)),
			IsSpecial:  pkg.SpecialPrice != nil,
		})
	}
	return page
}
