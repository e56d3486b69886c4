// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the page workspace operations on top of
// the store: creation with typed defaults, the generic field updater,
// and the publish lifecycle.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sellkit/sellkit/internal/fx"
	"github.com/sellkit/sellkit/internal/model"
	"github.com/sellkit/sellkit/internal/pagetype"
	"github.com/sellkit/sellkit/internal/pricing"
	"github.com/sellkit/sellkit/internal/publish"
	"github.com/sellkit/sellkit/internal/slug"
	"github.com/sellkit/sellkit/internal/store"
)

var (
	// ErrNotFound is returned when no page exists for an ID or slug.
	ErrNotFound = errors.New("page not found")

	// ErrStaleVersion is returned when an update carries a version
	// that no longer matches the stored document.
	ErrStaleVersion = errors.New("page was modified by another request")
)

// ValidationError reports a rejected field value. The document is
// unchanged when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Pages exposes the workspace operations over page documents.
type Pages struct {
	queries         *store.Queries
	annotator       *fx.Annotator
	defaultCurrency string
	log             *slog.Logger
}

// NewPages creates the page service. The annotator is shared with the
// public renderer so edits invalidate in-flight conversions.
func NewPages(queries *store.Queries, annotator *fx.Annotator, defaultCurrency string, log *slog.Logger) *Pages {
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pages{
		queries:         queries,
		annotator:       annotator,
		defaultCurrency: defaultCurrency,
		log:             log,
	}
}

// Create makes a new draft document of the given type, seeded with the
// type's defaults. The slug is derived from the placeholder title and
// is not yet reserved; uniqueness is enforced at publish time.
func (s *Pages) Create(ctx context.Context, pageType string) (*model.PageDocument, error) {
	t, ok := model.ParsePageType(pageType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", pagetype.ErrUnknownPageType, pageType)
	}

	defaults, err := pagetype.DefaultsFor(t)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := &model.PageDocument{
		ID:             uuid.NewString(),
		Type:           t,
		Title:          defaults.Title,
		Slug:           slug.Make(defaults.Title),
		SlugIsCustom:   false,
		Currency:       s.defaultCurrency,
		Status:         model.PageStatusDraft,
		Products:       []model.Product{},
		Packages:       []model.Package{},
		PricingOptions: []model.PricingOption{},
		CTAs:           defaults.CTAs,
		Payload:        defaults.Payload,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	arg, err := createParams(doc)
	if err != nil {
		return nil, fmt.Errorf("encode page: %w", err)
	}
	row, err := s.queries.CreatePage(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	s.log.Info("page created", "category", "page", "id", doc.ID, "type", string(t))
	return docFromRow(row)
}

// Get returns one page by ID.
func (s *Pages) Get(ctx context.Context, id string) (*model.PageDocument, error) {
	row, err := s.queries.GetPageByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	return docFromRow(row)
}

// GetPublishedBySlug returns one published page by slug, for public
// rendering. Drafts are invisible here.
func (s *Pages) GetPublishedBySlug(ctx context.Context, pageSlug string) (*model.PageDocument, error) {
	row, err := s.queries.GetPublishedPageBySlug(ctx, pageSlug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get published page: %w", err)
	}
	return docFromRow(row)
}

// List returns all pages, most recently saved first.
func (s *Pages) List(ctx context.Context) ([]model.PageDocument, error) {
	rows, err := s.queries.ListPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	docs := make([]model.PageDocument, 0, len(rows))
	for _, row := range rows {
		doc, err := docFromRow(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// Delete removes a page. Deleting a published page frees its slug for
// other documents immediately.
func (s *Pages) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.queries.DeletePage(ctx, id); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}

	s.annotator.Forget(id)
	s.log.Info("page deleted", "category", "page", "id", id)
	return nil
}

// Update applies one field change to a document. Version, when
// non-zero, must match the stored document or the update is refused
// with ErrStaleVersion. Every successful update bumps the version and
// invalidates in-flight conversion work for the page.
func (s *Pages) Update(ctx context.Context, id, field string, value json.RawMessage, version int64) (*model.PageDocument, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if version != 0 && version != doc.Version {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrStaleVersion, version, doc.Version)
	}

	if err := s.applyField(doc, field, value); err != nil {
		return nil, err
	}

	doc.Version++
	doc.UpdatedAt = time.Now().UTC()

	updated, err := s.save(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.annotator.Invalidate(id)
	return updated, nil
}

func (s *Pages) applyField(doc *model.PageDocument, field string, value json.RawMessage) error {
	switch field {
	case "title":
		var title string
		if err := json.Unmarshal(value, &title); err != nil {
			return &ValidationError{Field: field, Message: "must be a string"}
		}
		title = strings.TrimSpace(title)
		if title == "" {
			return &ValidationError{Field: field, Message: "must not be empty"}
		}
		doc.Title = title
		// The slug follows the title only until the user takes it over.
		if !doc.SlugIsCustom {
			if made := slug.Make(title); made != "" {
				doc.Slug = made
			}
		}

	case "slug":
		var raw string
		if err := json.Unmarshal(value, &raw); err != nil {
			return &ValidationError{Field: field, Message: "must be a string"}
		}
		made := slug.Make(raw)
		if made == "" {
			return &ValidationError{Field: field, Message: "must contain at least one letter or digit"}
		}
		doc.Slug = made
		// Sticky: once set by hand the slug never follows the title
		// again, even if later set to something title-derived.
		doc.SlugIsCustom = true

	case "currency":
		var code string
		if err := json.Unmarshal(value, &code); err != nil {
			return &ValidationError{Field: field, Message: "must be a string"}
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		if !fx.IsValidCurrency(code) {
			return &ValidationError{Field: field, Message: fmt.Sprintf("%q is not an ISO 4217 code", code)}
		}
		doc.Currency = code

	case "products":
		var products []model.Product
		if err := json.Unmarshal(value, &products); err != nil {
			return &ValidationError{Field: field, Message: "must be a product list"}
		}
		for _, p := range products {
			if p.ID == "" || strings.TrimSpace(p.Name) == "" {
				return &ValidationError{Field: field, Message: "every product needs an id and a name"}
			}
			if p.Price.IsNegative() {
				return &ValidationError{Field: field, Message: "product prices must not be negative"}
			}
		}
		doc.Products = products
		pricing.Recalculate(doc)

	case "packages":
		var packages []model.Package
		if err := json.Unmarshal(value, &packages); err != nil {
			return &ValidationError{Field: field, Message: "must be a package list"}
		}
		for _, p := range packages {
			if p.ID == "" {
				return &ValidationError{Field: field, Message: "every package needs an id"}
			}
		}
		doc.Packages = packages
		pricing.Recalculate(doc)

	case "pricing_options":
		var options []model.PricingOption
		if err := json.Unmarshal(value, &options); err != nil {
			return &ValidationError{Field: field, Message: "must be a pricing option list"}
		}
		doc.PricingOptions = options

	case "ctas":
		var ctas []model.CTAButton
		if err := json.Unmarshal(value, &ctas); err != nil {
			return &ValidationError{Field: field, Message: "must be a CTA list"}
		}
		for _, c := range ctas {
			if !model.IsValidCTAAction(c.ActionType) {
				return &ValidationError{Field: field, Message: fmt.Sprintf("unknown action type %q", c.ActionType)}
			}
		}
		doc.CTAs = ctas

	case "payload":
		if !json.Valid(value) {
			return &ValidationError{Field: field, Message: "must be valid JSON"}
		}
		doc.Payload = append(json.RawMessage(nil), value...)

	case "type":
		return &ValidationError{Field: field, Message: "page type is fixed at creation"}

	case "status", "version", "id", "created_at", "updated_at", "published_at":
		return &ValidationError{Field: field, Message: "not directly editable"}

	default:
		return &ValidationError{Field: field, Message: "unknown field"}
	}
	return nil
}

// SlugAvailable reports whether a candidate slug is free for a page
// to take, ignoring the page's own current slug.
func (s *Pages) SlugAvailable(ctx context.Context, pageID, candidate string) (bool, error) {
	made := slug.Make(candidate)
	if made == "" {
		return false, nil
	}
	n, err := s.queries.CountPagesWithSlug(ctx, store.CountPagesWithSlugParams{
		Slug:      made,
		ExcludeID: pageID,
	})
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return n == 0, nil
}

// Publish transitions a page to published, gated by slug uniqueness.
// Publishing an already published page succeeds without changes.
func (s *Pages) Publish(ctx context.Context, id string) (*model.PageDocument, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	changed, err := publish.Publish(doc, all)
	if err != nil {
		return nil, err
	}
	if !changed {
		return doc, nil
	}

	doc.Version++
	doc.UpdatedAt = time.Now().UTC()
	updated, err := s.save(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.log.Info("page published", "category", "page", "id", id, "slug", doc.Slug)
	return updated, nil
}

// Unpublish returns a page to draft. Unpublishing a draft succeeds
// without changes.
func (s *Pages) Unpublish(ctx context.Context, id string) (*model.PageDocument, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !publish.Unpublish(doc) {
		return doc, nil
	}

	doc.Version++
	doc.UpdatedAt = time.Now().UTC()
	updated, err := s.save(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.log.Info("page unpublished", "category", "page", "id", id)
	return updated, nil
}

// TogglePublish flips the publish state and returns the updated page.
func (s *Pages) TogglePublish(ctx context.Context, id string) (*model.PageDocument, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.IsPublished() {
		return s.Unpublish(ctx, id)
	}
	return s.Publish(ctx, id)
}

func (s *Pages) save(ctx context.Context, doc *model.PageDocument) (*model.PageDocument, error) {
	arg, err := updateParams(doc)
	if err != nil {
		return nil, fmt.Errorf("encode page: %w", err)
	}
	row, err := s.queries.UpdatePage(ctx, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}
	return docFromRow(row)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func encodeColumns(doc *model.PageDocument) (products, packages, options, ctas, payload string, err error) {
	enc := func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	if products, err = enc(doc.Products); err != nil {
		return
	}
	if packages, err = enc(doc.Packages); err != nil {
		return
	}
	if options, err = enc(doc.PricingOptions); err != nil {
		return
	}
	if ctas, err = enc(doc.CTAs); err != nil {
		return
	}
	payload = "{}"
	if len(doc.Payload) > 0 {
		payload = string(doc.Payload)
	}
	return
}

func createParams(doc *model.PageDocument) (store.CreatePageParams, error) {
	products, packages, options, ctas, payload, err := encodeColumns(doc)
	if err != nil {
		return store.CreatePageParams{}, err
	}
	return store.CreatePageParams{
		ID:             doc.ID,
		Type:           string(doc.Type),
		Title:          doc.Title,
		Slug:           doc.Slug,
		SlugIsCustom:   boolToInt(doc.SlugIsCustom),
		Currency:       doc.Currency,
		Status:         doc.Status,
		Products:       products,
		Packages:       packages,
		PricingOptions: options,
		Ctas:           ctas,
		Payload:        payload,
		Version:        doc.Version,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}, nil
}

func updateParams(doc *model.PageDocument) (store.UpdatePageParams, error) {
	products, packages, options, ctas, payload, err := encodeColumns(doc)
	if err != nil {
		return store.UpdatePageParams{}, err
	}
	var publishedAt sql.NullTime
	if doc.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: *doc.PublishedAt, Valid: true}
	}
	return store.UpdatePageParams{
		Title:          doc.Title,
		Slug:           doc.Slug,
		SlugIsCustom:   boolToInt(doc.SlugIsCustom),
		Currency:       doc.Currency,
		Status:         doc.Status,
		Products:       products,
		Packages:       packages,
		PricingOptions: options,
		Ctas:           ctas,
		Payload:        payload,
		Version:        doc.Version,
		UpdatedAt:      doc.UpdatedAt,
		PublishedAt:    publishedAt,
		ID:             doc.ID,
	}, nil
}

func docFromRow(row store.Page) (*model.PageDocument, error) {
	doc := &model.PageDocument{
		ID:           row.ID,
		Type:         model.PageType(row.Type),
		Title:        row.Title,
		Slug:         row.Slug,
		SlugIsCustom: row.SlugIsCustom != 0,
		Currency:     row.Currency,
		Status:       row.Status,
		Payload:      json.RawMessage(row.Payload),
		Version:      row.Version,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.PublishedAt.Valid {
		t := row.PublishedAt.Time
		doc.PublishedAt = &t
	}

	dec := func(col, src string, dst any) error {
		if src == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(src), dst); err != nil {
			return fmt.Errorf("decode page %s column %s: %w", row.ID, col, err)
		}
		return nil
	}
	if err := dec("products", row.Products, &doc.Products); err != nil {
		return nil, err
	}
	if err := dec("packages", row.Packages, &doc.Packages); err != nil {
		return nil, err
	}
	if err := dec("pricing_options", row.PricingOptions, &doc.PricingOptions); err != nil {
		return nil, err
	}
	if err := dec("ctas", row.Ctas, &doc.CTAs); err != nil {
		return nil, err
	}
	if doc.Products == nil {
		doc.Products = []model.Product{}
	}
	if doc.Packages == nil {
		doc.Packages = []model.Package{}
	}
	if doc.PricingOptions == nil {
		doc.PricingOptions = []model.PricingOption{}
	}
	if doc.CTAs == nil {
		doc.CTAs = []model.CTAButton{}
	}
	return doc, nil
}
