// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellkit/sellkit/internal/fx"
	"github.com/sellkit/sellkit/internal/model"
	"github.com/sellkit/sellkit/internal/pagetype"
	"github.com/sellkit/sellkit/internal/publish"
	"github.com/sellkit/sellkit/internal/store"
)

func newTestPages(t *testing.T) *Pages {
	t.Helper()
	db, err := store.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))
	return NewPages(store.New(db), fx.NewAnnotator(), "USD", nil)
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestCreateSeedsDefaults(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	doc, err := s.Create(ctx, "product")
	require.NoError(t, err)
	assert.Equal(t, model.PageTypeProduct, doc.Type)
	assert.Equal(t, "Untitled Product Page", doc.Title)
	assert.Equal(t, "untitled-product-page", doc.Slug)
	assert.False(t, doc.SlugIsCustom)
	assert.Equal(t, "USD", doc.Currency)
	assert.Equal(t, model.PageStatusDraft, doc.Status)
	assert.Equal(t, int64(1), doc.Version)
	require.Len(t, doc.CTAs, 1)
	assert.Equal(t, "Get Started", doc.CTAs[0].Label)
	assert.NotEmpty(t, doc.Payload)
}

func TestCreateUnknownType(t *testing.T) {
	s := newTestPages(t)

	_, err := s.Create(context.Background(), "webinar")
	assert.ErrorIs(t, err, pagetype.ErrUnknownPageType)
}

func TestUpdateTitleFollowsSlug(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	doc, err := s.Create(ctx, "product")
	require.NoError(t, err)

	doc, err = s.Update(ctx, doc.ID, "title", raw(t, "How to Manage Ulcer Naturally"), 0)
	require.NoError(t, err)
	assert.Equal(t, "How to Manage Ulcer Naturally", doc.Title)
	assert.Equal(t, "how-to-manage-ulcer-naturally", doc.Slug)
	assert.False(t, doc.SlugIsCustom)
	assert.Equal(t, int64(2), doc.Version)
}

func TestCustomSlugIsSticky(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	doc, err := s.Create(ctx, "product")
	require.NoError(t, err)

	doc, err = s.Update(ctx, doc.ID, "slug", raw(t, "My Promo!"), 0)
	require.NoError(t, err)
	assert.Equal(t, "my-promo", doc.Slug)
	assert.True(t, doc.SlugIsCustom)

	// Title edits no longer touch the slug.
	doc, err = s.Update(ctx, doc.ID, "title", raw(t, "Something Entirely Different"), 0)
	require.NoError(t, err)
	assert.Equal(t, "Something Entirely Different", doc.Title)
	assert.Equal(t, "my-promo", doc.Slug)
	assert.True(t, doc.SlugIsCustom)
}

func TestUpdateSlugRejectsEmpty(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	doc, err := s.Create(ctx, "product")
	require.NoError(t, err)

	_, err = s.Update(ctx, doc.ID, "slug", raw(t, "!!!"), 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "slug", verr.Field)
}

func TestUpdateCurrency(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	doc, err := s.Create(ctx, "product")
	require.NoError(t, err)

	doc, err = s.Update(ctx, doc.ID, "currency", raw(t, "ghs"), 0)
	require.NoError(t, err)
	assert.Equal(t, "GHS", doc.Currency)

	_, err = s.Update(ctx, doc.ID, "currency", raw(t, "XYZ"), 0)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateProductsRecalculatesPackages(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	doc, err := s.Create(ctx, "bundle")
	require.NoError(t, err)

	products := []model.Product{
		{ID: "pr1", Name: "Starter Kit", Price: decimal.NewFromInt(180)},
		{ID: "pr2", Name: "Full Course", Price: decimal.NewFromInt(950)},
	}
	doc, err = s.Update(ctx, doc.ID, "products", raw(t, products), 0)
	require.NoError(t, err)
	require.Len(t, doc.Products, 2)

	packages := []model.Package{
		{ID: "pk1", Title: "Complete Bundle", ProductIDs: []string{"pr1", "pr2"}},
	}
	doc, err = s.Update(ctx, doc.ID, "packages", raw(t, packages), 0)
	require.NoError(t, err)
	require.Len(t, doc.Packages, 1)
	assert.True(t, doc.Packages[0].TotalPrice.Equal(decimal.NewFromInt(1130)),
		"got %s", doc.Packages[0].TotalPrice)

	// Removing a product reprices every package.
	doc, err = s.Update(ctx, doc.ID, "products", raw(t, products[:1]), 0)
	require.NoError(t, err)
	assert.True(t, doc.Packages[0].TotalPrice.Equal(decimal.NewFromInt(180)),
		"got %s", doc.Packages[0].TotalPrice)
}

func TestUpdateRejectsBadFields(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	doc, err := s.Create(ctx, "product")
	require.NoError(t, err)

	for _, field := range []string{"type", "status", "version", "banner"} {
		_, err := s.Update(ctx, doc.ID, field, raw(t, "x"), 0)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "field %q", field)
	}
}

func TestUpdateStaleVersion(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	doc, err := s.Create(ctx, "product")
	require.NoError(t, err)

	_, err = s.Update(ctx, doc.ID, "title", raw(t, "First Edit"), doc.Version)
	require.NoError(t, err)

	// A second writer still holding version 1 is refused.
	_, err = s.Update(ctx, doc.ID, "title", raw(t, "Second Edit"), doc.Version)
	assert.ErrorIs(t, err, ErrStaleVersion)
}

func TestUpdateInvalidatesConversions(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	doc, err := s.Create(ctx, "product")
	require.NoError(t, err)

	gen := s.annotator.Begin(doc.ID)

	_, err = s.Update(ctx, doc.ID, "title", raw(t, "Edited"), 0)
	require.NoError(t, err)

	assert.False(t, s.annotator.Commit(doc.ID, gen, func() {
		t.Fatal("stale conversion applied")
	}))
}

func TestPublishLifecycle(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	doc, err := s.Create(ctx, "product")
	require.NoError(t, err)

	doc, err = s.Publish(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, doc.IsPublished())
	require.NotNil(t, doc.PublishedAt)
	firstPublishedAt := *doc.PublishedAt
	firstVersion := doc.Version

	// Publishing again is a no-op.
	doc, err = s.Publish(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, firstVersion, doc.Version)
	require.NotNil(t, doc.PublishedAt)
	assert.True(t, doc.PublishedAt.Equal(firstPublishedAt))

	doc, err = s.Unpublish(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, doc.IsDraft())
	assert.Nil(t, doc.PublishedAt)
}

func TestPublishSlugConflict(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	first, err := s.Create(ctx, "product")
	require.NoError(t, err)
	_, err = s.Update(ctx, first.ID, "slug", raw(t, "promo"), 0)
	require.NoError(t, err)
	_, err = s.Publish(ctx, first.ID)
	require.NoError(t, err)

	second, err := s.Create(ctx, "product")
	require.NoError(t, err)
	_, err = s.Update(ctx, second.ID, "slug", raw(t, "promo"), 0)
	require.NoError(t, err)

	_, err = s.Publish(ctx, second.ID)
	assert.ErrorIs(t, err, publish.ErrSlugConflict)

	// The refused page stays a draft.
	got, err := s.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDraft())
}

func TestTogglePublish(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	doc, err := s.Create(ctx, "capture")
	require.NoError(t, err)

	doc, err = s.TogglePublish(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, doc.IsPublished())

	doc, err = s.TogglePublish(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, doc.IsDraft())
}

func TestGetPublishedBySlug(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	doc, err := s.Create(ctx, "product")
	require.NoError(t, err)

	_, err = s.GetPublishedBySlug(ctx, doc.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Publish(ctx, doc.ID)
	require.NoError(t, err)

	got, err := s.GetPublishedBySlug(ctx, doc.Slug)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
}

func TestDeleteFreesSlug(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	first, err := s.Create(ctx, "product")
	require.NoError(t, err)
	_, err = s.Publish(ctx, first.ID)
	require.NoError(t, err)

	second, err := s.Create(ctx, "product")
	require.NoError(t, err)

	_, err = s.Publish(ctx, second.ID)
	assert.ErrorIs(t, err, publish.ErrSlugConflict)

	require.NoError(t, s.Delete(ctx, first.ID))

	_, err = s.Publish(ctx, second.ID)
	assert.NoError(t, err)
}

func TestDeleteMissing(t *testing.T) {
	s := newTestPages(t)

	err := s.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSlugAvailable(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	first, err := s.Create(ctx, "product")
	require.NoError(t, err)
	_, err = s.Update(ctx, first.ID, "slug", raw(t, "promo"), 0)
	require.NoError(t, err)

	second, err := s.Create(ctx, "product")
	require.NoError(t, err)

	ok, err := s.SlugAvailable(ctx, second.ID, "promo")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.SlugAvailable(ctx, second.ID, "Fresh Promo")
	require.NoError(t, err)
	assert.True(t, ok)

	// A page may keep its own slug.
	ok, err = s.SlugAvailable(ctx, first.ID, "promo")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SlugAvailable(ctx, second.ID, "!!!")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListOrder(t *testing.T) {
	s := newTestPages(t)
	ctx := context.Background()

	first, err := s.Create(ctx, "product")
	require.NoError(t, err)
	second, err := s.Create(ctx, "brand")
	require.NoError(t, err)

	// Editing the first page moves it to the front.
	_, err = s.Update(ctx, first.ID, "title", raw(t, "Front of the List"), 0)
	require.NoError(t, err)

	docs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, first.ID, docs[0].ID)
	assert.Equal(t, second.ID, docs[1].ID)
}
