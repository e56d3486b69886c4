// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package publish governs the Draft/Published lifecycle of a page.
// It is the only place that flips a document's status; the slug
// uniqueness gate lives here so a page can never go live on top of
// another page's address.
package publish

import (
	"errors"
	"fmt"
	"time"

	"github.com/sellkit/sellkit/internal/model"
	"github.com/sellkit/sellkit/internal/slug"
)

// ErrSlugConflict is returned when publishing is refused because
// another document already holds the slug. User-recoverable: pick a
// different slug and retry.
var ErrSlugConflict = errors.New("slug already in use by another page")

// Publish transitions a document from draft to published, gated by
// slug uniqueness against all other pages. Publishing an already
// published document is a no-op success. On refusal the document is
// unchanged.
func Publish(doc *model.PageDocument, all []model.PageDocument) (bool, error) {
	if doc.IsPublished() {
		return false, nil
	}

	if slug.IsTaken(doc.ID, doc.Slug, all) {
		return false, fmt.Errorf("%w: %q", ErrSlugConflict, doc.Slug)
	}

	now := time.Now()
	doc.Status = model.PageStatusPublished
	doc.PublishedAt = &now
	return true, nil
}

// Unpublish transitions a document back to draft. Always allowed;
// unpublishing a draft is a no-op success.
func Unpublish(doc *model.PageDocument) bool {
	if doc.IsDraft() {
		return false
	}

	doc.Status = model.PageStatusDraft
	doc.PublishedAt = nil
	return true
}

// Toggle dispatches to Publish or Unpublish based on the current
// state and returns the resulting status.
func Toggle(doc *model.PageDocument, all []model.PageDocument) (string, error) {
	if doc.IsPublished() {
		Unpublish(doc)
		return doc.Status, nil
	}

	if _, err := Publish(doc, all); err != nil {
		return doc.Status, err
	}
	return doc.Status, nil
}
