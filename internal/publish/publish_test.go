// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package publish

import (
	"errors"
	"testing"

	"github.com/sellkit/sellkit/internal/model"
)

func draft(id, slugVal string) model.PageDocument {
	return model.PageDocument{ID: id, Slug: slugVal, Status: model.PageStatusDraft}
}

func TestPublishUniqueSlug(t *testing.T) {
	doc := draft("a", "promo")
	all := []model.PageDocument{doc, draft("b", "other")}

	changed, err := Publish(&doc, all)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !changed {
		t.Error("expected a state change")
	}
	if !doc.IsPublished() {
		t.Error("document should be published")
	}
	if doc.PublishedAt == nil {
		t.Error("PublishedAt should be stamped")
	}
}

func TestPublishSlugConflict(t *testing.T) {
	doc := draft("b", "promo")
	all := []model.PageDocument{draft("a", "promo"), doc}

	changed, err := Publish(&doc, all)
	if !errors.Is(err, ErrSlugConflict) {
		t.Fatalf("Publish = %v, want ErrSlugConflict", err)
	}
	if changed {
		t.Error("no state change expected on refusal")
	}
	if !doc.IsDraft() {
		t.Error("document must stay draft after a refused publish")
	}
	if doc.PublishedAt != nil {
		t.Error("PublishedAt must not be stamped on refusal")
	}
}

func TestPublishIdempotent(t *testing.T) {
	doc := draft("a", "promo")
	all := []model.PageDocument{doc}

	if _, err := Publish(&doc, all); err != nil {
		t.Fatal(err)
	}
	first := doc.PublishedAt

	changed, err := Publish(&doc, all)
	if err != nil {
		t.Fatalf("second publish should be a no-op success, got %v", err)
	}
	if changed {
		t.Error("second publish should report no change")
	}
	if doc.PublishedAt != first {
		t.Error("repeat publish must not re-stamp PublishedAt")
	}
}

func TestUnpublish(t *testing.T) {
	doc := draft("a", "promo")
	_, _ = Publish(&doc, []model.PageDocument{doc})

	if !Unpublish(&doc) {
		t.Error("expected a state change")
	}
	if !doc.IsDraft() {
		t.Error("document should be draft")
	}
	if doc.PublishedAt != nil {
		t.Error("PublishedAt should be cleared")
	}

	if Unpublish(&doc) {
		t.Error("unpublishing a draft should be a no-op")
	}
}

func TestToggleDeterministic(t *testing.T) {
	doc := draft("a", "unique-slug")
	all := func() []model.PageDocument { return []model.PageDocument{doc} }

	status, err := Toggle(&doc, all())
	if err != nil || status != model.PageStatusPublished {
		t.Fatalf("first toggle = %q, %v; want published", status, err)
	}

	status, err = Toggle(&doc, all())
	if err != nil || status != model.PageStatusDraft {
		t.Fatalf("second toggle = %q, %v; want draft", status, err)
	}

	status, err = Toggle(&doc, all())
	if err != nil || status != model.PageStatusPublished {
		t.Fatalf("third toggle = %q, %v; want published", status, err)
	}
}

func TestToggleRefusedOnConflict(t *testing.T) {
	doc := draft("b", "promo")
	all := []model.PageDocument{draft("a", "promo"), doc}

	status, err := Toggle(&doc, all)
	if !errors.Is(err, ErrSlugConflict) {
		t.Fatalf("Toggle = %v, want ErrSlugConflict", err)
	}
	if status != model.PageStatusDraft {
		t.Errorf("status = %q, want draft", status)
	}
}
