// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sellkit/sellkit/internal/model"
	"github.com/sellkit/sellkit/internal/pagetype"
	"github.com/sellkit/sellkit/internal/publish"
	"github.com/sellkit/sellkit/internal/service"
	"github.com/sellkit/sellkit/internal/share"
)

// CreatePageRequest is the request body for creating a page.
type CreatePageRequest struct {
	Type string `json:"type" validate:"required"`
}

// UpdateFieldRequest is the request body for a single-field update.
// Version is optional; when present the update is refused if the page
// has changed since the client read it.
type UpdateFieldRequest struct {
	Field   string          `json:"field" validate:"required"`
	Value   json.RawMessage `json:"value" validate:"required"`
	Version int64           `json:"version,omitempty"`
}

// ListPages returns all pages in the workspace.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	docs, err := h.pages.List(r.Context())
	if err != nil {
		h.log.Error("list pages failed", "category", "page", "error", err)
		WriteInternalError(w, "Failed to list pages")
		return
	}
	WriteSuccess(w, docs, &Meta{Total: len(docs)})
}

// CreatePage creates a new draft of the requested type.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req CreatePageRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	doc, err := h.pages.Create(r.Context(), req.Type)
	if errors.Is(err, pagetype.ErrUnknownPageType) {
		WriteValidationError(w, map[string]string{"type": "unknown page type"})
		return
	}
	if err != nil {
		h.log.Error("create page failed", "category", "page", "error", err)
		WriteInternalError(w, "Failed to create page")
		return
	}
	WriteCreated(w, doc)
}

// GetPage returns one page by ID.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.requirePage(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, doc, nil)
}

// UpdatePage applies one field change to a page.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var req UpdateFieldRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	doc, err := h.pages.Update(r.Context(), chi.URLParam(r, "id"), req.Field, req.Value, req.Version)
	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteNotFound(w, "Page not found")
	case errors.Is(err, service.ErrStaleVersion):
		WriteConflict(w, "stale_version", "Page was modified by another request")
	case err != nil:
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			WriteValidationError(w, map[string]string{verr.Field: verr.Message})
			return
		}
		h.log.Error("update page failed", "category", "page", "error", err)
		WriteInternalError(w, "Failed to update page")
	default:
		WriteSuccess(w, doc, nil)
	}
}

// DeletePage removes a page.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	err := h.pages.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, service.ErrNotFound) {
		WriteNotFound(w, "Page not found")
		return
	}
	if err != nil {
		h.log.Error("delete page failed", "category", "page", "error", err)
		WriteInternalError(w, "Failed to delete page")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PublishPage publishes a page, gated by slug uniqueness.
func (h *Handler) PublishPage(w http.ResponseWriter, r *http.Request) {
	h.writePublishResult(w, r, func(id string) (*model.PageDocument, error) {
		return h.pages.Publish(r.Context(), id)
	})
}

// UnpublishPage returns a page to draft.
func (h *Handler) UnpublishPage(w http.ResponseWriter, r *http.Request) {
	h.writePublishResult(w, r, func(id string) (*model.PageDocument, error) {
		return h.pages.Unpublish(r.Context(), id)
	})
}

// TogglePublishPage flips the publish state of a page.
func (h *Handler) TogglePublishPage(w http.ResponseWriter, r *http.Request) {
	h.writePublishResult(w, r, func(id string) (*model.PageDocument, error) {
		return h.pages.TogglePublish(r.Context(), id)
	})
}

func (h *Handler) writePublishResult(w http.ResponseWriter, r *http.Request, op func(string) (*model.PageDocument, error)) {
	doc, err := op(chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteNotFound(w, "Page not found")
	case errors.Is(err, publish.ErrSlugConflict):
		WriteConflict(w, "slug_conflict", "Another page already uses this slug")
	case err != nil:
		h.log.Error("publish operation failed", "category", "page", "error", err)
		WriteInternalError(w, "Failed to change publish state")
	default:
		WriteSuccess(w, doc, nil)
	}
}

// PageWorkflow returns the ordered authoring steps for a page's type.
func (h *Handler) PageWorkflow(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.requirePage(w, r)
	if !ok {
		return
	}

	steps, err := pagetype.Workflow(doc.Type)
	if err != nil {
		h.log.Error("workflow lookup failed", "category", "page", "type", string(doc.Type), "error", err)
		WriteInternalError(w, "Failed to resolve workflow")
		return
	}
	WriteSuccess(w, steps, nil)
}

// PageShare returns the share link set for a page. Available for
// drafts too; the links only resolve once the page is published.
func (h *Handler) PageShare(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.requirePage(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, share.For(h.baseURL, doc.Slug, doc.Title), nil)
}

// SlugCheckResponse reports slug availability for a page.
type SlugCheckResponse struct {
	Slug      string `json:"slug"`
	Available bool   `json:"available"`
}

// CheckSlug reports whether the candidate slug in the "slug" query
// parameter is free for this page to take.
func (h *Handler) CheckSlug(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.requirePage(w, r)
	if !ok {
		return
	}

	candidate := r.URL.Query().Get("slug")
	if candidate == "" {
		WriteBadRequest(w, "Missing slug query parameter", nil)
		return
	}

	available, err := h.pages.SlugAvailable(r.Context(), doc.ID, candidate)
	if err != nil {
		h.log.Error("slug check failed", "category", "page", "error", err)
		WriteInternalError(w, "Failed to check slug")
		return
	}
	WriteSuccess(w, SlugCheckResponse{Slug: candidate, Available: available}, nil)
}

// PageTypeInfo describes one creatable page type.
type PageTypeInfo struct {
	Type     model.PageType  `json:"type"`
	Workflow []pagetype.Step `json:"workflow"`
}

// ListPageTypes returns every page type with its workflow.
func (h *Handler) ListPageTypes(w http.ResponseWriter, _ *http.Request) {
	infos := make([]PageTypeInfo, 0, len(model.AllPageTypes))
	for _, t := range model.AllPageTypes {
		steps, err := pagetype.Workflow(t)
		if err != nil {
			WriteInternalError(w, "Failed to resolve workflows")
			return
		}
		infos = append(infos, PageTypeInfo{Type: t, Workflow: steps})
	}
	WriteSuccess(w, infos, &Meta{Total: len(infos)})
}

// requirePage loads the page named by the URL. On failure the error
// response is already written.
func (h *Handler) requirePage(w http.ResponseWriter, r *http.Request) (*model.PageDocument, bool) {
	doc, err := h.pages.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, service.ErrNotFound) {
		WriteNotFound(w, "Page not found")
		return nil, false
	}
	if err != nil {
		h.log.Error("get page failed", "category", "page", "error", err)
		WriteInternalError(w, "Failed to retrieve page")
		return nil, false
	}
	return doc, true
}
