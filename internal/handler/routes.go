// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the REST API, the public page endpoint and the health
// check on a router.
func Routes(r chi.Router, h *Handler, db *sql.DB) {
	health := NewHealthHandler(db)
	r.Get("/healthz", health.Health)

	r.Get("/p/{slug}", h.PublicPage)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/page-types", h.ListPageTypes)

		r.Route("/pages", func(r chi.Router) {
			r.Get("/", h.ListPages)
			r.Post("/", h.CreatePage)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetPage)
				r.Patch("/", h.UpdatePage)
				r.Delete("/", h.DeletePage)

				r.Post("/publish", h.PublishPage)
				r.Post("/unpublish", h.UnpublishPage)
				r.Post("/toggle-publish", h.TogglePublishPage)

				r.Get("/workflow", h.PageWorkflow)
				r.Get("/share", h.PageShare)
				r.Get("/slug-check", h.CheckSlug)
			})
		})
	})
}
