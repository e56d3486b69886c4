// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the minimal database interface Queries runs against,
// satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries is the query layer over the sellkit tables.
type Queries struct {
	db DBTX
}

// New creates a Queries instance.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to a transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Page is one pages row. Child collections and the type-specific
// payload are stored as JSON text; the service layer owns their
// encoding.
type Page struct {
	ID             string
	Type           string
	Title          string
	Slug           string
	SlugIsCustom   int64
	Currency       string
	Status         string
	Products       string
	Packages       string
	PricingOptions string
	Ctas           string
	Payload        string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	PublishedAt    sql.NullTime
}

const pageColumns = `id, type, title, slug, slug_is_custom, currency, status,
	products, packages, pricing_options, ctas, payload, version,
	created_at, updated_at, published_at`

func scanPage(row interface{ Scan(...any) error }) (Page, error) {
	var p Page
	err := row.Scan(
		&p.ID, &p.Type, &p.Title, &p.Slug, &p.SlugIsCustom, &p.Currency, &p.Status,
		&p.Products, &p.Packages, &p.PricingOptions, &p.Ctas, &p.Payload, &p.Version,
		&p.CreatedAt, &p.UpdatedAt, &p.PublishedAt,
	)
	return p, err
}

// CreatePageParams holds the values for a new pages row.
type CreatePageParams struct {
	ID             string
	Type           string
	Title          string
	Slug           string
	SlugIsCustom   int64
	Currency       string
	Status         string
	Products       string
	Packages       string
	PricingOptions string
	Ctas           string
	Payload        string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const createPage = `INSERT INTO pages (` + pageColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
RETURNING ` + pageColumns

// CreatePage inserts a new pages row and returns it.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, createPage,
		arg.ID, arg.Type, arg.Title, arg.Slug, arg.SlugIsCustom, arg.Currency, arg.Status,
		arg.Products, arg.Packages, arg.PricingOptions, arg.Ctas, arg.Payload, arg.Version,
		arg.CreatedAt, arg.UpdatedAt,
	)
	return scanPage(row)
}

const getPageByID = `SELECT ` + pageColumns + ` FROM pages WHERE id = ?`

// GetPageByID returns one page by ID.
func (q *Queries) GetPageByID(ctx context.Context, id string) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageByID, id))
}

const getPageBySlug = `SELECT ` + pageColumns + ` FROM pages WHERE slug = ? LIMIT 1`

// GetPageBySlug returns one page by slug.
func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageBySlug, slug))
}

const getPublishedPageBySlug = `SELECT ` + pageColumns + `
FROM pages WHERE slug = ? AND status = 'published' LIMIT 1`

// GetPublishedPageBySlug returns one published page by slug, for the
// public /p/{slug} resolution.
func (q *Queries) GetPublishedPageBySlug(ctx context.Context, slug string) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPublishedPageBySlug, slug))
}

const listPages = `SELECT ` + pageColumns + ` FROM pages ORDER BY updated_at DESC`

// ListPages returns all pages, most recently saved first.
func (q *Queries) ListPages(ctx context.Context) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, listPages)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// UpdatePageParams holds the mutable fields of a pages row.
type UpdatePageParams struct {
	Title          string
	Slug           string
	SlugIsCustom   int64
	Currency       string
	Status         string
	Products       string
	Packages       string
	PricingOptions string
	Ctas           string
	Payload        string
	Version        int64
	UpdatedAt      time.Time
	PublishedAt    sql.NullTime
	ID             string
}

const updatePage = `UPDATE pages SET
	title = ?, slug = ?, slug_is_custom = ?, currency = ?, status = ?,
	products = ?, packages = ?, pricing_options = ?, ctas = ?, payload = ?,
	version = ?, updated_at = ?, published_at = ?
WHERE id = ?
RETURNING ` + pageColumns

// UpdatePage rewrites a pages row and returns the new state.
func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, updatePage,
		arg.Title, arg.Slug, arg.SlugIsCustom, arg.Currency, arg.Status,
		arg.Products, arg.Packages, arg.PricingOptions, arg.Ctas, arg.Payload,
		arg.Version, arg.UpdatedAt, arg.PublishedAt, arg.ID,
	)
	return scanPage(row)
}

const deletePage = `DELETE FROM pages WHERE id = ?`

// DeletePage removes a pages row. The single-row delete removes the
// document and its slug reservation atomically.
func (q *Queries) DeletePage(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deletePage, id)
	return err
}

// CountPagesWithSlugParams identifies a slug and the page allowed to
// hold it.
type CountPagesWithSlugParams struct {
	Slug      string
	ExcludeID string
}

const countPagesWithSlug = `SELECT COUNT(*) FROM pages WHERE slug = ? AND id != ?`

// CountPagesWithSlug counts pages other than ExcludeID holding a slug.
func (q *Queries) CountPagesWithSlug(ctx context.Context, arg CountPagesWithSlugParams) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPagesWithSlug, arg.Slug, arg.ExcludeID).Scan(&n)
	return n, err
}

const countPages = `SELECT COUNT(*) FROM pages`

// CountPages counts all pages.
func (q *Queries) CountPages(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPages).Scan(&n)
	return n, err
}
