// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package slug derives and validates the URL-safe page identifiers.
// A slug is unique across all non-deleted documents; uniqueness is
// checked here, enforced by the service layer.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sellkit/sellkit/internal/model"
)

// MaxLength caps generated slugs. Longer input is truncated.
const MaxLength = 50

// nonAlnum matches any run of characters that cannot appear in a slug.
var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make converts free text to a URL-friendly slug: transliterate to
// ASCII, lowercase, collapse every run of non-alphanumerics to a
// single hyphen, trim hyphens, cap at MaxLength. Idempotent.
func Make(s string) string {
	// Decompose accents first so "Café" becomes "Cafe" rather than
	// falling through to unidecode's coarser mapping.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	// Transliterate remaining non-ASCII (cyrillic, CJK, symbols).
	result = unidecode.Unidecode(result)

	result = strings.ToLower(result)
	result = nonAlnum.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLength {
		result = strings.TrimRight(result[:MaxLength], "-")
	}

	return result
}

// IsValid checks if a string is a well-formed slug: non-empty,
// only [a-z0-9-], no leading/trailing hyphen, within MaxLength.
func IsValid(s string) bool {
	if s == "" || len(s) > MaxLength {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	return true
}

// IsTaken reports whether any document other than pageID already uses
// the candidate slug. Used both for live inline feedback while typing
// and as the hard gate before publishing.
func IsTaken(pageID, candidate string, pages []model.PageDocument) bool {
	for i := range pages {
		if pages[i].ID != pageID && pages[i].Slug == candidate {
			return true
		}
	}
	return false
}
