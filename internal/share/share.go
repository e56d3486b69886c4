// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package share builds the outward-facing addresses of a published
// page: the public URL, prefilled social share links and a QR code
// image URL.
package share

import (
	"fmt"
	"net/url"
	"strings"
)

const qrProvider = "https://api.qrserver.com/v1/create-qr-code/"

// Links holds every share target for one published page.
type Links struct {
	URL      string `json:"url"`
	WhatsApp string `json:"whatsapp"`
	Telegram string `json:"telegram"`
	Facebook string `json:"facebook"`
	X        string `json:"x"`
	QRCode   string `json:"qr_code"`
}

// PublicURL returns the canonical address of a page slug under the
// workspace base URL.
func PublicURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/p/" + slug
}

// For builds the full share link set for a page. Title is used as the
// prefilled message on targets that accept one.
func For(baseURL, slug, title string) Links {
	pageURL := PublicURL(baseURL, slug)
	text := strings.TrimSpace(title)
	message := pageURL
	if text != "" {
		message = text + " " + pageURL
	}

	return Links{
		URL:      pageURL,
		WhatsApp: "https://wa.me/?text=" + url.QueryEscape(message),
		Telegram: fmt.Sprintf("https://t.me/share/url?url=%s&text=%s",
			url.QueryEscape(pageURL), url.QueryEscape(text)),
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(pageURL),
		X: fmt.Sprintf("https://x.com/intent/post?url=%s&text=%s",
			url.QueryEscape(pageURL), url.QueryEscape(text)),
		QRCode: QRCodeURL(pageURL, 300),
	}
}

// QRCodeURL returns an image URL encoding target as a QR code with the
// given square pixel size.
func QRCodeURL(target string, size int) string {
	if size <= 0 {
		size = 300
	}
	return fmt.Sprintf("%s?size=%dx%d&data=%s", qrProvider, size, size, url.QueryEscape(target))
}
