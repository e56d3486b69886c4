// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParsePageType(t *testing.T) {
	for _, pt := range AllPageTypes {
		parsed, ok := ParsePageType(string(pt))
		if !ok {
			t.Errorf("ParsePageType(%q) not recognized", pt)
		}
		if parsed != pt {
			t.Errorf("ParsePageType(%q) = %q", pt, parsed)
		}
	}

	for _, invalid := range []string{"", "landing", "Product", "bundle "} {
		if _, ok := ParsePageType(invalid); ok {
			t.Errorf("ParsePageType(%q) should not be recognized", invalid)
		}
	}
}

func TestPageDocumentStatus(t *testing.T) {
	doc := PageDocument{Status: PageStatusDraft}
	if !doc.IsDraft() || doc.IsPublished() {
		t.Error("draft document misreported")
	}

	doc.Status = PageStatusPublished
	if doc.IsDraft() || !doc.IsPublished() {
		t.Error("published document misreported")
	}
}

func TestPackageMembership(t *testing.T) {
	pkg := Package{ID: "pkg-1", Title: "Starter"}

	if !pkg.AddProduct("p1") {
		t.Error("first add should succeed")
	}
	if pkg.AddProduct("p1") {
		t.Error("duplicate add should be rejected")
	}
	if !pkg.HasProduct("p1") {
		t.Error("p1 should be a member")
	}

	if !pkg.RemoveProduct("p1") {
		t.Error("remove of member should succeed")
	}
	if pkg.RemoveProduct("p1") {
		t.Error("remove of non-member should fail")
	}
	if pkg.HasProduct("p1") {
		t.Error("p1 should no longer be a member")
	}
}

func TestPageDocumentLookups(t *testing.T) {
	doc := PageDocument{
		Products: []Product{
			{ID: "p1", Name: "Aloe Gel", Price: decimal.NewFromInt(180)},
			{ID: "p2", Name: "Bee Pollen", Price: decimal.NewFromInt(950)},
		},
		Packages: []Package{{ID: "pkg-1", Title: "Starter"}},
	}

	if got := doc.Product("p2"); got == nil || got.Name != "Bee Pollen" {
		t.Errorf("Product(p2) = %+v", got)
	}
	if doc.Product("p3") != nil {
		t.Error("Product(p3) should be nil")
	}
	if doc.Package("pkg-1") == nil {
		t.Error("Package(pkg-1) should be found")
	}
	if doc.Package("pkg-2") != nil {
		t.Error("Package(pkg-2) should be nil")
	}
}
