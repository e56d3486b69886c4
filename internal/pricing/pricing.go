// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pricing derives package totals from live product prices.
// Totals are recomputed on every membership change and never cached
// across a mutation; an author-set SpecialPrice is a display override
// that this package never writes.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/sellkit/sellkit/internal/model"
)

// PackageTotal sums the current prices of every product referenced by
// the package. References to products that no longer exist contribute
// nothing.
func PackageTotal(pkg model.Package, products []model.Product) decimal.Decimal {
	total := decimal.Zero
	for _, id := range pkg.ProductIDs {
		for i := range products {
			if products[i].ID == id {
				total = total.Add(products[i].Price)
				break
			}
		}
	}
	return total
}

// Recalculate rewrites every package's TotalPrice in the document from
// its current product prices. SpecialPrice is left untouched.
func Recalculate(doc *model.PageDocument) {
	for i := range doc.Packages {
		doc.Packages[i].TotalPrice = PackageTotal(doc.Packages[i], doc.Products)
	}
}

// EffectivePrice applies a single selected pricing option to a base
// price. Options are single-select: at most one is applied at a time.
// A nil option means the base price stands.
func EffectivePrice(base decimal.Decimal, opt *model.PricingOption) decimal.Decimal {
	if opt == nil {
		return base
	}
	return base.Add(opt.PriceDelta)
}

// DisplayPrice returns the price a visitor should see for a package:
// the author override when set, the derived total otherwise.
func DisplayPrice(pkg model.Package) decimal.Decimal {
	if pkg.SpecialPrice != nil {
		return *pkg.SpecialPrice
	}
	return pkg.TotalPrice
}
