// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sellkit/sellkit/internal/model"
)

func products() []model.Product {
	return []model.Product{
		{ID: "gel", Name: "Aloe Gel", Price: decimal.NewFromInt(180)},
		{ID: "pollen", Name: "Bee Pollen", Price: decimal.NewFromInt(950)},
		{ID: "tea", Name: "Herbal Tea", Price: decimal.NewFromFloat(45.50)},
	}
}

func TestPackageTotal(t *testing.T) {
	pkg := model.Package{ID: "combo", ProductIDs: []string{"gel", "pollen"}}

	total := PackageTotal(pkg, products())
	assert.True(t, total.Equal(decimal.NewFromInt(1130)), "got %s", total)
}

func TestPackageTotalAfterMembershipChange(t *testing.T) {
	pkg := model.Package{ID: "combo", ProductIDs: []string{"gel", "pollen"}}
	prods := products()

	assert.True(t, PackageTotal(pkg, prods).Equal(decimal.NewFromInt(1130)))

	pkg.RemoveProduct("pollen")
	assert.True(t, PackageTotal(pkg, prods).Equal(decimal.NewFromInt(180)))

	pkg.AddProduct("tea")
	assert.True(t, PackageTotal(pkg, prods).Equal(decimal.NewFromFloat(225.50)))
}

func TestPackageTotalIgnoresDanglingReferences(t *testing.T) {
	pkg := model.Package{ID: "combo", ProductIDs: []string{"gel", "deleted"}}

	total := PackageTotal(pkg, products())
	assert.True(t, total.Equal(decimal.NewFromInt(180)), "got %s", total)
}

func TestPackageTotalEmpty(t *testing.T) {
	pkg := model.Package{ID: "empty"}
	assert.True(t, PackageTotal(pkg, products()).IsZero())
	assert.True(t, PackageTotal(pkg, nil).IsZero())
}

func TestRecalculate(t *testing.T) {
	special := decimal.NewFromInt(999)
	doc := &model.PageDocument{
		Products: products(),
		Packages: []model.Package{
			{ID: "a", ProductIDs: []string{"gel", "pollen"}},
			{ID: "b", ProductIDs: []string{"tea"}, SpecialPrice: &special},
		},
	}

	Recalculate(doc)

	assert.True(t, doc.Packages[0].TotalPrice.Equal(decimal.NewFromInt(1130)))
	assert.True(t, doc.Packages[1].TotalPrice.Equal(decimal.NewFromFloat(45.50)))

	// The override is display-only and must survive recalculation.
	assert.NotNil(t, doc.Packages[1].SpecialPrice)
	assert.True(t, doc.Packages[1].SpecialPrice.Equal(decimal.NewFromInt(999)))
}

func TestEffectivePrice(t *testing.T) {
	base := decimal.NewFromInt(100)

	assert.True(t, EffectivePrice(base, nil).Equal(base))

	upsell := model.PricingOption{ID: "o1", PriceDelta: decimal.NewFromInt(25)}
	assert.True(t, EffectivePrice(base, &upsell).Equal(decimal.NewFromInt(125)))

	discount := model.PricingOption{ID: "o2", PriceDelta: decimal.NewFromInt(-30)}
	assert.True(t, EffectivePrice(base, &discount).Equal(decimal.NewFromInt(70)))
}

func TestDisplayPrice(t *testing.T) {
	pkg := model.Package{TotalPrice: decimal.NewFromInt(1130)}
	assert.True(t, DisplayPrice(pkg).Equal(decimal.NewFromInt(1130)))

	special := decimal.NewFromInt(899)
	pkg.SpecialPrice = &special
	assert.True(t, DisplayPrice(pkg).Equal(decimal.NewFromInt(899)))
}
