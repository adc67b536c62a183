package priceindex

import (
	"github.com/shopspring/decimal"
	"github.com/storekit/priceindex/internal/rates"
	"github.com/storekit/priceindex/internal/scope"
	"github.com/storekit/priceindex/internal/tierprice"
	"github.com/storekit/priceindex/pkg/db/models"
	"github.com/storekit/priceindex/pkg/enums"
)

// EntityInputs bundles the per-entity source data the base calculator needs.
// Prices is keyed by store id with 0 holding the global fallback row.
type EntityInputs struct {
	Product   models.Product
	Prices    map[uint32]models.ProductPrice
	TierRules []models.TierPrice
}

// BaseCalculator computes the foundational price row of an entity for every
// (store, customer group) cell: list price with scope fallback and currency
// conversion, special-price window evaluation, tier resolution, and the
// derived final/min/max.
type BaseCalculator struct {
	scope scope.Config
	tier  *tierprice.Resolver
}

// NewBaseCalculator builds a calculator for one run's scope settings.
func NewBaseCalculator(sc scope.Config, tier *tierprice.Resolver) *BaseCalculator {
	return &BaseCalculator{scope: sc, tier: tier}
}

// Compute writes one row per (store, group) cell into the set. Cells where no
// list price can be established produce no row at all.
func (c *BaseCalculator) Compute(in EntityInputs, groups []uint32, stores []rates.Row, set *ResultSet) {
	for _, store := range stores {
		cell, ok := c.storeCell(in, store)
		if !ok {
			continue
		}
		for _, groupID := range groups {
			row := c.groupRow(in, cell, store, groupID)
			set.Put(row)
		}
	}
}

// storeCell is the group-invariant part of a cell: the converted list price,
// the active special price, and the tax class.
type storeCell struct {
	price      decimal.Decimal
	special    *decimal.Decimal
	taxClassID uint32
}

func (c *BaseCalculator) storeCell(in EntityInputs, store rates.Row) (storeCell, bool) {
	source, global, found := c.priceSource(in.Prices, store)
	if !found || source.Price == nil {
		return storeCell{}, false
	}
	price, ok := c.convert(*source.Price, global, store)
	if !ok {
		return storeCell{}, false
	}

	cell := storeCell{price: price}
	if c.scope.TaxEnabled && source.TaxClassID != nil {
		cell.taxClassID = *source.TaxClassID
	}
	if c.specialActive(source, store) {
		if special, ok := c.convert(*source.SpecialPrice, global, store); ok {
			cell.special = &special
		}
	}
	return cell, true
}

func (c *BaseCalculator) groupRow(in EntityInputs, cell storeCell, store rates.Row, groupID uint32) *Row {
	row := &Row{
		EntityID:        in.Product.EntityID,
		CustomerGroupID: groupID,
		StoreID:         store.StoreID,
		TaxClassID:      cell.taxClassID,
		Price:           ptr(cell.price),
		SpecialPrice:    clonePtr(cell.special),
	}
	row.TierPrice = c.tier.Resolve(in.TierRules, groupID, store, row.Price)

	final := cell.price
	if cell.special != nil && cell.special.LessThan(final) {
		final = *cell.special
	}
	if row.TierPrice != nil && row.TierPrice.LessThan(final) {
		final = *row.TierPrice
	}
	row.FinalPrice = ptr(final)
	row.MinPrice = ptr(final)
	row.MaxPrice = ptr(final)
	return row
}

// priceSource picks the attribute row the scope setting resolves to for this
// store. The returned global flag marks the base-currency fallback row, whose
// values still need currency conversion.
func (c *BaseCalculator) priceSource(prices map[uint32]models.ProductPrice, store rates.Row) (models.ProductPrice, bool, bool) {
	switch c.scope.PriceScope {
	case enums.PriceScopeStore:
		if row, ok := prices[store.StoreID]; ok {
			return row, false, true
		}
	case enums.PriceScopeWebsite:
		if store.DefaultStoreID != 0 {
			if row, ok := prices[store.DefaultStoreID]; ok {
				return row, false, true
			}
		}
	}
	row, ok := prices[0]
	return row, true, ok
}

// convert scales a base-currency value into the store currency. Store-local
// override rows are authored in the store currency already.
func (c *BaseCalculator) convert(value decimal.Decimal, global bool, store rates.Row) (decimal.Decimal, bool) {
	if !global {
		return value, true
	}
	if !store.RateKnown {
		return decimal.Decimal{}, false
	}
	return value.Mul(store.Rate), true
}

// specialActive evaluates the special-price window against the store's local
// date. A missing bound is unconstrained; both bounds are inclusive.
func (c *BaseCalculator) specialActive(source models.ProductPrice, store rates.Row) bool {
	if source.SpecialPrice == nil || !source.SpecialPrice.GreaterThan(decimal.Zero) {
		return false
	}
	date := store.CurrentDate
	if source.SpecialFrom != nil && date.Before(*source.SpecialFrom) {
		return false
	}
	if source.SpecialTo != nil && date.After(*source.SpecialTo) {
		return false
	}
	return true
}
