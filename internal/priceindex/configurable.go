package priceindex

import (
	"github.com/shopspring/decimal"
	"github.com/storekit/priceindex/internal/rates"
	"github.com/storekit/priceindex/internal/scope"
	"github.com/storekit/priceindex/pkg/db/models"
)

// ConfigurableInputs extends the base inputs with the parent's child links
// and the per-website stock rows of those children.
type ConfigurableInputs struct {
	EntityInputs
	ChildIDs []uint32
	Stock    map[uint32]map[uint32]models.StockStatus
}

// ConfigurableAggregator computes configurable rows: the parent keeps its own
// list/final price, while min, max, and tier are folded from the child SKUs'
// already computed rows. Out-of-stock children are excluded unless the run is
// configured to show out-of-stock products.
type ConfigurableAggregator struct {
	base  *BaseCalculator
	scope scope.Config
}

// NewConfigurableAggregator builds an aggregator sharing the run's base
// calculator.
func NewConfigurableAggregator(base *BaseCalculator, sc scope.Config) *ConfigurableAggregator {
	return &ConfigurableAggregator{base: base, scope: sc}
}

// Compute writes configurable rows for every (store, group) cell into the
// set. A parent without its own list price produces no row.
func (a *ConfigurableAggregator) Compute(in ConfigurableInputs, groups []uint32, stores []rates.Row, set *ResultSet) {
	for _, store := range stores {
		cell, ok := a.base.storeCell(in.EntityInputs, store)
		if !ok {
			continue
		}
		for _, groupID := range groups {
			row := a.base.groupRow(in.EntityInputs, cell, store, groupID)
			a.foldChildren(in, store, groupID, row, set)
			set.Put(row)
		}
	}
}

func (a *ConfigurableAggregator) foldChildren(in ConfigurableInputs, store rates.Row, groupID uint32, row *Row, set *ResultSet) {
	var minPrice, maxPrice, tier *decimal.Decimal
	for _, childID := range in.ChildIDs {
		if !a.sellable(in.Stock, childID, store.WebsiteID) {
			continue
		}
		child, ok := set.Get(Key{EntityID: childID, CustomerGroupID: groupID, StoreID: store.StoreID})
		if !ok {
			continue
		}
		minPrice = minPtr(minPrice, child.MinPrice)
		maxPrice = maxPtr(maxPrice, child.MaxPrice)
		tier = minPtr(tier, child.TierPrice)
	}
	if minPrice == nil || maxPrice == nil {
		return
	}
	row.MinPrice = clonePtr(minPrice)
	row.MaxPrice = clonePtr(maxPrice)
	row.TierPrice = clonePtr(tier)
}

// sellable reports whether a child may contribute to the parent aggregate. A
// child without a stock row is treated as sellable; the stock side owns the
// authoritative answer and absence must not hide prices.
func (a *ConfigurableAggregator) sellable(stock map[uint32]map[uint32]models.StockStatus, productID, websiteID uint32) bool {
	if a.scope.ShowOutOfStock {
		return true
	}
	websites, ok := stock[productID]
	if !ok {
		return true
	}
	status, ok := websites[websiteID]
	if !ok {
		return true
	}
	return status.InStock
}
