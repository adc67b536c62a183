package priceindex

import (
	"github.com/shopspring/decimal"
	"github.com/storekit/priceindex/internal/rates"
	"github.com/storekit/priceindex/pkg/db/models"
)

// GroupedInputs carries the parent product and its linked children. Children
// that require custom options cannot be added to a cart directly and are
// excluded from the aggregate.
type GroupedInputs struct {
	Product  models.Product
	Children []models.Product
}

// GroupedAggregator computes grouped rows. A grouped parent has no price of
// its own: only min and max are meaningful, folded from the children's
// already computed rows.
type GroupedAggregator struct{}

// NewGroupedAggregator builds an aggregator.
func NewGroupedAggregator() *GroupedAggregator {
	return &GroupedAggregator{}
}

// Compute writes grouped rows for every (store, group) cell into the set. A
// cell where no eligible child has a row produces no parent row.
func (a *GroupedAggregator) Compute(in GroupedInputs, groups []uint32, stores []rates.Row, set *ResultSet) {
	for _, store := range stores {
		for _, groupID := range groups {
			var minPrice, maxPrice *decimal.Decimal
			for _, child := range in.Children {
				if child.RequiredOptions {
					continue
				}
				row, ok := set.Get(Key{EntityID: child.EntityID, CustomerGroupID: groupID, StoreID: store.StoreID})
				if !ok {
					continue
				}
				minPrice = minPtr(minPrice, row.MinPrice)
				maxPrice = maxPtr(maxPrice, row.MaxPrice)
			}
			if minPrice == nil || maxPrice == nil {
				continue
			}
			set.Put(&Row{
				EntityID:        in.Product.EntityID,
				CustomerGroupID: groupID,
				StoreID:         store.StoreID,
				MinPrice:        clonePtr(minPrice),
				MaxPrice:        clonePtr(maxPrice),
			})
		}
	}
}
