package priceindex

import (
	"github.com/storekit/priceindex/internal/rates"
	"github.com/storekit/priceindex/internal/scope"
	"github.com/storekit/priceindex/pkg/db/models"
)

// StockFilter drops rows of products that are not salable on the row's
// website. It runs last so composite aggregation has already seen every
// child row it needed.
type StockFilter struct {
	scope scope.Config
}

// NewStockFilter builds a filter for one run's scope settings.
func NewStockFilter(sc scope.Config) *StockFilter {
	return &StockFilter{scope: sc}
}

// Apply removes out-of-stock rows from the set. With show-out-of-stock
// enabled, or for products without a stock row, everything is kept.
func (f *StockFilter) Apply(stock map[uint32]map[uint32]models.StockStatus, stores []rates.Row, set *ResultSet) {
	if f.scope.ShowOutOfStock {
		return
	}
	websiteByStore := make(map[uint32]uint32, len(stores))
	for _, store := range stores {
		websiteByStore[store.StoreID] = store.WebsiteID
	}
	for _, row := range set.Rows() {
		websites, ok := stock[row.EntityID]
		if !ok {
			continue
		}
		status, ok := websites[websiteByStore[row.StoreID]]
		if !ok {
			continue
		}
		if !status.InStock {
			set.Delete(row.Key())
		}
	}
}
