package priceindex

import (
	"github.com/shopspring/decimal"
	"github.com/storekit/priceindex/internal/rates"
	"github.com/storekit/priceindex/pkg/db/models"
)

// DownloadableInputs extends the base inputs with the product's links and
// their per-store price overrides (keyed by link id then store id).
type DownloadableInputs struct {
	EntityInputs
	Links      []models.DownloadableLink
	LinkPrices map[uint32]map[uint32]models.DownloadableLinkPrice
}

// DownloadableAggregator computes downloadable rows: a simple-style base row
// plus the summed price of every separately purchasable link, added to both
// min and max (buying the product means buying its files).
type DownloadableAggregator struct {
	base *BaseCalculator
}

// NewDownloadableAggregator builds an aggregator sharing the run's base
// calculator.
func NewDownloadableAggregator(base *BaseCalculator) *DownloadableAggregator {
	return &DownloadableAggregator{base: base}
}

// Compute writes downloadable rows for every (store, group) cell into the
// set.
func (a *DownloadableAggregator) Compute(in DownloadableInputs, groups []uint32, stores []rates.Row, set *ResultSet) {
	for _, store := range stores {
		cell, ok := a.base.storeCell(in.EntityInputs, store)
		if !ok {
			continue
		}
		linkSum := a.linkSum(in, store)
		for _, groupID := range groups {
			row := a.base.groupRow(in.EntityInputs, cell, store, groupID)
			if !linkSum.IsZero() {
				row.MinPrice = addPtr(row.MinPrice, linkSum)
				row.MaxPrice = addPtr(row.MaxPrice, linkSum)
				row.TierPrice = addPtr(row.TierPrice, linkSum)
			}
			set.Put(row)
		}
	}
}

// linkSum totals the separately purchasable links for one store. A store
// override is taken verbatim; the global link price is authored in the base
// currency and converted.
func (a *DownloadableAggregator) linkSum(in DownloadableInputs, store rates.Row) decimal.Decimal {
	total := decimal.Zero
	for _, link := range in.Links {
		if !link.PurchasedSeparately {
			continue
		}
		if override, ok := in.LinkPrices[link.ID][store.StoreID]; ok {
			total = total.Add(override.Price)
			continue
		}
		if !store.RateKnown {
			continue
		}
		total = total.Add(link.Price.Mul(store.Rate))
	}
	return total
}
