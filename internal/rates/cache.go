package rates

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storekit/priceindex/pkg/logger"
)

// Row is the precomputed per-store pricing context: the owning website's
// default store, the store's current local date, and the conversion rate from
// the pipeline's base currency into the store currency. Every downstream
// price computation reads from the cache instead of recomputing dates and
// rates per row.
type Row struct {
	StoreID        uint32
	WebsiteID      uint32
	DefaultStoreID uint32
	CurrencyCode   string
	CurrentDate    time.Time
	Rate           decimal.Decimal
	RateKnown      bool
}

// Cache holds one Row per active store for the duration of a pipeline run.
// It must be rebuilt at the start of every run: currency rates and local
// "today" may have changed since the last one.
type Cache struct {
	baseCurrency string
	rows         map[uint32]Row
}

// StoreSource is the collaborator surface the cache is built from.
type StoreSource interface {
	ActiveStores(ctx context.Context) ([]StoreInfo, error)
	ConversionRates(ctx context.Context, baseCurrency string) (map[string]decimal.Decimal, error)
}

// StoreInfo is the read-model of a storefront needed to build a cache row.
type StoreInfo struct {
	StoreID        uint32
	WebsiteID      uint32
	DefaultStoreID uint32
	CurrencyCode   string
	Timezone       string
}

// Build constructs the cache for a run. A store whose timezone cannot be
// resolved is skipped for this run rather than failing the build; a store
// whose currency has no conversion rate keeps its row but is marked so
// cross-currency computations can be skipped per row.
func Build(ctx context.Context, source StoreSource, baseCurrency string, now time.Time, logg *logger.Logger) (*Cache, error) {
	stores, err := source.ActiveStores(ctx)
	if err != nil {
		return nil, err
	}
	conversions, err := source.ConversionRates(ctx, baseCurrency)
	if err != nil {
		return nil, err
	}

	cache := &Cache{
		baseCurrency: baseCurrency,
		rows:         make(map[uint32]Row, len(stores)),
	}

	for _, store := range stores {
		loc, err := time.LoadLocation(store.Timezone)
		if err != nil {
			if logg != nil {
				storeCtx := logg.WithStoreID(ctx, store.StoreID)
				logg.Warn(storeCtx, "skipping store with unresolvable timezone")
			}
			continue
		}
		local := now.In(loc)
		currentDate := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

		row := Row{
			StoreID:        store.StoreID,
			WebsiteID:      store.WebsiteID,
			DefaultStoreID: store.DefaultStoreID,
			CurrencyCode:   store.CurrencyCode,
			CurrentDate:    currentDate,
		}
		switch {
		case store.CurrencyCode == baseCurrency:
			row.Rate = decimal.NewFromInt(1)
			row.RateKnown = true
		default:
			if rate, ok := conversions[store.CurrencyCode]; ok {
				row.Rate = rate
				row.RateKnown = true
			} else if logg != nil {
				storeCtx := logg.WithStoreID(ctx, store.StoreID)
				logg.Warn(storeCtx, "no conversion rate for store currency; cross-currency prices will be skipped")
			}
		}
		cache.rows[store.StoreID] = row
	}

	return cache, nil
}

// BaseCurrency returns the currency every source price is expressed in.
func (c *Cache) BaseCurrency() string {
	return c.baseCurrency
}

// Get returns the cache row for a store.
func (c *Cache) Get(storeID uint32) (Row, bool) {
	row, ok := c.rows[storeID]
	return row, ok
}

// Rate returns the conversion rate from the base currency into the store's
// currency, with ok=false when the rate is unavailable.
func (c *Cache) Rate(storeID uint32) (decimal.Decimal, bool) {
	row, ok := c.rows[storeID]
	if !ok || !row.RateKnown {
		return decimal.Decimal{}, false
	}
	return row.Rate, true
}

// Stores returns all cached rows ordered by store id.
func (c *Cache) Stores() []Row {
	rows := make([]Row, 0, len(c.rows))
	for _, row := range c.rows {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StoreID < rows[j].StoreID })
	return rows
}

// StoreIDs returns the cached store ids ordered ascending.
func (c *Cache) StoreIDs() []uint32 {
	ids := make([]uint32, 0, len(c.rows))
	for id := range c.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
