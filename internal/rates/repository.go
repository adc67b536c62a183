package rates

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/storekit/priceindex/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads store and currency-rate data for cache builds.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ActiveStores returns every active store joined with its owning website.
func (r *Repository) ActiveStores(ctx context.Context) ([]StoreInfo, error) {
	var stores []models.Store
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&stores).Error; err != nil {
		return nil, err
	}

	var websites []models.Website
	if err := r.db.WithContext(ctx).Find(&websites).Error; err != nil {
		return nil, err
	}
	defaultStores := make(map[uint32]uint32, len(websites))
	for _, website := range websites {
		defaultStores[website.ID] = website.DefaultStoreID
	}

	infos := make([]StoreInfo, 0, len(stores))
	for _, store := range stores {
		infos = append(infos, StoreInfo{
			StoreID:        store.ID,
			WebsiteID:      store.WebsiteID,
			DefaultStoreID: defaultStores[store.WebsiteID],
			CurrencyCode:   store.CurrencyCode,
			Timezone:       store.Timezone,
		})
	}
	return infos, nil
}

// ConversionRates returns the conversion rate from baseCurrency into every
// currency a rate exists for.
func (r *Repository) ConversionRates(ctx context.Context, baseCurrency string) (map[string]decimal.Decimal, error) {
	var rows []models.CurrencyRate
	if err := r.db.WithContext(ctx).
		Where("from_currency = ?", baseCurrency).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	rates := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		rates[row.ToCurrency] = row.Rate
	}
	return rates, nil
}
