package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storekit/priceindex/pkg/enums"
)

// Product is the catalog entity being indexed. Attribute values that vary by
// store live in ProductPrice; the row here carries only store-invariant data.
type Product struct {
	EntityID        uint32                `gorm:"column:entity_id;primaryKey;autoIncrement"`
	SKU             string                `gorm:"column:sku;not null;uniqueIndex"`
	TypeID          enums.ProductType     `gorm:"column:type_id;not null;index"`
	PriceType       enums.BundlePriceType `gorm:"column:price_type;not null;default:fixed"`
	RequiredOptions bool                  `gorm:"column:required_options;not null;default:false"`
	IsActive        bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

// ProductPrice holds the store-scoped price attributes of a product. Store id
// 0 is the global row every other scope falls back to.
type ProductPrice struct {
	ID           uint32           `gorm:"column:id;primaryKey;autoIncrement"`
	EntityID     uint32           `gorm:"column:entity_id;not null;index:idx_product_prices_entity_store,unique"`
	StoreID      uint32           `gorm:"column:store_id;not null;index:idx_product_prices_entity_store,unique"`
	Price        *decimal.Decimal `gorm:"column:price;type:numeric(20,6)"`
	SpecialPrice *decimal.Decimal `gorm:"column:special_price;type:numeric(20,6)"`
	SpecialFrom  *time.Time       `gorm:"column:special_from"`
	SpecialTo    *time.Time       `gorm:"column:special_to"`
	TaxClassID   *uint32          `gorm:"column:tax_class_id"`
}

func (ProductPrice) TableName() string {
	return "product_prices"
}
