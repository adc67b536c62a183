package models

import (
	"github.com/shopspring/decimal"
	"github.com/storekit/priceindex/pkg/enums"
)

// ProductOption is a custom option attached to a product (engraving text,
// gift wrap choice, warranty selection).
type ProductOption struct {
	ID        uint32                 `gorm:"column:id;primaryKey;autoIncrement"`
	EntityID  uint32                 `gorm:"column:entity_id;not null;index"`
	Type      enums.CustomOptionType `gorm:"column:type;not null"`
	Required  bool                   `gorm:"column:required;not null;default:false"`
	SortOrder int                    `gorm:"column:sort_order;not null;default:0"`
}

func (ProductOption) TableName() string {
	return "product_options"
}

// ProductOptionPrice is the store-scoped price of a flat (non-choice) custom
// option. Store id 0 is the global fallback row.
type ProductOptionPrice struct {
	ID        uint32          `gorm:"column:id;primaryKey;autoIncrement"`
	OptionID  uint32          `gorm:"column:option_id;not null;index:idx_product_option_prices_option_store,unique"`
	StoreID   uint32          `gorm:"column:store_id;not null;index:idx_product_option_prices_option_store,unique"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(20,6);not null;default:0"`
	PriceType enums.PriceType `gorm:"column:price_type;not null;default:fixed"`
}

func (ProductOptionPrice) TableName() string {
	return "product_option_prices"
}

// ProductOptionValue is one enumerated choice of a select-style custom option.
type ProductOptionValue struct {
	ID        uint32 `gorm:"column:id;primaryKey;autoIncrement"`
	OptionID  uint32 `gorm:"column:option_id;not null;index"`
	Title     string `gorm:"column:title;not null"`
	SortOrder int    `gorm:"column:sort_order;not null;default:0"`
}

func (ProductOptionValue) TableName() string {
	return "product_option_values"
}

// ProductOptionValuePrice is the store-scoped price of one choice value.
type ProductOptionValuePrice struct {
	ID        uint32          `gorm:"column:id;primaryKey;autoIncrement"`
	ValueID   uint32          `gorm:"column:value_id;not null;index:idx_product_option_value_prices_value_store,unique"`
	StoreID   uint32          `gorm:"column:store_id;not null;index:idx_product_option_value_prices_value_store,unique"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(20,6);not null;default:0"`
	PriceType enums.PriceType `gorm:"column:price_type;not null;default:fixed"`
}

func (ProductOptionValuePrice) TableName() string {
	return "product_option_value_prices"
}
