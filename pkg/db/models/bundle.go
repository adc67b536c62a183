package models

import (
	"github.com/shopspring/decimal"
	"github.com/storekit/priceindex/pkg/enums"
)

// BundleOption is one configurable slot of a bundle product.
type BundleOption struct {
	ID       uint32                 `gorm:"column:id;primaryKey;autoIncrement"`
	EntityID uint32                 `gorm:"column:entity_id;not null;index"`
	Type     enums.BundleOptionType `gorm:"column:type;not null"`
	Required bool                   `gorm:"column:required;not null;default:false"`
	Position int                    `gorm:"column:position;not null;default:0"`
}

func (BundleOption) TableName() string {
	return "bundle_options"
}

// BundleSelection assigns a child product to a bundle option. For fixed-price
// bundles the selection carries its own price (fixed or percent of the bundle
// price); for dynamic bundles the child's indexed price is used instead.
type BundleSelection struct {
	ID        uint32          `gorm:"column:id;primaryKey;autoIncrement"`
	OptionID  uint32          `gorm:"column:option_id;not null;index"`
	ParentID  uint32          `gorm:"column:parent_id;not null;index"`
	ChildID   uint32          `gorm:"column:child_id;not null;index"`
	Qty       decimal.Decimal `gorm:"column:qty;type:numeric(12,4);not null;default:1"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(20,6);not null;default:0"`
	PriceType enums.PriceType `gorm:"column:price_type;not null;default:fixed"`
	IsDefault bool            `gorm:"column:is_default;not null;default:false"`
}

func (BundleSelection) TableName() string {
	return "bundle_selections"
}
