package models

import "github.com/shopspring/decimal"

// TierPrice is a quantity-break price rule. Rows are owned by product editing;
// the index engine only reads them. Store id 0 means "all stores"; the
// all_groups flag overrides customer_group_id.
type TierPrice struct {
	ID              uint32           `gorm:"column:id;primaryKey;autoIncrement"`
	EntityID        uint32           `gorm:"column:entity_id;not null;index"`
	AllGroups       bool             `gorm:"column:all_groups;not null;default:false"`
	CustomerGroupID uint32           `gorm:"column:customer_group_id;not null;default:0"`
	StoreID         uint32           `gorm:"column:store_id;not null;default:0"`
	Qty             decimal.Decimal  `gorm:"column:qty;type:numeric(12,4);not null;default:1"`
	Value           decimal.Decimal  `gorm:"column:value;type:numeric(20,6);not null;default:0"`
	Percentage      *decimal.Decimal `gorm:"column:percentage;type:numeric(5,2)"`
}

func (TierPrice) TableName() string {
	return "tier_prices"
}

// IsPercentage reports whether the rule is a percentage discount rather than a
// fixed value.
func (t TierPrice) IsPercentage() bool {
	return t.Percentage != nil
}
