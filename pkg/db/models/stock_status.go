package models

import "github.com/shopspring/decimal"

// StockStatus is the per-website salability of a product, written by the
// inventory side and read by the stock filter.
type StockStatus struct {
	ID        uint32          `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID uint32          `gorm:"column:product_id;not null;index:idx_stock_statuses_product_website,unique"`
	WebsiteID uint32          `gorm:"column:website_id;not null;index:idx_stock_statuses_product_website,unique"`
	Qty       decimal.Decimal `gorm:"column:qty;type:numeric(12,4);not null;default:0"`
	InStock   bool            `gorm:"column:in_stock;not null;default:false"`
}

func (StockStatus) TableName() string {
	return "stock_statuses"
}
