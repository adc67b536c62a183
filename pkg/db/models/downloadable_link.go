package models

import "github.com/shopspring/decimal"

// DownloadableLink is one purchasable file of a downloadable product.
type DownloadableLink struct {
	ID                  uint32          `gorm:"column:id;primaryKey;autoIncrement"`
	EntityID            uint32          `gorm:"column:entity_id;not null;index"`
	Title               string          `gorm:"column:title;not null"`
	Price               decimal.Decimal `gorm:"column:price;type:numeric(20,6);not null;default:0"`
	PurchasedSeparately bool            `gorm:"column:purchased_separately;not null;default:false"`
	NumberOfDownloads   int             `gorm:"column:number_of_downloads;not null;default:0"`
	SortOrder           int             `gorm:"column:sort_order;not null;default:0"`
}

func (DownloadableLink) TableName() string {
	return "downloadable_links"
}

// DownloadableLinkPrice is a per-store override of a link price.
type DownloadableLinkPrice struct {
	ID      uint32          `gorm:"column:id;primaryKey;autoIncrement"`
	LinkID  uint32          `gorm:"column:link_id;not null;index:idx_downloadable_link_prices_link_store,unique"`
	StoreID uint32          `gorm:"column:store_id;not null;index:idx_downloadable_link_prices_link_store,unique"`
	Price   decimal.Decimal `gorm:"column:price;type:numeric(20,6);not null;default:0"`
}

func (DownloadableLinkPrice) TableName() string {
	return "downloadable_link_prices"
}
