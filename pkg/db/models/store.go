package models

// Website is a sales channel grouping one or more storefronts.
type Website struct {
	ID             uint32 `gorm:"column:id;primaryKey;autoIncrement"`
	Code           string `gorm:"column:code;not null;uniqueIndex"`
	Name           string `gorm:"column:name;not null"`
	DefaultStoreID uint32 `gorm:"column:default_store_id;not null;default:0"`
}

func (Website) TableName() string {
	return "websites"
}

// Store is an individual storefront with its own display currency and
// timezone. Store id 0 is reserved as the "all stores" sentinel and never
// exists as a row.
type Store struct {
	ID           uint32 `gorm:"column:id;primaryKey;autoIncrement"`
	WebsiteID    uint32 `gorm:"column:website_id;not null;index"`
	Code         string `gorm:"column:code;not null;uniqueIndex"`
	Name         string `gorm:"column:name;not null"`
	CurrencyCode string `gorm:"column:currency_code;not null;size:3"`
	Timezone     string `gorm:"column:timezone;not null;default:UTC"`
	IsActive     bool   `gorm:"column:is_active;not null;default:true"`
}

func (Store) TableName() string {
	return "stores"
}
