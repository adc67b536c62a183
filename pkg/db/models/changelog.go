package models

import "time"

// ChangelogEntry records a product whose price inputs changed. Catalog editing
// appends entries; the watcher drains them and triggers a rows reindex.
type ChangelogEntry struct {
	Version   uint64    `gorm:"column:version;primaryKey;autoIncrement"`
	EntityID  uint32    `gorm:"column:entity_id;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ChangelogEntry) TableName() string {
	return "price_index_changelog"
}
