package watcher

import (
	"context"

	"github.com/storekit/priceindex/pkg/db/models"
	"gorm.io/gorm"
)

// Repository drains the price index changelog. Catalog editing appends
// entries; the watcher consumes them in version order.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// PendingEntries returns up to limit unprocessed entries in version order.
func (r *Repository) PendingEntries(ctx context.Context, limit int) ([]models.ChangelogEntry, error) {
	var entries []models.ChangelogEntry
	query := r.db.WithContext(ctx).Order("version ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ConsumeThrough removes every entry at or below the given version after a
// successful reindex.
func (r *Repository) ConsumeThrough(ctx context.Context, version uint64) error {
	return r.db.WithContext(ctx).
		Where("version <= ?", version).
		Delete(&models.ChangelogEntry{}).Error
}
