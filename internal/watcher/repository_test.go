package watcher

import (
	"context"
	"testing"

	"github.com/storekit/priceindex/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.ChangelogEntry{}))
	return conn
}

func TestPendingEntriesOrderedAndLimited(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	entries := []models.ChangelogEntry{
		{EntityID: 3}, {EntityID: 1}, {EntityID: 2},
	}
	require.NoError(t, conn.Create(&entries).Error)

	got, err := repo.PendingEntries(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Less(t, got[0].Version, got[1].Version, "entries must come back in version order")
}

func TestConsumeThrough(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	entries := []models.ChangelogEntry{
		{EntityID: 1}, {EntityID: 2}, {EntityID: 3},
	}
	require.NoError(t, conn.Create(&entries).Error)

	require.NoError(t, repo.ConsumeThrough(ctx, entries[1].Version))

	remaining, err := repo.PendingEntries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, uint32(3), remaining[0].EntityID)
}
