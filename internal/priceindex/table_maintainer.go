package priceindex

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storekit/priceindex/internal/dimension"
	"github.com/storekit/priceindex/pkg/db"
	"github.com/storekit/priceindex/pkg/logger"
	"gorm.io/gorm"
)

// BaseTableName is the root of every physical index table name; dimension
// combinations append their suffix to it.
const BaseTableName = "price_index"

const insertChunkSize = 500

// TableMaintainer owns the physical index tables: creation, replica
// lifecycle, bulk inserts, targeted deletes, and the atomic swap that
// publishes a full rebuild. Table names are dimension-derived, so everything
// here is raw DDL/DML rather than model-mapped queries.
type TableMaintainer struct {
	client *db.Client
	logg   *logger.Logger
}

// NewTableMaintainer builds a maintainer over the shared client.
func NewTableMaintainer(client *db.Client, logg *logger.Logger) *TableMaintainer {
	return &TableMaintainer{client: client, logg: logg}
}

// LiveTable returns the live table name of a combination.
func (m *TableMaintainer) LiveTable(combo dimension.Combination) string {
	return BaseTableName + combo.Suffix()
}

// ReplicaTable returns the replica (shadow) table name of a combination.
func (m *TableMaintainer) ReplicaTable(combo dimension.Combination) string {
	return m.LiveTable(combo) + "_replica"
}

func (m *TableMaintainer) retiredTable(combo dimension.Combination) string {
	return m.LiveTable(combo) + "_retired"
}

// createDDL renders the CREATE TABLE statement. The primary key constraint
// gets a unique name per creation: Postgres index names are schema-global,
// and a replica renamed into the live position keeps its constraint name, so
// reusing a fixed name would collide on the next rebuild.
func createDDL(table string, ifNotExists bool) string {
	clause := ""
	if ifNotExists {
		clause = "IF NOT EXISTS "
	}
	constraint := fmt.Sprintf("%s_pk_%d", table, time.Now().UnixNano())
	return fmt.Sprintf(`CREATE TABLE %s%s (
	entity_id BIGINT NOT NULL,
	customer_group_id BIGINT NOT NULL,
	store_id BIGINT NOT NULL,
	tax_class_id BIGINT NOT NULL DEFAULT 0,
	price NUMERIC(20,6),
	special_price NUMERIC(20,6),
	final_price NUMERIC(20,6),
	min_price NUMERIC(20,6),
	max_price NUMERIC(20,6),
	tier_price NUMERIC(20,6),
	CONSTRAINT %s PRIMARY KEY (entity_id, customer_group_id, store_id)
)`, clause, table, constraint)
}

// EnsureMain creates any missing live tables for the given combinations.
func (m *TableMaintainer) EnsureMain(ctx context.Context, combos []dimension.Combination) error {
	for _, combo := range combos {
		if err := m.client.Exec(ctx, createDDL(m.LiveTable(combo), true)).Error; err != nil {
			return fmt.Errorf("creating live table %s: %w", m.LiveTable(combo), err)
		}
	}
	return nil
}

// CreateReplica provisions a fresh, empty replica table for a combination,
// discarding any leftover from an aborted run.
func (m *TableMaintainer) CreateReplica(ctx context.Context, combo dimension.Combination) error {
	replica := m.ReplicaTable(combo)
	if err := m.client.Exec(ctx, "DROP TABLE IF EXISTS "+replica).Error; err != nil {
		return fmt.Errorf("dropping stale replica %s: %w", replica, err)
	}
	if err := m.client.Exec(ctx, createDDL(replica, false)).Error; err != nil {
		return fmt.Errorf("creating replica %s: %w", replica, err)
	}
	return nil
}

// InsertRows bulk-inserts rows into a table, chunked to bound statement
// size. It runs on the provided handle so callers control transactionality.
func (m *TableMaintainer) InsertRows(ctx context.Context, tx *gorm.DB, table string, rows []*Row) error {
	for start := 0; start < len(rows); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := m.insertChunk(ctx, tx, table, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (m *TableMaintainer) insertChunk(ctx context.Context, tx *gorm.DB, table string, rows []*Row) error {
	var builder strings.Builder
	builder.WriteString("INSERT INTO ")
	builder.WriteString(table)
	builder.WriteString(" (entity_id, customer_group_id, store_id, tax_class_id, price, special_price, final_price, min_price, max_price, tier_price) VALUES ")

	args := make([]any, 0, len(rows)*10)
	for i, row := range rows {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			row.EntityID, row.CustomerGroupID, row.StoreID, row.TaxClassID,
			decimalArg(row.Price), decimalArg(row.SpecialPrice), decimalArg(row.FinalPrice),
			decimalArg(row.MinPrice), decimalArg(row.MaxPrice), decimalArg(row.TierPrice),
		)
	}

	if err := tx.WithContext(ctx).Exec(builder.String(), args...).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return fmt.Errorf("rows already present in %s, concurrent writer suspected: %w", table, err)
		}
		return fmt.Errorf("inserting %d rows into %s: %w", len(rows), table, err)
	}
	return nil
}

func decimalArg(value *decimal.Decimal) any {
	if value == nil {
		return nil
	}
	return *value
}

// DeleteEntities removes all rows of the given entities from a table. Used
// by the partial modes before re-inserting fresh rows.
func (m *TableMaintainer) DeleteEntities(ctx context.Context, tx *gorm.DB, table string, entityIDs []uint32) error {
	if len(entityIDs) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Exec("DELETE FROM "+table+" WHERE entity_id IN ?", entityIDs).Error; err != nil {
		if db.IsUndefinedTable(err) {
			return nil
		}
		return fmt.Errorf("deleting %d entities from %s: %w", len(entityIDs), table, err)
	}
	return nil
}

// SwapAll atomically publishes every combination's replica as the live
// table. The whole chain runs in one transaction: readers see either the old
// index or the new one, never a mix.
func (m *TableMaintainer) SwapAll(ctx context.Context, combos []dimension.Combination) error {
	return m.client.WithTx(ctx, func(tx *gorm.DB) error {
		for _, combo := range combos {
			live := m.LiveTable(combo)
			replica := m.ReplicaTable(combo)
			retired := m.retiredTable(combo)

			if err := tx.Exec("DROP TABLE IF EXISTS " + retired).Error; err != nil {
				return fmt.Errorf("dropping stale retired table %s: %w", retired, err)
			}
			if err := tx.Exec(fmt.Sprintf("ALTER TABLE %s RENAME TO %s", live, retired)).Error; err != nil {
				return fmt.Errorf("retiring %s: %w", live, err)
			}
			if err := tx.Exec(fmt.Sprintf("ALTER TABLE %s RENAME TO %s", replica, live)).Error; err != nil {
				return fmt.Errorf("promoting %s: %w", replica, err)
			}
			if err := tx.Exec("DROP TABLE " + retired).Error; err != nil {
				return fmt.Errorf("dropping retired table %s: %w", retired, err)
			}
		}
		return nil
	})
}

// CleanupScratch drops leftover working tables from previous aborted runs.
// Replicas and retired tables are this engine's own leftovers; _tmp tables
// are the per-type staging tables of rebuilds that stage rows in the
// database rather than in memory, and a full run discards those too.
// Failures here are advisory and logged, never fatal.
func (m *TableMaintainer) CleanupScratch(ctx context.Context, combos []dimension.Combination) {
	for _, combo := range combos {
		for _, table := range []string{m.ReplicaTable(combo), m.LiveTable(combo) + "_tmp", m.retiredTable(combo)} {
			if err := m.client.Exec(ctx, "DROP TABLE IF EXISTS "+table).Error; err != nil && m.logg != nil {
				m.logg.Warn(ctx, fmt.Sprintf("could not drop scratch table %s: %v", table, err))
			}
		}
	}
}
