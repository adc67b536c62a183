package priceindex

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Key identifies one index cell within a dimension combination.
type Key struct {
	EntityID        uint32
	CustomerGroupID uint32
	StoreID         uint32
}

// Row is one computed price index cell. Nil price fields mean "absent", never
// zero: a grouped parent carries no price of its own, a product without tier
// rules carries no tier price.
type Row struct {
	EntityID        uint32
	CustomerGroupID uint32
	StoreID         uint32
	TaxClassID      uint32
	Price           *decimal.Decimal
	SpecialPrice    *decimal.Decimal
	FinalPrice      *decimal.Decimal
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	TierPrice       *decimal.Decimal
}

// Key returns the cell key of the row.
func (r *Row) Key() Key {
	return Key{EntityID: r.EntityID, CustomerGroupID: r.CustomerGroupID, StoreID: r.StoreID}
}

// ResultSet accumulates rows across the per-type pipeline stages of one run.
// Aggregators read child rows from it and write parent rows into it, so the
// fixed type order guarantees children exist before their parents ask.
type ResultSet struct {
	rows map[Key]*Row
}

// NewResultSet builds an empty set.
func NewResultSet() *ResultSet {
	return &ResultSet{rows: make(map[Key]*Row)}
}

// Put stores a row, replacing any previous row for the same key.
func (s *ResultSet) Put(row *Row) {
	s.rows[row.Key()] = row
}

// Get returns the row for a key.
func (s *ResultSet) Get(key Key) (*Row, bool) {
	row, ok := s.rows[key]
	return row, ok
}

// Delete removes the row for a key if present.
func (s *ResultSet) Delete(key Key) {
	delete(s.rows, key)
}

// Len returns the number of rows in the set.
func (s *ResultSet) Len() int {
	return len(s.rows)
}

// Rows returns every row ordered by (entity, store, group) so inserts and
// tests are deterministic.
func (s *ResultSet) Rows() []*Row {
	rows := make([]*Row, 0, len(s.rows))
	for _, row := range s.rows {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.EntityID != b.EntityID {
			return a.EntityID < b.EntityID
		}
		if a.StoreID != b.StoreID {
			return a.StoreID < b.StoreID
		}
		return a.CustomerGroupID < b.CustomerGroupID
	})
	return rows
}

// minPtr returns the smaller of two optional decimals, treating nil as
// "infinite".
func minPtr(a, b *decimal.Decimal) *decimal.Decimal {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.LessThan(*a) {
		return b
	}
	return a
}

// maxPtr returns the larger of two optional decimals, treating nil as absent.
func maxPtr(a, b *decimal.Decimal) *decimal.Decimal {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.GreaterThan(*a) {
		return b
	}
	return a
}

// addPtr adds delta to an optional decimal, leaving nil untouched.
func addPtr(value *decimal.Decimal, delta decimal.Decimal) *decimal.Decimal {
	if value == nil {
		return nil
	}
	sum := value.Add(delta)
	return &sum
}

// clonePtr copies an optional decimal so callers cannot alias row fields.
func clonePtr(value *decimal.Decimal) *decimal.Decimal {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func ptr(value decimal.Decimal) *decimal.Decimal {
	return &value
}
