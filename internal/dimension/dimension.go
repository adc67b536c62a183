package dimension

import (
	"fmt"
	"sort"
)

// Mode selects how the price index is partitioned into physical tables.
type Mode string

const (
	ModeNone  Mode = "none"
	ModeStore Mode = "store"
	ModeGroup Mode = "customer_group"
	ModeBoth  Mode = "store_and_customer_group"
)

var validModes = []Mode{ModeNone, ModeStore, ModeGroup, ModeBoth}

// String implements fmt.Stringer.
func (m Mode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known Mode.
func (m Mode) IsValid() bool {
	for _, candidate := range validModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMode converts raw input into a Mode.
func ParseMode(value string) (Mode, error) {
	for _, candidate := range validModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dimension mode %q", value)
}

// Combination is one concrete dimension-value combination. A nil field means
// the index table is not partitioned along that axis.
type Combination struct {
	StoreID         *uint32
	CustomerGroupID *uint32
}

// Suffix returns the stable physical-table suffix for the combination, empty
// for the unpartitioned index.
func (c Combination) Suffix() string {
	suffix := ""
	if c.StoreID != nil {
		suffix += fmt.Sprintf("_s%d", *c.StoreID)
	}
	if c.CustomerGroupID != nil {
		suffix += fmt.Sprintf("_g%d", *c.CustomerGroupID)
	}
	return suffix
}

// Matches reports whether a price row keyed by (storeID, groupID) belongs to
// this combination's table.
func (c Combination) Matches(storeID, groupID uint32) bool {
	if c.StoreID != nil && *c.StoreID != storeID {
		return false
	}
	if c.CustomerGroupID != nil && *c.CustomerGroupID != groupID {
		return false
	}
	return true
}

// Resolver enumerates the dimension combinations for the active mode.
type Resolver struct {
	mode     Mode
	storeIDs []uint32
	groupIDs []uint32
}

// NewResolver builds a resolver over the known store and customer group ids.
func NewResolver(mode Mode, storeIDs, groupIDs []uint32) *Resolver {
	stores := append([]uint32(nil), storeIDs...)
	groups := append([]uint32(nil), groupIDs...)
	sort.Slice(stores, func(i, j int) bool { return stores[i] < stores[j] })
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })
	return &Resolver{mode: mode, storeIDs: stores, groupIDs: groups}
}

// Combinations returns every concrete combination for the mode, in a stable
// order.
func (r *Resolver) Combinations() []Combination {
	switch r.mode {
	case ModeStore:
		combos := make([]Combination, 0, len(r.storeIDs))
		for _, storeID := range r.storeIDs {
			id := storeID
			combos = append(combos, Combination{StoreID: &id})
		}
		return combos
	case ModeGroup:
		combos := make([]Combination, 0, len(r.groupIDs))
		for _, groupID := range r.groupIDs {
			id := groupID
			combos = append(combos, Combination{CustomerGroupID: &id})
		}
		return combos
	case ModeBoth:
		combos := make([]Combination, 0, len(r.storeIDs)*len(r.groupIDs))
		for _, storeID := range r.storeIDs {
			for _, groupID := range r.groupIDs {
				sid, gid := storeID, groupID
				combos = append(combos, Combination{StoreID: &sid, CustomerGroupID: &gid})
			}
		}
		return combos
	default:
		return []Combination{{}}
	}
}
