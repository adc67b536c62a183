package tierprice

import (
	"github.com/shopspring/decimal"
	"github.com/storekit/priceindex/internal/rates"
	"github.com/storekit/priceindex/pkg/db/models"
)

var hundred = decimal.NewFromInt(100)

// Resolver picks the headline tier price of a product for one
// (customer group, store) cell. Rules are matched in four scopes: the exact
// group and store, the group across all stores, all groups for the store, and
// all groups across all stores. The cheapest resolved candidate wins; a cell
// with no matching rule has no tier price at all.
type Resolver struct{}

// NewResolver builds a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the tier price for the cell, nil when no rule applies.
//
// Only headline rules (qty at or below one unit) participate; deeper quantity
// breaks belong to cart pricing, not the index. Percentage rules discount
// basePrice, which is already in the store currency, so no conversion is
// applied. Fixed rules scoped to all stores are authored in the base currency
// and are converted with the store rate; fixed rules scoped to the concrete
// store are taken verbatim.
func (r *Resolver) Resolve(rules []models.TierPrice, groupID uint32, store rates.Row, basePrice *decimal.Decimal) *decimal.Decimal {
	var best *decimal.Decimal
	for _, rule := range rules {
		if !r.matches(rule, groupID, store.StoreID) {
			continue
		}
		if rule.Qty.GreaterThan(decimal.NewFromInt(1)) {
			continue
		}
		value, ok := r.value(rule, store, basePrice)
		if !ok {
			continue
		}
		if best == nil || value.LessThan(*best) {
			candidate := value
			best = &candidate
		}
	}
	return best
}

func (r *Resolver) matches(rule models.TierPrice, groupID, storeID uint32) bool {
	if !rule.AllGroups && rule.CustomerGroupID != groupID {
		return false
	}
	if rule.StoreID != 0 && rule.StoreID != storeID {
		return false
	}
	return true
}

func (r *Resolver) value(rule models.TierPrice, store rates.Row, basePrice *decimal.Decimal) (decimal.Decimal, bool) {
	if rule.IsPercentage() {
		if basePrice == nil {
			return decimal.Decimal{}, false
		}
		discounted := basePrice.Mul(hundred.Sub(*rule.Percentage)).Div(hundred)
		if discounted.IsNegative() {
			discounted = decimal.Zero
		}
		return discounted, true
	}
	if rule.StoreID == 0 {
		if !store.RateKnown {
			return decimal.Decimal{}, false
		}
		return rule.Value.Mul(store.Rate), true
	}
	return rule.Value, true
}
