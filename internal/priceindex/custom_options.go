package priceindex

import (
	"github.com/shopspring/decimal"
	"github.com/storekit/priceindex/internal/rates"
	"github.com/storekit/priceindex/pkg/db/models"
	"github.com/storekit/priceindex/pkg/enums"
)

// OptionInputs carries a product's custom options with their store-scoped
// prices. OptionPrices and ValuePrices are keyed by option/value id then
// store id, with store 0 holding the global fallback row.
type OptionInputs struct {
	Options      []models.ProductOption
	OptionPrices map[uint32]map[uint32]models.ProductOptionPrice
	Values       map[uint32][]models.ProductOptionValue
	ValuePrices  map[uint32]map[uint32]models.ProductOptionValuePrice
}

// CustomOptionModifier folds custom option surcharges into already computed
// rows. Required options raise the minimum (the product cannot be bought
// without them); every option raises the maximum. Products without options
// are the common case and must cost nothing here.
type CustomOptionModifier struct{}

// NewCustomOptionModifier builds a modifier.
func NewCustomOptionModifier() *CustomOptionModifier {
	return &CustomOptionModifier{}
}

// Apply adjusts the entity's rows in place. A no-op when the product carries
// no options.
func (m *CustomOptionModifier) Apply(entityID uint32, in OptionInputs, groups []uint32, stores []rates.Row, set *ResultSet) {
	if len(in.Options) == 0 {
		return
	}
	for _, store := range stores {
		for _, groupID := range groups {
			row, ok := set.Get(Key{EntityID: entityID, CustomerGroupID: groupID, StoreID: store.StoreID})
			if !ok || row.FinalPrice == nil {
				continue
			}
			minAdd, maxAdd := m.aggregate(in, store, *row.FinalPrice)
			if minAdd.IsZero() && maxAdd.IsZero() {
				continue
			}
			row.MinPrice = addPtr(row.MinPrice, minAdd)
			row.MaxPrice = addPtr(row.MaxPrice, maxAdd)
			row.TierPrice = addPtr(row.TierPrice, minAdd)
		}
	}
}

// aggregate computes the (min, max) surcharge of all options for one store.
func (m *CustomOptionModifier) aggregate(in OptionInputs, store rates.Row, base decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	minAdd := decimal.Zero
	maxAdd := decimal.Zero
	for _, option := range in.Options {
		if option.Type.HasValues() {
			optionMin, optionMax, ok := m.choiceOption(in, option, store, base)
			if !ok {
				continue
			}
			if option.Required {
				minAdd = minAdd.Add(optionMin)
			}
			maxAdd = maxAdd.Add(optionMax)
			continue
		}

		price, ok := m.flatOptionPrice(in, option, store, base)
		if !ok {
			continue
		}
		if option.Required {
			minAdd = minAdd.Add(price)
		}
		maxAdd = maxAdd.Add(price)
	}
	return minAdd, maxAdd
}

// choiceOption resolves a select-style option: min is the cheapest value, max
// is the sum of all values (multi-choice) or the dearest value (single
// choice).
func (m *CustomOptionModifier) choiceOption(in OptionInputs, option models.ProductOption, store rates.Row, base decimal.Decimal) (decimal.Decimal, decimal.Decimal, bool) {
	var cheapest, dearest *decimal.Decimal
	total := decimal.Zero
	resolved := false
	for _, value := range in.Values[option.ID] {
		priceRow, ok := storeScoped(in.ValuePrices[value.ID], store.StoreID)
		if !ok {
			continue
		}
		price, ok := m.resolve(priceRow.Price, priceRow.PriceType, priceRow.StoreID == 0, store, base)
		if !ok {
			continue
		}
		resolved = true
		cheapest = minPtr(cheapest, &price)
		dearest = maxPtr(dearest, &price)
		total = total.Add(price)
	}
	if !resolved {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}
	if option.Type.IsMultiChoice() {
		return *cheapest, total, true
	}
	return *cheapest, *dearest, true
}

func (m *CustomOptionModifier) flatOptionPrice(in OptionInputs, option models.ProductOption, store rates.Row, base decimal.Decimal) (decimal.Decimal, bool) {
	priceRow, ok := storeScoped(in.OptionPrices[option.ID], store.StoreID)
	if !ok {
		return decimal.Decimal{}, false
	}
	return m.resolve(priceRow.Price, priceRow.PriceType, priceRow.StoreID == 0, store, base)
}

// resolve turns a stored option price into a store-currency surcharge.
// Percentages apply to the row's final price, which is already converted;
// global fixed values are authored in the base currency and scaled by the
// store rate.
func (m *CustomOptionModifier) resolve(value decimal.Decimal, priceType enums.PriceType, global bool, store rates.Row, base decimal.Decimal) (decimal.Decimal, bool) {
	if priceType == enums.PriceTypePercent {
		return base.Mul(value).Div(decimal.NewFromInt(100)), true
	}
	if !global {
		return value, true
	}
	if !store.RateKnown {
		return decimal.Decimal{}, false
	}
	return value.Mul(store.Rate), true
}

// storeScoped picks the store-specific row with fallback to the global row.
func storeScoped[T any](rows map[uint32]T, storeID uint32) (T, bool) {
	if row, ok := rows[storeID]; ok {
		return row, true
	}
	row, ok := rows[0]
	return row, ok
}
