package priceindex

import (
	"github.com/shopspring/decimal"
	"github.com/storekit/priceindex/internal/rates"
	"github.com/storekit/priceindex/pkg/db/models"
	"github.com/storekit/priceindex/pkg/enums"
)

// BundleInputs extends the base inputs with the bundle's option structure.
// Selections is keyed by option id.
type BundleInputs struct {
	EntityInputs
	Options    []models.BundleOption
	Selections map[uint32][]models.BundleSelection
}

// BundleAggregator computes bundle rows. A fixed-price bundle starts from its
// own product price and adds selection price adjustments; a dynamic bundle
// starts at zero and derives everything from the chosen children's already
// computed rows, so it must run after the simple types.
type BundleAggregator struct {
	base *BaseCalculator
}

// NewBundleAggregator builds an aggregator sharing the run's base calculator.
func NewBundleAggregator(base *BaseCalculator) *BundleAggregator {
	return &BundleAggregator{base: base}
}

// optionContribution is one selection's resolved price within an option.
type optionContribution struct {
	price     decimal.Decimal
	tier      *decimal.Decimal
	isDefault bool
}

// Compute writes bundle rows for every (store, group) cell into the set.
func (a *BundleAggregator) Compute(in BundleInputs, groups []uint32, stores []rates.Row, set *ResultSet) {
	dynamic := in.Product.PriceType == enums.BundlePriceDynamic
	for _, store := range stores {
		var cell storeCell
		if dynamic {
			cell = storeCell{price: decimal.Zero}
		} else {
			fixed, ok := a.base.storeCell(in.EntityInputs, store)
			if !ok {
				continue
			}
			cell = fixed
		}
		for _, groupID := range groups {
			row := a.base.groupRow(in.EntityInputs, cell, store, groupID)
			a.aggregateOptions(in, dynamic, cell, store, groupID, row, set)
			set.Put(row)
		}
	}
}

func (a *BundleAggregator) aggregateOptions(in BundleInputs, dynamic bool, cell storeCell, store rates.Row, groupID uint32, row *Row, set *ResultSet) {
	minTotal := *row.FinalPrice
	maxTotal := *row.FinalPrice
	tierTotal := decimal.Zero
	tierPresent := row.TierPrice != nil
	if tierPresent {
		tierTotal = *row.TierPrice
	}

	for _, option := range in.Options {
		contributions := a.resolveSelections(in.Selections[option.ID], dynamic, cell, store, groupID, set)
		if len(contributions) == 0 {
			continue
		}

		if option.Required {
			minTotal = minTotal.Add(minContribution(contributions))
		}
		maxTotal = maxTotal.Add(maxContribution(option.Type, contributions))

		if optionTier := minOptionTier(contributions); optionTier != nil {
			tierTotal = tierTotal.Add(*optionTier)
			tierPresent = true
		}
	}

	row.MinPrice = ptr(minTotal)
	row.MaxPrice = ptr(maxTotal)
	if tierPresent {
		row.TierPrice = ptr(tierTotal)
	} else {
		row.TierPrice = nil
	}
}

// resolveSelections prices each selection of an option. Fixed bundles carry
// the price on the selection itself, fixed values in the base currency or
// percentages of the bundle's converted base price. Dynamic bundles read the
// child's computed row; a child without a row cannot be chosen and is
// dropped.
func (a *BundleAggregator) resolveSelections(selections []models.BundleSelection, dynamic bool, cell storeCell, store rates.Row, groupID uint32, set *ResultSet) []optionContribution {
	contributions := make([]optionContribution, 0, len(selections))
	for _, selection := range selections {
		if dynamic {
			child, ok := set.Get(Key{EntityID: selection.ChildID, CustomerGroupID: groupID, StoreID: store.StoreID})
			if !ok || child.FinalPrice == nil {
				continue
			}
			contribution := optionContribution{
				price:     child.FinalPrice.Mul(selection.Qty),
				isDefault: selection.IsDefault,
			}
			if child.TierPrice != nil {
				contribution.tier = ptr(child.TierPrice.Mul(selection.Qty))
			}
			contributions = append(contributions, contribution)
			continue
		}

		var price decimal.Decimal
		if selection.PriceType == enums.PriceTypePercent {
			price = cell.price.Mul(selection.Price).Div(decimal.NewFromInt(100))
		} else {
			if !store.RateKnown {
				continue
			}
			price = selection.Price.Mul(store.Rate)
		}
		contributions = append(contributions, optionContribution{
			price:     price.Mul(selection.Qty),
			isDefault: selection.IsDefault,
		})
	}
	return contributions
}

// minContribution is the default-flagged selection's price when one exists,
// else the cheapest selection.
func minContribution(contributions []optionContribution) decimal.Decimal {
	var cheapest *decimal.Decimal
	for i := range contributions {
		if contributions[i].isDefault {
			return contributions[i].price
		}
		cheapest = minPtr(cheapest, &contributions[i].price)
	}
	return *cheapest
}

// maxContribution sums every selection for multi-choice options and takes the
// most expensive selection for single-choice ones.
func maxContribution(optionType enums.BundleOptionType, contributions []optionContribution) decimal.Decimal {
	if optionType.IsMultiChoice() {
		total := decimal.Zero
		for _, contribution := range contributions {
			total = total.Add(contribution.price)
		}
		return total
	}
	var most *decimal.Decimal
	for i := range contributions {
		most = maxPtr(most, &contributions[i].price)
	}
	return *most
}

// minOptionTier is the cheapest tier price achievable within an option, nil
// when no selection carries one.
func minOptionTier(contributions []optionContribution) *decimal.Decimal {
	var cheapest *decimal.Decimal
	for _, contribution := range contributions {
		cheapest = minPtr(cheapest, contribution.tier)
	}
	return clonePtr(cheapest)
}
