package tierprice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storekit/priceindex/internal/rates"
	"github.com/storekit/priceindex/pkg/db/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func usdStore(id uint32) rates.Row {
	return rates.Row{StoreID: id, Rate: decimal.NewFromInt(1), RateKnown: true}
}

func TestResolvePicksCheapestAcrossScopes(t *testing.T) {
	rules := []models.TierPrice{
		{AllGroups: true, StoreID: 0, Qty: dec("1"), Value: dec("9.00")},
		{CustomerGroupID: 2, StoreID: 0, Qty: dec("1"), Value: dec("8.50")},
		{CustomerGroupID: 2, StoreID: 3, Qty: dec("1"), Value: dec("8.00")},
		{AllGroups: true, StoreID: 3, Qty: dec("1"), Value: dec("8.75")},
	}

	got := NewResolver().Resolve(rules, 2, usdStore(3), decPtr("10.00"))
	if got == nil || !got.Equal(dec("8.00")) {
		t.Fatalf("expected 8.00, got %v", got)
	}
}

func TestResolveNoMatchingRule(t *testing.T) {
	rules := []models.TierPrice{
		{CustomerGroupID: 5, StoreID: 0, Qty: dec("1"), Value: dec("8.50")},
		{CustomerGroupID: 2, StoreID: 9, Qty: dec("1"), Value: dec("8.00")},
	}

	if got := NewResolver().Resolve(rules, 2, usdStore(3), decPtr("10.00")); got != nil {
		t.Fatalf("expected no tier price, got %v", got)
	}
}

func TestResolveIgnoresDeepQuantityBreaks(t *testing.T) {
	rules := []models.TierPrice{
		{AllGroups: true, StoreID: 0, Qty: dec("10"), Value: dec("5.00")},
		{AllGroups: true, StoreID: 0, Qty: dec("1"), Value: dec("9.00")},
	}

	got := NewResolver().Resolve(rules, 1, usdStore(1), decPtr("10.00"))
	if got == nil || !got.Equal(dec("9.00")) {
		t.Fatalf("expected headline rule 9.00, got %v", got)
	}
}

func TestResolvePercentageDiscountsConvertedBase(t *testing.T) {
	rules := []models.TierPrice{
		{AllGroups: true, StoreID: 0, Qty: dec("1"), Value: dec("0"), Percentage: decPtr("25")},
	}

	// Base price is already in the store currency; the rate must not be
	// applied a second time.
	store := rates.Row{StoreID: 2, Rate: dec("0.5"), RateKnown: true}
	got := NewResolver().Resolve(rules, 1, store, decPtr("40.00"))
	if got == nil || !got.Equal(dec("30.00")) {
		t.Fatalf("expected 30.00, got %v", got)
	}
}

func TestResolvePercentageNeedsBasePrice(t *testing.T) {
	rules := []models.TierPrice{
		{AllGroups: true, StoreID: 0, Qty: dec("1"), Percentage: decPtr("25")},
	}

	if got := NewResolver().Resolve(rules, 1, usdStore(1), nil); got != nil {
		t.Fatalf("percentage rule without a base price must resolve to nothing, got %v", got)
	}
}

func TestResolveFixedValueCurrencyHandling(t *testing.T) {
	rules := []models.TierPrice{
		{AllGroups: true, StoreID: 0, Qty: dec("1"), Value: dec("10.00")},
		{AllGroups: true, StoreID: 7, Qty: dec("1"), Value: dec("8.40")},
	}
	store := rates.Row{StoreID: 7, Rate: dec("0.9"), RateKnown: true}

	// All-stores rule converts to 9.00; the store-local rule is already in
	// store currency and wins at 8.40.
	got := NewResolver().Resolve(rules, 1, store, decPtr("20.00"))
	if got == nil || !got.Equal(dec("8.40")) {
		t.Fatalf("expected 8.40, got %v", got)
	}
}

func TestResolveSkipsGlobalFixedRuleWithoutRate(t *testing.T) {
	rules := []models.TierPrice{
		{AllGroups: true, StoreID: 0, Qty: dec("1"), Value: dec("10.00")},
		{AllGroups: true, StoreID: 7, Qty: dec("1"), Value: dec("8.40")},
	}
	store := rates.Row{StoreID: 7, RateKnown: false}

	got := NewResolver().Resolve(rules, 1, store, nil)
	if got == nil || !got.Equal(dec("8.40")) {
		t.Fatalf("expected store-local rule to survive missing rate, got %v", got)
	}
}

func TestResolvePercentageClampsAtZero(t *testing.T) {
	rules := []models.TierPrice{
		{AllGroups: true, StoreID: 0, Qty: dec("1"), Percentage: decPtr("150")},
	}

	got := NewResolver().Resolve(rules, 1, usdStore(1), decPtr("10.00"))
	if got == nil || !got.IsZero() {
		t.Fatalf("expected clamp to zero, got %v", got)
	}
}
