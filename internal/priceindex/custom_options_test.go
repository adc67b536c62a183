package priceindex

import (
	"testing"

	"github.com/storekit/priceindex/internal/rates"
	"github.com/storekit/priceindex/pkg/db/models"
	"github.com/storekit/priceindex/pkg/enums"
)

func seededRow(final string) *ResultSet {
	set := NewResultSet()
	set.Put(&Row{
		EntityID: 1, CustomerGroupID: 1, StoreID: 1,
		Price: decPtr(final), FinalPrice: decPtr(final),
		MinPrice: decPtr(final), MaxPrice: decPtr(final),
	})
	return set
}

func TestApplyNoOptionsIsNoOp(t *testing.T) {
	set := seededRow("10.00")
	before := *mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 1})

	NewCustomOptionModifier().Apply(1, OptionInputs{}, []uint32{1}, []rates.Row{usdStore(1)}, set)

	after := mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 1})
	if !after.MinPrice.Equal(*before.MinPrice) || !after.MaxPrice.Equal(*before.MaxPrice) {
		t.Fatal("no options must leave the row untouched")
	}
}

func TestApplyRequiredFlatOption(t *testing.T) {
	set := seededRow("10.00")
	in := OptionInputs{
		Options: []models.ProductOption{
			{ID: 1, EntityID: 1, Type: enums.CustomOptionTypeField, Required: true},
		},
		OptionPrices: map[uint32]map[uint32]models.ProductOptionPrice{
			1: {0: {OptionID: 1, StoreID: 0, Price: dec("2.00"), PriceType: enums.PriceTypeFixed}},
		},
	}

	NewCustomOptionModifier().Apply(1, in, []uint32{1}, []rates.Row{usdStore(1)}, set)

	row := mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 1})
	if !row.MinPrice.Equal(dec("12.00")) || !row.MaxPrice.Equal(dec("12.00")) {
		t.Fatalf("required flat option must raise both bounds, got min=%s max=%s", row.MinPrice, row.MaxPrice)
	}
}

func TestApplyOptionalFlatOptionRaisesOnlyMax(t *testing.T) {
	set := seededRow("10.00")
	in := OptionInputs{
		Options: []models.ProductOption{
			{ID: 1, EntityID: 1, Type: enums.CustomOptionTypeField, Required: false},
		},
		OptionPrices: map[uint32]map[uint32]models.ProductOptionPrice{
			1: {0: {OptionID: 1, StoreID: 0, Price: dec("2.00"), PriceType: enums.PriceTypeFixed}},
		},
	}

	NewCustomOptionModifier().Apply(1, in, []uint32{1}, []rates.Row{usdStore(1)}, set)

	row := mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 1})
	if !row.MinPrice.Equal(dec("10.00")) {
		t.Fatalf("optional option must not raise min, got %s", row.MinPrice)
	}
	if !row.MaxPrice.Equal(dec("12.00")) {
		t.Fatalf("expected max 12.00, got %s", row.MaxPrice)
	}
}

func TestApplyPercentOptionUsesFinalPrice(t *testing.T) {
	set := seededRow("20.00")
	in := OptionInputs{
		Options: []models.ProductOption{
			{ID: 1, EntityID: 1, Type: enums.CustomOptionTypeField, Required: true},
		},
		OptionPrices: map[uint32]map[uint32]models.ProductOptionPrice{
			1: {0: {OptionID: 1, StoreID: 0, Price: dec("10"), PriceType: enums.PriceTypePercent}},
		},
	}

	NewCustomOptionModifier().Apply(1, in, []uint32{1}, []rates.Row{usdStore(1)}, set)

	row := mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 1})
	if !row.MinPrice.Equal(dec("22.00")) {
		t.Fatalf("expected 10%% of 20.00 added, got %s", row.MinPrice)
	}
}

func TestApplyDropDownOption(t *testing.T) {
	set := seededRow("10.00")
	in := OptionInputs{
		Options: []models.ProductOption{
			{ID: 1, EntityID: 1, Type: enums.CustomOptionTypeDropdown, Required: true},
		},
		Values: map[uint32][]models.ProductOptionValue{
			1: {{ID: 11, OptionID: 1}, {ID: 12, OptionID: 1}},
		},
		ValuePrices: map[uint32]map[uint32]models.ProductOptionValuePrice{
			11: {0: {ValueID: 11, StoreID: 0, Price: dec("3.00"), PriceType: enums.PriceTypeFixed}},
			12: {0: {ValueID: 12, StoreID: 0, Price: dec("5.00"), PriceType: enums.PriceTypeFixed}},
		},
	}

	NewCustomOptionModifier().Apply(1, in, []uint32{1}, []rates.Row{usdStore(1)}, set)

	// Single choice: min picks the cheapest value, max the dearest.
	row := mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 1})
	if !row.MinPrice.Equal(dec("13.00")) {
		t.Fatalf("expected min 13.00, got %s", row.MinPrice)
	}
	if !row.MaxPrice.Equal(dec("15.00")) {
		t.Fatalf("expected max 15.00, got %s", row.MaxPrice)
	}
}

func TestApplyMultiChoiceOptionSumsMax(t *testing.T) {
	set := seededRow("10.00")
	in := OptionInputs{
		Options: []models.ProductOption{
			{ID: 1, EntityID: 1, Type: enums.CustomOptionTypeCheckbox, Required: true},
		},
		Values: map[uint32][]models.ProductOptionValue{
			1: {{ID: 11, OptionID: 1}, {ID: 12, OptionID: 1}},
		},
		ValuePrices: map[uint32]map[uint32]models.ProductOptionValuePrice{
			11: {0: {ValueID: 11, StoreID: 0, Price: dec("3.00"), PriceType: enums.PriceTypeFixed}},
			12: {0: {ValueID: 12, StoreID: 0, Price: dec("5.00"), PriceType: enums.PriceTypeFixed}},
		},
	}

	NewCustomOptionModifier().Apply(1, in, []uint32{1}, []rates.Row{usdStore(1)}, set)

	row := mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 1})
	if !row.MinPrice.Equal(dec("13.00")) {
		t.Fatalf("expected min 13.00, got %s", row.MinPrice)
	}
	if !row.MaxPrice.Equal(dec("18.00")) {
		t.Fatalf("multi-choice max must sum all values, got %s", row.MaxPrice)
	}
}

func TestApplyStoreScopedOptionPrice(t *testing.T) {
	set := NewResultSet()
	set.Put(&Row{
		EntityID: 1, CustomerGroupID: 1, StoreID: 2,
		Price: decPtr("10.00"), FinalPrice: decPtr("10.00"),
		MinPrice: decPtr("10.00"), MaxPrice: decPtr("10.00"),
	})
	in := OptionInputs{
		Options: []models.ProductOption{
			{ID: 1, EntityID: 1, Type: enums.CustomOptionTypeField, Required: true},
		},
		OptionPrices: map[uint32]map[uint32]models.ProductOptionPrice{
			1: {
				0: {OptionID: 1, StoreID: 0, Price: dec("2.00"), PriceType: enums.PriceTypeFixed},
				2: {OptionID: 1, StoreID: 2, Price: dec("1.50"), PriceType: enums.PriceTypeFixed},
			},
		},
	}

	NewCustomOptionModifier().Apply(1, in, []uint32{1}, []rates.Row{usdStore(2)}, set)

	row := mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 2})
	if !row.MinPrice.Equal(dec("11.50")) {
		t.Fatalf("store-scoped option price must win, got %s", row.MinPrice)
	}
}
