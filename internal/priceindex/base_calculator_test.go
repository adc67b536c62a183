package priceindex

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storekit/priceindex/internal/dimension"
	"github.com/storekit/priceindex/internal/rates"
	"github.com/storekit/priceindex/internal/scope"
	"github.com/storekit/priceindex/internal/tierprice"
	"github.com/storekit/priceindex/pkg/db/models"
	"github.com/storekit/priceindex/pkg/enums"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testScope() scope.Config {
	return scope.Config{
		PriceScope:    enums.PriceScopeStore,
		DimensionMode: dimension.ModeNone,
		BaseCurrency:  "USD",
	}
}

func usdStore(id uint32) rates.Row {
	return rates.Row{
		StoreID:     id,
		WebsiteID:   1,
		CurrentDate: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		Rate:        decimal.NewFromInt(1),
		RateKnown:   true,
	}
}

func simpleProduct(id uint32) models.Product {
	return models.Product{EntityID: id, TypeID: enums.ProductTypeSimple, IsActive: true}
}

func globalPrice(price string) map[uint32]models.ProductPrice {
	return map[uint32]models.ProductPrice{
		0: {StoreID: 0, Price: decPtr(price)},
	}
}

func newBase(sc scope.Config) *BaseCalculator {
	return NewBaseCalculator(sc, tierprice.NewResolver())
}

func mustGet(t *testing.T, set *ResultSet, key Key) *Row {
	t.Helper()
	row, ok := set.Get(key)
	if !ok {
		t.Fatalf("expected row for %+v", key)
	}
	return row
}

func TestComputeSimpleRow(t *testing.T) {
	set := NewResultSet()
	in := EntityInputs{Product: simpleProduct(1), Prices: globalPrice("10.00")}

	newBase(testScope()).Compute(in, []uint32{1, 2}, []rates.Row{usdStore(1)}, set)

	if set.Len() != 2 {
		t.Fatalf("expected one row per group, got %d", set.Len())
	}
	row := mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 1})
	if !row.Price.Equal(dec("10.00")) || !row.FinalPrice.Equal(dec("10.00")) {
		t.Fatalf("unexpected prices: %+v", row)
	}
	if !row.MinPrice.Equal(*row.FinalPrice) || !row.MaxPrice.Equal(*row.FinalPrice) {
		t.Fatal("simple row must have min = max = final")
	}
	if row.SpecialPrice != nil || row.TierPrice != nil {
		t.Fatal("no special or tier price expected")
	}
}

func TestComputeSkipsEntityWithoutPrice(t *testing.T) {
	set := NewResultSet()
	in := EntityInputs{Product: simpleProduct(1), Prices: map[uint32]models.ProductPrice{}}

	newBase(testScope()).Compute(in, []uint32{1}, []rates.Row{usdStore(1)}, set)

	if set.Len() != 0 {
		t.Fatalf("expected no rows, got %d", set.Len())
	}
}

func TestComputeSpecialPriceWindow(t *testing.T) {
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		from    *time.Time
		to      *time.Time
		special string
		want    string
		active  bool
	}{
		{"inside window", &from, &to, "7.50", "7.50", true},
		{"open ended", nil, nil, "8.00", "8.00", true},
		{"expired", nil, timePtr(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)), "7.50", "10.00", false},
		{"not started", timePtr(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)), nil, "7.50", "10.00", false},
		{"zero special ignored", &from, &to, "0", "10.00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set := NewResultSet()
			in := EntityInputs{
				Product: simpleProduct(1),
				Prices: map[uint32]models.ProductPrice{
					0: {StoreID: 0, Price: decPtr("10.00"), SpecialPrice: decPtr(tc.special), SpecialFrom: tc.from, SpecialTo: tc.to},
				},
			}
			newBase(testScope()).Compute(in, []uint32{1}, []rates.Row{usdStore(1)}, set)

			row := mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 1})
			if !row.FinalPrice.Equal(dec(tc.want)) {
				t.Fatalf("expected final %s, got %s", tc.want, row.FinalPrice)
			}
			if tc.active && row.SpecialPrice == nil {
				t.Fatal("expected active special price on row")
			}
			if !tc.active && row.SpecialPrice != nil {
				t.Fatalf("expected no special price, got %s", row.SpecialPrice)
			}
		})
	}
}

func TestComputeTierPriceLowersFinal(t *testing.T) {
	set := NewResultSet()
	in := EntityInputs{
		Product: simpleProduct(1),
		Prices:  globalPrice("10.00"),
		TierRules: []models.TierPrice{
			{AllGroups: true, Qty: dec("1"), Value: dec("6.00")},
		},
	}

	newBase(testScope()).Compute(in, []uint32{1}, []rates.Row{usdStore(1)}, set)

	row := mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 1})
	if row.TierPrice == nil || !row.TierPrice.Equal(dec("6.00")) {
		t.Fatalf("expected tier 6.00, got %v", row.TierPrice)
	}
	if !row.FinalPrice.Equal(dec("6.00")) {
		t.Fatalf("tier must lower final, got %s", row.FinalPrice)
	}
	if !row.Price.Equal(dec("10.00")) {
		t.Fatal("list price must stay untouched")
	}
}

func TestComputeCurrencyConversion(t *testing.T) {
	set := NewResultSet()
	store := usdStore(2)
	store.Rate = dec("0.5")

	in := EntityInputs{Product: simpleProduct(1), Prices: globalPrice("10.00")}
	newBase(testScope()).Compute(in, []uint32{1}, []rates.Row{store}, set)

	row := mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 2})
	if !row.Price.Equal(dec("5.00")) {
		t.Fatalf("expected converted price 5.00, got %s", row.Price)
	}
}

func TestComputeMissingRateSkipsStore(t *testing.T) {
	set := NewResultSet()
	store := usdStore(2)
	store.RateKnown = false

	in := EntityInputs{Product: simpleProduct(1), Prices: globalPrice("10.00")}
	newBase(testScope()).Compute(in, []uint32{1}, []rates.Row{store}, set)

	if set.Len() != 0 {
		t.Fatal("store without a rate must produce no row")
	}
}

func TestComputeStoreOverrideBeatsGlobal(t *testing.T) {
	set := NewResultSet()
	store := usdStore(3)
	store.Rate = dec("2")

	in := EntityInputs{
		Product: simpleProduct(1),
		Prices: map[uint32]models.ProductPrice{
			0: {StoreID: 0, Price: decPtr("10.00")},
			3: {StoreID: 3, Price: decPtr("12.00")},
		},
	}
	newBase(testScope()).Compute(in, []uint32{1}, []rates.Row{store}, set)

	// The override row is already in store currency, so no conversion.
	row := mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 3})
	if !row.Price.Equal(dec("12.00")) {
		t.Fatalf("expected override 12.00, got %s", row.Price)
	}
}

func TestComputeGlobalScopeIgnoresOverrides(t *testing.T) {
	sc := testScope()
	sc.PriceScope = enums.PriceScopeGlobal

	set := NewResultSet()
	in := EntityInputs{
		Product: simpleProduct(1),
		Prices: map[uint32]models.ProductPrice{
			0: {StoreID: 0, Price: decPtr("10.00")},
			3: {StoreID: 3, Price: decPtr("12.00")},
		},
	}
	newBase(sc).Compute(in, []uint32{1}, []rates.Row{usdStore(3)}, set)

	row := mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 3})
	if !row.Price.Equal(dec("10.00")) {
		t.Fatalf("global scope must use the global row, got %s", row.Price)
	}
}

func TestComputeTaxClassCarriedWhenEnabled(t *testing.T) {
	taxClass := uint32(4)
	prices := map[uint32]models.ProductPrice{
		0: {StoreID: 0, Price: decPtr("10.00"), TaxClassID: &taxClass},
	}

	sc := testScope()
	sc.TaxEnabled = true
	set := NewResultSet()
	newBase(sc).Compute(EntityInputs{Product: simpleProduct(1), Prices: prices}, []uint32{1}, []rates.Row{usdStore(1)}, set)
	row := mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 1})
	if row.TaxClassID != 4 {
		t.Fatalf("expected tax class 4, got %d", row.TaxClassID)
	}

	sc.TaxEnabled = false
	set = NewResultSet()
	newBase(sc).Compute(EntityInputs{Product: simpleProduct(1), Prices: prices}, []uint32{1}, []rates.Row{usdStore(1)}, set)
	row = mustGet(t, set, Key{EntityID: 1, CustomerGroupID: 1, StoreID: 1})
	if row.TaxClassID != 0 {
		t.Fatalf("expected tax class 0 with tax disabled, got %d", row.TaxClassID)
	}
}

func timePtr(v time.Time) *time.Time {
	return &v
}
