package scope

import (
	"testing"

	"github.com/storekit/priceindex/internal/dimension"
	"github.com/storekit/priceindex/pkg/config"
	"github.com/storekit/priceindex/pkg/enums"
	pkgerrors "github.com/storekit/priceindex/pkg/errors"
)

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scope.PriceScope = "store"
	cfg.Scope.ShowOutOfStock = true
	cfg.Scope.TaxEnabled = true
	cfg.Scope.DimensionMode = "store_and_customer_group"
	cfg.Index.BaseCurrency = "EUR"

	sc, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.PriceScope != enums.PriceScopeStore {
		t.Fatalf("expected store scope, got %s", sc.PriceScope)
	}
	if sc.DimensionMode != dimension.ModeBoth {
		t.Fatalf("expected both mode, got %s", sc.DimensionMode)
	}
	if !sc.ShowOutOfStock {
		t.Fatal("expected show out of stock to carry over")
	}
	if sc.BaseCurrency != "EUR" {
		t.Fatalf("expected EUR, got %s", sc.BaseCurrency)
	}
}

func TestFromConfigRejectsUnknownScope(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scope.PriceScope = "galaxy"
	cfg.Scope.DimensionMode = "none"
	cfg.Index.BaseCurrency = "USD"

	_, err := FromConfig(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		PriceScope:    enums.PriceScopeGlobal,
		DimensionMode: dimension.ModeNone,
		BaseCurrency:  "USD",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	broken := valid
	broken.BaseCurrency = "DOLLARS"
	if err := broken.Validate(); err == nil {
		t.Fatal("expected error for bad currency code")
	}
}
