package scope

import (
	"github.com/storekit/priceindex/internal/dimension"
	"github.com/storekit/priceindex/pkg/config"
	"github.com/storekit/priceindex/pkg/enums"
	pkgerrors "github.com/storekit/priceindex/pkg/errors"
)

// Config is the snapshot of price-scope settings a pipeline run operates
// under. It is resolved once at the start of a run and passed by value; the
// engine never consults ambient configuration mid-run.
type Config struct {
	PriceScope     enums.PriceScope
	ShowOutOfStock bool
	TaxEnabled     bool
	DimensionMode  dimension.Mode
	BaseCurrency   string
}

// FromConfig resolves the run scope from loaded application configuration.
func FromConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, pkgerrors.New(pkgerrors.CodeValidation, "configuration required")
	}

	priceScope, err := enums.ParsePriceScope(cfg.Scope.PriceScope)
	if err != nil {
		return Config{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price scope")
	}

	mode, err := dimension.ParseMode(cfg.Scope.DimensionMode)
	if err != nil {
		return Config{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dimension mode")
	}

	return Config{
		PriceScope:     priceScope,
		ShowOutOfStock: cfg.Scope.ShowOutOfStock,
		TaxEnabled:     cfg.Scope.TaxEnabled,
		DimensionMode:  mode,
		BaseCurrency:   cfg.Index.BaseCurrency,
	}, nil
}

// Validate checks that the scope snapshot is internally consistent.
func (c Config) Validate() error {
	if !c.PriceScope.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid price scope")
	}
	if !c.DimensionMode.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid dimension mode")
	}
	if len(c.BaseCurrency) != 3 {
		return pkgerrors.New(pkgerrors.CodeValidation, "base currency must be a 3-letter code")
	}
	return nil
}
