package enums

import "fmt"

// PriceScope configures whether product prices are shared globally, per sales
// channel (website), or per individual storefront.
type PriceScope string

const (
	PriceScopeGlobal  PriceScope = "global"
	PriceScopeWebsite PriceScope = "website"
	PriceScopeStore   PriceScope = "store"
)

var validPriceScopes = []PriceScope{
	PriceScopeGlobal,
	PriceScopeWebsite,
	PriceScopeStore,
}

// String implements fmt.Stringer.
func (s PriceScope) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PriceScope.
func (s PriceScope) IsValid() bool {
	for _, candidate := range validPriceScopes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePriceScope converts raw input into a PriceScope.
func ParsePriceScope(value string) (PriceScope, error) {
	for _, candidate := range validPriceScopes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price scope %q", value)
}
