package enums

import "fmt"

// ProductType identifies the pricing behavior of a catalog entity.
type ProductType string

const (
	ProductTypeSimple       ProductType = "simple"
	ProductTypeVirtual      ProductType = "virtual"
	ProductTypeDownloadable ProductType = "downloadable"
	ProductTypeBundle       ProductType = "bundle"
	ProductTypeConfigurable ProductType = "configurable"
	ProductTypeGrouped      ProductType = "grouped"
)

var validProductTypes = []ProductType{
	ProductTypeSimple,
	ProductTypeVirtual,
	ProductTypeDownloadable,
	ProductTypeBundle,
	ProductTypeConfigurable,
	ProductTypeGrouped,
}

// String implements fmt.Stringer.
func (t ProductType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ProductType.
func (t ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsComposite reports whether the type derives prices from child entities.
func (t ProductType) IsComposite() bool {
	switch t {
	case ProductTypeBundle, ProductTypeConfigurable, ProductTypeGrouped:
		return true
	}
	return false
}

// ParseProductType converts raw input into a ProductType.
func ParseProductType(value string) (ProductType, error) {
	for _, candidate := range validProductTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", value)
}

// BundlePriceType selects how a bundle prices itself: a fixed product price
// with selection adjustments, or a dynamic price derived entirely from the
// chosen children.
type BundlePriceType string

const (
	BundlePriceFixed   BundlePriceType = "fixed"
	BundlePriceDynamic BundlePriceType = "dynamic"
)

// String implements fmt.Stringer.
func (t BundlePriceType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known BundlePriceType.
func (t BundlePriceType) IsValid() bool {
	return t == BundlePriceFixed || t == BundlePriceDynamic
}
