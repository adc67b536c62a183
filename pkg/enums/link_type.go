package enums

import "fmt"

// ProductLinkType classifies parent-to-child catalog relations.
type ProductLinkType string

const (
	ProductLinkTypeConfigurable ProductLinkType = "configurable"
	ProductLinkTypeGrouped      ProductLinkType = "grouped"
)

var validProductLinkTypes = []ProductLinkType{
	ProductLinkTypeConfigurable,
	ProductLinkTypeGrouped,
}

// String implements fmt.Stringer.
func (t ProductLinkType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ProductLinkType.
func (t ProductLinkType) IsValid() bool {
	for _, candidate := range validProductLinkTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseProductLinkType converts raw input into a ProductLinkType.
func ParseProductLinkType(value string) (ProductLinkType, error) {
	for _, candidate := range validProductLinkTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product link type %q", value)
}
