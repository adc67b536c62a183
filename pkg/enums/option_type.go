package enums

import "fmt"

// BundleOptionType is the input control of a bundle option. Single-choice
// controls aggregate selections with MAX, multi-choice controls with SUM.
type BundleOptionType string

const (
	BundleOptionTypeSelect   BundleOptionType = "select"
	BundleOptionTypeRadio    BundleOptionType = "radio"
	BundleOptionTypeCheckbox BundleOptionType = "checkbox"
	BundleOptionTypeMulti    BundleOptionType = "multi"
)

var validBundleOptionTypes = []BundleOptionType{
	BundleOptionTypeSelect,
	BundleOptionTypeRadio,
	BundleOptionTypeCheckbox,
	BundleOptionTypeMulti,
}

// String implements fmt.Stringer.
func (t BundleOptionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known BundleOptionType.
func (t BundleOptionType) IsValid() bool {
	for _, candidate := range validBundleOptionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsMultiChoice reports whether a shopper can pick several selections at once.
func (t BundleOptionType) IsMultiChoice() bool {
	return t == BundleOptionTypeCheckbox || t == BundleOptionTypeMulti
}

// ParseBundleOptionType converts raw input into a BundleOptionType.
func ParseBundleOptionType(value string) (BundleOptionType, error) {
	for _, candidate := range validBundleOptionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bundle option type %q", value)
}

// CustomOptionType is the input control of a product custom option.
type CustomOptionType string

const (
	CustomOptionTypeField    CustomOptionType = "field"
	CustomOptionTypeArea     CustomOptionType = "area"
	CustomOptionTypeFile     CustomOptionType = "file"
	CustomOptionTypeDate     CustomOptionType = "date"
	CustomOptionTypeDropdown CustomOptionType = "drop_down"
	CustomOptionTypeRadio    CustomOptionType = "radio"
	CustomOptionTypeCheckbox CustomOptionType = "checkbox"
	CustomOptionTypeMulti    CustomOptionType = "multiple"
)

var validCustomOptionTypes = []CustomOptionType{
	CustomOptionTypeField,
	CustomOptionTypeArea,
	CustomOptionTypeFile,
	CustomOptionTypeDate,
	CustomOptionTypeDropdown,
	CustomOptionTypeRadio,
	CustomOptionTypeCheckbox,
	CustomOptionTypeMulti,
}

// String implements fmt.Stringer.
func (t CustomOptionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known CustomOptionType.
func (t CustomOptionType) IsValid() bool {
	for _, candidate := range validCustomOptionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// HasValues reports whether the option carries enumerated choice values with
// their own prices.
func (t CustomOptionType) HasValues() bool {
	switch t {
	case CustomOptionTypeDropdown, CustomOptionTypeRadio, CustomOptionTypeCheckbox, CustomOptionTypeMulti:
		return true
	}
	return false
}

// IsMultiChoice reports whether several choice values can be picked together.
func (t CustomOptionType) IsMultiChoice() bool {
	return t == CustomOptionTypeCheckbox || t == CustomOptionTypeMulti
}

// ParseCustomOptionType converts raw input into a CustomOptionType.
func ParseCustomOptionType(value string) (CustomOptionType, error) {
	for _, candidate := range validCustomOptionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid custom option type %q", value)
}

// PriceType distinguishes fixed monetary values from percentages of a base
// price.
type PriceType string

const (
	PriceTypeFixed   PriceType = "fixed"
	PriceTypePercent PriceType = "percent"
)

// String implements fmt.Stringer.
func (t PriceType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known PriceType.
func (t PriceType) IsValid() bool {
	return t == PriceTypeFixed || t == PriceTypePercent
}
