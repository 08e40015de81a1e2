package valueobject

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// UOM is an alternative unit of measure of a material.
// ConversionFactor is how many base units equal one of this unit.
type UOM struct {
	Code             string          `json:"code"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
}

// NewUOM normalises the code and validates the factor
func NewUOM(code string, factor decimal.Decimal) (UOM, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return UOM{}, errors.New("unit code cannot be empty")
	}
	if len(code) > 20 {
		return UOM{}, errors.New("unit code cannot exceed 20 characters")
	}
	if !factor.IsPositive() {
		return UOM{}, errors.New("conversion factor must be positive")
	}
	return UOM{Code: code, ConversionFactor: factor}, nil
}

// ToBase converts a quantity in this unit into base units
func (u UOM) ToBase(quantity decimal.Decimal) decimal.Decimal {
	return quantity.Mul(u.ConversionFactor)
}

// FromBase converts a quantity in base units into this unit
func (u UOM) FromBase(baseQuantity decimal.Decimal) decimal.Decimal {
	return baseQuantity.Div(u.ConversionFactor)
}

// MatchesCode compares codes case-insensitively
func (u UOM) MatchesCode(code string) bool {
	return strings.EqualFold(u.Code, strings.TrimSpace(code))
}
