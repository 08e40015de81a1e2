package valueobject

import (
	"fmt"
	"strings"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	CNY Currency = "CNY" // Chinese Yuan (default)
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	JPY Currency = "JPY" // Japanese Yen
	HKD Currency = "HKD" // Hong Kong Dollar
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = CNY

// IsValid reports whether c is one of the accepted currencies
func (c Currency) IsValid() bool {
	switch c {
	case CNY, USD, EUR, JPY, HKD:
		return true
	}
	return false
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}

// ParseCurrency parses a currency code, rejecting anything outside the accepted set.
// An empty code yields DefaultCurrency.
func ParseCurrency(code string) (Currency, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return DefaultCurrency, nil
	}
	c := Currency(strings.ToUpper(code))
	if !c.IsValid() {
		return "", fmt.Errorf("unsupported currency: %s", code)
	}
	return c, nil
}
