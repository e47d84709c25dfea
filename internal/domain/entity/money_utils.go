package entity

import (
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	"github.com/shopspring/decimal"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

// Widths, in minor-unit digits, of the amount and fee elements on the wire.
// The fee width is the narrowest any switch accepts.
const (
	MaxAmountDigits = 12
	MaxFeeDigits    = 7
)

// ParseAmount reads an operator-entered amount. Empty input is zero.
func ParseAmount(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, nil
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, amount)
	}

	if value.IsNegative() {
		return decimal.Zero, errs.ErrNegativeAmount
	}

	if -value.Exponent() > MaxDecimalPlaces && !value.Equal(value.Truncate(MaxDecimalPlaces)) {
		return decimal.Zero, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}

	return value.Truncate(MaxDecimalPlaces), nil
}

// MaxAmount returns the largest amount that fits in digits minor units
func MaxAmount(digits int) decimal.Decimal {
	return decimal.New(1, int32(digits)).Sub(decimal.NewFromInt(1)).Shift(-MaxDecimalPlaces)
}

// ParseBoundedAmount reads an amount that must fit in digits minor units
func ParseBoundedAmount(amount string, digits int) (decimal.Decimal, error) {
	value, err := ParseAmount(amount)
	if err != nil {
		return decimal.Zero, err
	}
	if limit := MaxAmount(digits); value.GreaterThan(limit) {
		return decimal.Zero, fmt.Errorf("%w: exceeds %s", errs.ErrInvalidAmount, FormatAmount(limit))
	}
	return value, nil
}

// MinorUnits renders an amount as an integer count of cents, the form switches expect.
// For example 10.15 becomes "1015" and 10 becomes "1000".
func MinorUnits(amount decimal.Decimal) string {
	return amount.Shift(MaxDecimalPlaces).Truncate(0).String()
}

// FromMinorUnits reads an integer count of cents back into an amount
func FromMinorUnits(cents string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(cents))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, cents)
	}
	return value.Shift(-MaxDecimalPlaces), nil
}

// FormatAmount renders an amount with exactly two decimal places
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(MaxDecimalPlaces)
}
