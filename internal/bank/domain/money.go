package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrMoneyPrecision is returned for amounts finer than one cent.
	ErrMoneyPrecision = errors.New("domain: amount has more than two decimal places")

	// ErrMoneyRange is returned for amounts whose minor units do not fit
	// in an int64.
	ErrMoneyRange = errors.New("domain: amount out of representable range")
)

// CentsFromDecimal converts an exact decimal amount into integer minor
// units. Amounts with more than two decimal places are rejected rather
// than rounded, so no caller can silently lose or mint fractions of a cent.
// Amounts beyond int64 minor units are rejected rather than wrapped; a
// wrapped conversion would flip the sign and turn a debit into a credit.
func CentsFromDecimal(d decimal.Decimal) (int64, error) {
	if d.Exponent() < -2 {
		// Trailing zeros are fine, real sub-cent precision is not.
		if !d.Equal(d.Round(2)) {
			return 0, ErrMoneyPrecision
		}
	}

	cents := d.Shift(2).BigInt()
	if !cents.IsInt64() {
		return 0, ErrMoneyRange
	}
	return cents.Int64(), nil
}

// DecimalFromCents converts integer minor units back into an exact decimal.
func DecimalFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
