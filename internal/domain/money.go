package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Cents quantizes a money value to two fraction digits using banker's
// rounding. Every monetary boundary (balance updates, transaction costs,
// taxes, interest) passes through this so cent drift cannot accumulate.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// ParseAmount parses a decimal money string such as "1234.56" or "-40".
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Cents(d), nil
}

// ParseRate parses a rate string such as "0.0299". Rates keep their full
// precision; only money values are quantized.
func ParseRate(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	return d, nil
}
