package domain

import "github.com/shopspring/decimal"

var (
	daysPerYear    = decimal.NewFromInt(365)
	weeksPerYear   = decimal.NewFromInt(52)
	biweeksPerYear = decimal.NewFromInt(26)
	monthsPerYear  = decimal.NewFromInt(12)
)

// InterestRate converts an annual rate into the rate for a single period of
// any DateUnit. Conversion is simple division, not a compounding conversion;
// callers apply the per-period rate once per period elapsed.
type InterestRate struct {
	Annual decimal.Decimal
}

// NewInterestRate wraps an annual rate.
func NewInterestRate(annual decimal.Decimal) InterestRate {
	return InterestRate{Annual: annual}
}

func (r InterestRate) Year() decimal.Decimal {
	return r.Annual
}

func (r InterestRate) Month() decimal.Decimal {
	return r.Annual.Div(monthsPerYear)
}

func (r InterestRate) Week() decimal.Decimal {
	return r.Annual.Div(weeksPerYear)
}

func (r InterestRate) Biweek() decimal.Decimal {
	return r.Annual.Div(biweeksPerYear)
}

func (r InterestRate) Day() decimal.Decimal {
	return r.Annual.Div(daysPerYear)
}

// Rate returns the per-period rate for the given unit.
func (r InterestRate) Rate(unit DateUnit) decimal.Decimal {
	switch unit {
	case Days:
		return r.Day()
	case Weeks:
		return r.Week()
	case Biweek:
		return r.Biweek()
	case Months:
		return r.Month()
	default:
		return r.Year()
	}
}

// IsZero reports whether the annual rate is zero.
func (r InterestRate) IsZero() bool {
	return r.Annual.IsZero()
}
