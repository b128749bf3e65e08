package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxPolicy computes the additional tax owed when an amount is withdrawn or
// earned. Policies may be stateful (IncomeTaxRate tracks year-to-date
// income), so a policy instance must be consulted exactly once per taxable
// event, in simulation order.
type TaxPolicy interface {
	// AdditionalTaxes returns the extra amount owed on top of untaxed.
	AdditionalTaxes(untaxed decimal.Decimal, date time.Time) decimal.Decimal
}

// ConstantTaxRate taxes every amount at a flat rate.
type ConstantTaxRate struct {
	Rate decimal.Decimal
}

// NewConstantTaxRate builds a flat-rate policy.
func NewConstantTaxRate(rate decimal.Decimal) *ConstantTaxRate {
	return &ConstantTaxRate{Rate: rate}
}

// ZeroTaxRate is the default policy: no tax.
func ZeroTaxRate() *ConstantTaxRate {
	return &ConstantTaxRate{Rate: decimal.Zero}
}

func (c *ConstantTaxRate) AdditionalTaxes(untaxed decimal.Decimal, _ time.Time) decimal.Decimal {
	return Cents(untaxed.Mul(c.Rate))
}

// TaxBracket is one band of a progressive schedule. Income above Floor, up
// to the next band's Floor, is taxed at Rate.
type TaxBracket struct {
	Floor decimal.Decimal
	Rate  decimal.Decimal
}

// FederalBrackets2023 is the 2023 federal schedule. The table is keyed by
// band floor: income up to 22,000 is untaxed here, income over 693,750 is
// taxed at 37% with no upper bound.
// https://www.irs.gov/newsroom/irs-provides-tax-inflation-adjustments-for-tax-year-2023
var FederalBrackets2023 = []TaxBracket{
	{decimal.Zero, decimal.Zero},
	{decimal.NewFromInt(22000), decimal.NewFromFloat(0.12)},
	{decimal.NewFromInt(89450), decimal.NewFromFloat(0.22)},
	{decimal.NewFromInt(190750), decimal.NewFromFloat(0.24)},
	{decimal.NewFromInt(364200), decimal.NewFromFloat(0.32)},
	{decimal.NewFromInt(462500), decimal.NewFromFloat(0.35)},
	{decimal.NewFromInt(693750), decimal.NewFromFloat(0.37)},
}

// IncomeTaxRate applies a progressive bracket schedule against cumulative
// income for the current calendar year. Each call taxes the marginal amount
// band by band and then advances the year-to-date accumulator; a date in a
// new calendar year resets it.
type IncomeTaxRate struct {
	Brackets []TaxBracket

	year int
	ytd  decimal.Decimal
}

// NewIncomeTaxRate builds a progressive policy on the 2023 federal schedule.
func NewIncomeTaxRate() *IncomeTaxRate {
	return &IncomeTaxRate{Brackets: FederalBrackets2023}
}

// YearToDate returns the cumulative income taxed so far this year.
func (t *IncomeTaxRate) YearToDate() decimal.Decimal {
	return t.ytd
}

func (t *IncomeTaxRate) AdditionalTaxes(untaxed decimal.Decimal, date time.Time) decimal.Decimal {
	if t.year != date.Year() {
		t.year = date.Year()
		t.ytd = decimal.Zero
	}
	if untaxed.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	taxes := decimal.Zero
	cursor := t.ytd
	remaining := untaxed
	for i, bracket := range t.Brackets {
		if i+1 < len(t.Brackets) {
			ceiling := t.Brackets[i+1].Floor
			if cursor.GreaterThanOrEqual(ceiling) {
				continue
			}
			room := ceiling.Sub(cursor)
			slice := decimal.Min(remaining, room)
			taxes = taxes.Add(Cents(slice.Mul(bracket.Rate)))
			cursor = cursor.Add(slice)
			remaining = remaining.Sub(slice)
			if remaining.LessThanOrEqual(decimal.Zero) {
				break
			}
			continue
		}
		// Top band has no ceiling; whatever is left lands here.
		taxes = taxes.Add(Cents(remaining.Mul(bracket.Rate)))
		remaining = decimal.Zero
	}

	t.ytd = t.ytd.Add(untaxed)
	return taxes
}
