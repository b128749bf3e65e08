package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTransaction(t *testing.T, spec TransactionSpec) *Recurring {
	t.Helper()
	txn, err := NewTransaction(spec)
	require.NoError(t, err)
	return txn
}

func amount(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestTransactionAmountQuantized(t *testing.T) {
	txn := mustTransaction(t, TransactionSpec{
		Name:      "a",
		Amount:    amount("5"),
		Frequency: Daily,
		StartDate: date(2023, time.March, 1),
	})
	assert.Equal(t, "5.00", txn.Amount().StringFixed(2))

	cost := txn.Cost(date(2023, time.March, 1), date(2023, time.March, 1))
	assert.Equal(t, "5.00", cost.StringFixed(2))
}

func TestTransactionRequiredFields(t *testing.T) {
	_, err := NewTransaction(TransactionSpec{Amount: amount("5"), Frequency: Daily})
	assert.ErrorContains(t, err, "no name")

	_, err = NewTransaction(TransactionSpec{Name: "a", Frequency: Daily})
	assert.ErrorContains(t, err, "no amount")
}

func TestTransactionValidityWindow(t *testing.T) {
	start := date(2023, time.March, 1)
	txn := mustTransaction(t, TransactionSpec{
		Name: "a", Amount: amount("5"), Frequency: Daily, StartDate: start,
	})
	assert.True(t, txn.Cost(date(2023, time.February, 1), start).IsZero(), "pending before start_date")

	end := date(2030, time.March, 1)
	txn = mustTransaction(t, TransactionSpec{
		Name: "a", Amount: amount("5"), Frequency: Daily,
		StartDate: date(2023, time.March, 1), EndDate: &end,
	})
	assert.True(t, txn.Cost(date(2030, time.March, 2), start).IsZero(), "expired after end_date")
	assert.False(t, txn.Cost(date(2030, time.March, 1), start).IsZero(), "end_date itself is in the window")
}

func TestDailyAlternating(t *testing.T) {
	start := date(2023, time.March, 1)
	txn := mustTransaction(t, TransactionSpec{
		Name: "a", Amount: amount("5"), Frequency: Daily, StartDate: start, EveryXPeriods: 2,
	})

	assert.True(t, txn.Cost(start.AddDate(0, 0, 1), start).IsZero())
	assert.Equal(t, "5.00", txn.Cost(start.AddDate(0, 0, 2), start).StringFixed(2))
}

func TestWeeklyAndBiWeeklyStrides(t *testing.T) {
	start := date(2023, time.March, 1)
	weekly := mustTransaction(t, TransactionSpec{
		Name: "w", Amount: amount("5"), Frequency: Weekly, StartDate: start,
	})
	assert.Equal(t, "5.00", weekly.Cost(start.AddDate(0, 0, 7), start).StringFixed(2))
	assert.True(t, weekly.Cost(start.AddDate(0, 0, 8), start).IsZero())

	biweekly := mustTransaction(t, TransactionSpec{
		Name: "b", Amount: amount("5"), Frequency: BiWeekly, StartDate: start,
	})
	assert.Equal(t, "5.00", biweekly.Cost(start.AddDate(0, 0, 14), start).StringFixed(2))
	assert.True(t, biweekly.Cost(start.AddDate(0, 0, 7), start).IsZero())
}

func TestMonthlyTransaction(t *testing.T) {
	start := date(2023, time.January, 5)
	txn := mustTransaction(t, TransactionSpec{
		Name: "a", Amount: amount("5"), Frequency: Monthly, StartDate: start,
	})

	assert.True(t, txn.Cost(date(2023, time.February, 12), start).IsZero(), "wrong day of month")
	assert.Equal(t, "5.00", txn.Cost(date(2023, time.February, 5), start).StringFixed(2))
	assert.Equal(t, "5.00", txn.Cost(date(2024, time.January, 5), start).StringFixed(2), "month stride survives year boundary")
}

func TestMonthlyAlternating(t *testing.T) {
	start := date(2023, time.January, 5)
	txn := mustTransaction(t, TransactionSpec{
		Name: "a", Amount: amount("5"), Frequency: Monthly, StartDate: start, EveryXPeriods: 2,
	})

	assert.True(t, txn.Cost(date(2023, time.February, 5), start).IsZero())
	assert.Equal(t, "5.00", txn.Cost(date(2023, time.March, 5), start).StringFixed(2))
}

func TestYearlyTransaction(t *testing.T) {
	start := date(2023, time.December, 15)
	txn := mustTransaction(t, TransactionSpec{
		Name: "a", Amount: amount("5"), Frequency: Yearly, StartDate: start,
	})

	assert.Equal(t, "5.00", txn.Cost(date(2024, time.December, 15), start).StringFixed(2))
	assert.True(t, txn.Cost(date(2024, time.June, 15), start).IsZero())
	assert.True(t, txn.Cost(date(2024, time.December, 14), start).IsZero())
}

func TestMonthlyStartDayLimit(t *testing.T) {
	_, err := NewTransaction(TransactionSpec{
		Name: "rent", Amount: amount("5"), Frequency: Monthly,
		StartDate: date(2023, time.January, 29),
	})
	assert.ErrorContains(t, err, "day 1-28")

	_, err = NewTransaction(TransactionSpec{
		Name: "rent", Amount: amount("5"), Frequency: Yearly,
		StartDate: date(2023, time.January, 31),
	})
	assert.ErrorContains(t, err, "day 1-28")
}

func TestTransactionInterestGrowth(t *testing.T) {
	start := date(2023, time.January, 1)
	txn := mustTransaction(t, TransactionSpec{
		Name: "a", Amount: amount("5"), Frequency: Daily, StartDate: start,
		InterestRate: decimal.NewFromFloat(0.05),
	})

	// One year of simple daily interest: 5 * (1 + 0.05/365 * 365) = 5.25.
	cost := txn.Cost(start.AddDate(1, 0, 0), start)
	assert.Equal(t, "5.25", cost.StringFixed(2))
}

func TestTransactionTaxDelegation(t *testing.T) {
	txn := mustTransaction(t, TransactionSpec{
		Name: "a", Amount: amount("100"), Frequency: Daily,
		StartDate: date(2023, time.March, 1),
		TaxRate:   NewConstantTaxRate(decimal.NewFromFloat(0.10)),
	})
	tax := txn.Tax(date(2023, time.March, 1), decimal.NewFromInt(100))
	assert.Equal(t, "10.00", tax.StringFixed(2))

	untaxed := mustTransaction(t, TransactionSpec{
		Name: "b", Amount: amount("100"), Frequency: Daily, StartDate: date(2023, time.March, 1),
	})
	assert.True(t, untaxed.Tax(date(2023, time.March, 1), decimal.NewFromInt(100)).IsZero(),
		"default policy is a flat 0%")
}
