package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2023-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC), parsed)
	assert.Equal(t, "2023-01-15", FormatDate(parsed))

	_, err = ParseDate("01/15/2023")
	assert.ErrorContains(t, err, "want YYYY-MM-DD")
}

func TestParseDateUnitRoundTrips(t *testing.T) {
	for _, unit := range []DateUnit{Days, Weeks, Biweek, Months, Years} {
		parsed, err := ParseDateUnit(unit.String())
		require.NoError(t, err)
		assert.Equal(t, unit, parsed)
	}
	_, err := ParseDateUnit("fortnight")
	assert.ErrorContains(t, err, "unknown date unit")
}

func TestAdvance(t *testing.T) {
	start := time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC), Days.Advance(start))
	assert.Equal(t, time.Date(2023, time.February, 7, 0, 0, 0, 0, time.UTC), Weeks.Advance(start))
	assert.Equal(t, time.Date(2023, time.February, 14, 0, 0, 0, 0, time.UTC), Biweek.Advance(start))
	// AddDate normalizes Jan 31 + 1 month past the short month.
	assert.Equal(t, time.Date(2023, time.March, 3, 0, 0, 0, 0, time.UTC), Months.Advance(start))
	assert.Equal(t, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), Years.Advance(start))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysBetween(a, a))
	assert.Equal(t, 31, DaysBetween(a, time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, DaysBetween(a, time.Date(2022, time.December, 31, 0, 0, 0, 0, time.UTC)))
	// 2024 is a leap year.
	assert.Equal(t, 366, DaysBetween(
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMonthIndexSpansYears(t *testing.T) {
	dec := time.Date(2022, time.December, 5, 0, 0, 0, 0, time.UTC)
	jan := time.Date(2023, time.January, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, MonthIndex(jan)-MonthIndex(dec))
}

func TestMonthStart(t *testing.T) {
	assert.Equal(t,
		time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC),
		MonthStart(time.Date(2023, time.July, 19, 0, 0, 0, 0, time.UTC)))
}
