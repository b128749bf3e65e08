package domain

import (
	"fmt"
	"time"
)

// DateUnit identifies a recurrence period length.
type DateUnit int

const (
	Days DateUnit = iota + 1
	Weeks
	Biweek
	Months
	Years
)

// String returns the configuration label for the unit.
func (u DateUnit) String() string {
	switch u {
	case Days:
		return "day"
	case Weeks:
		return "week"
	case Biweek:
		return "biweek"
	case Months:
		return "month"
	case Years:
		return "year"
	default:
		return fmt.Sprintf("DateUnit(%d)", int(u))
	}
}

// ParseDateUnit maps a configuration label to a DateUnit.
func ParseDateUnit(label string) (DateUnit, error) {
	switch label {
	case "day":
		return Days, nil
	case "week":
		return Weeks, nil
	case "biweek":
		return Biweek, nil
	case "month":
		return Months, nil
	case "year":
		return Years, nil
	default:
		return 0, fmt.Errorf("unknown date unit %q", label)
	}
}

// Advance moves a date forward by one period of the unit.
func (u DateUnit) Advance(t time.Time) time.Time {
	switch u {
	case Days:
		return t.AddDate(0, 0, 1)
	case Weeks:
		return t.AddDate(0, 0, 7)
	case Biweek:
		return t.AddDate(0, 0, 14)
	case Months:
		return t.AddDate(0, 1, 0)
	case Years:
		return t.AddDate(1, 0, 0)
	default:
		return t
	}
}

const dateLayout = "2006-01-02"

// ParseDate parses an ISO YYYY-MM-DD date. Dates in the simulation are
// calendar days in UTC with no time-of-day component.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDate renders a date as ISO YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// MonthIndex flattens a date's year and month onto a single axis so month
// distances survive year boundaries.
func MonthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month())
}

// MonthStart truncates a date to the first of its month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
