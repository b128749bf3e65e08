package ledger

import (
	"errors"
	"time"

	"github.com/fpgo/finplan/internal/domain"
)

// Simulation drives a Bank day by day. The loop is strictly sequential:
// each day's interest and transfers depend on the previous day's balances.
type Simulation struct {
	Bank   *Bank
	Logger Logger

	// Progress, when set, is called after each completed day with the
	// number of days done and the total.
	Progress func(done, total int)
}

// NewSimulation wraps a fully constructed Bank.
func NewSimulation(bank *Bank) *Simulation {
	return &Simulation{Bank: bank, Logger: NopLogger{}}
}

// SetLogger replaces the logger; nil restores the no-op logger.
func (s *Simulation) SetLogger(l Logger) {
	if l == nil {
		s.Logger = NopLogger{}
		return
	}
	s.Logger = l
}

// Result reports how a run ended. When the run went bankrupt the logs hold
// everything up to, and including, the failing day's partial processing.
type Result struct {
	StartDate     time.Time
	EndDate       time.Time
	DaysSimulated int
	Bankrupt      bool
	BankruptDate  *time.Time
}

// Run steps the Bank one calendar day at a time from start (inclusive) to
// end (exclusive). Bankruptcy halts the loop early and is reported on the
// Result rather than returned as an error; all prior logs remain usable.
func (s *Simulation) Run(start, end time.Time) *Result {
	result := &Result{StartDate: start, EndDate: end}
	total := domain.DaysBetween(start, end)
	s.Logger.Infof("simulating %d days from %s to %s", total, domain.FormatDate(start), domain.FormatDate(end))

	for day := 0; day < total; day++ {
		date := start.AddDate(0, 0, day)
		if err := s.Bank.ProcessDate(date, start); err != nil {
			var bankrupt *BankruptError
			if errors.As(err, &bankrupt) {
				s.Logger.Warnf("went bankrupt on %s", domain.FormatDate(bankrupt.Date))
				failed := bankrupt.Date
				result.Bankrupt = true
				result.BankruptDate = &failed
				return result
			}
			s.Logger.Errorf("day %s failed: %v", domain.FormatDate(date), err)
			return result
		}
		s.Bank.Mature(date)
		result.DaysSimulated = day + 1
		if s.Progress != nil {
			s.Progress(day+1, total)
		}
	}
	return result
}
