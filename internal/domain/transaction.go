package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionLog is one immutable ledger entry: a single balance-affecting
// event. Source is empty when funds did not come from another account.
type TransactionLog struct {
	Source      string          `yaml:"source,omitempty" json:"source,omitempty"`
	Destination string          `yaml:"destination" json:"destination"`
	Title       string          `yaml:"title" json:"title"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount"`
	Date        time.Time       `yaml:"date" json:"date"`
}

// Frequency identifies a transaction's recurrence cadence.
type Frequency int

const (
	Daily Frequency = iota + 1
	Weekly
	BiWeekly
	Monthly
	Yearly
)

func (f Frequency) String() string {
	switch f {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case BiWeekly:
		return "biweekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return fmt.Sprintf("Frequency(%d)", int(f))
	}
}

// ParseFrequency maps a configuration label to a Frequency.
func ParseFrequency(label string) (Frequency, error) {
	switch label {
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "biweekly":
		return BiWeekly, nil
	case "monthly":
		return Monthly, nil
	case "yearly":
		return Yearly, nil
	default:
		return 0, fmt.Errorf("unknown frequency %q", label)
	}
}

// Transaction is the capability an Account requires of anything attached to
// it: a recurring cash flow that knows when it applies, what it costs on a
// date, and what tax that cost incurs.
//
// Cost is a pure function of date for recurring transactions, but the
// mortgage variants advance their amortization state when costed, so each
// transaction must be costed exactly once per simulated day.
type Transaction interface {
	Name() string
	Active(date time.Time) bool
	Cost(date, relativeDate time.Time) decimal.Decimal
	Tax(date time.Time, amount decimal.Decimal) decimal.Decimal
}

// TransactionSpec is the validated configuration for one recurring
// transaction. Amount is a pointer so a missing amount is distinguishable
// from an explicit zero.
type TransactionSpec struct {
	Name          string
	Amount        *decimal.Decimal
	InterestRate  decimal.Decimal
	StartDate     time.Time // zero value means today
	EndDate       *time.Time
	EveryXPeriods int // recurrence stride, default 1
	TaxRate       TaxPolicy
	Frequency     Frequency
}

// Recurring is a transaction that fires on a fixed cadence. The cadence is
// resolved at construction into either a day stride or a month stride.
type Recurring struct {
	name   string
	amount decimal.Decimal
	rate   InterestRate
	start  time.Time
	end    *time.Time
	tax    TaxPolicy

	strideDays   int // >0 for day-based cadences
	strideMonths int // >0 for month-based cadences
}

// NewTransaction builds a recurring transaction from a validated spec.
func NewTransaction(spec TransactionSpec) (*Recurring, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("transaction has no name")
	}
	if spec.Amount == nil {
		return nil, fmt.Errorf("transaction %q has no amount", spec.Name)
	}
	every := spec.EveryXPeriods
	if every == 0 {
		every = 1
	}
	if every < 0 {
		return nil, fmt.Errorf("transaction %q: every_x_periods must be positive, got %d", spec.Name, every)
	}

	t := &Recurring{
		name:   spec.Name,
		amount: Cents(*spec.Amount),
		rate:   NewInterestRate(spec.InterestRate),
		start:  spec.StartDate,
		end:    spec.EndDate,
		tax:    spec.TaxRate,
	}
	if t.start.IsZero() {
		now := time.Now().UTC()
		t.start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if t.tax == nil {
		t.tax = ZeroTaxRate()
	}

	switch spec.Frequency {
	case Daily:
		t.strideDays = every
	case Weekly:
		t.strideDays = every * 7
	case BiWeekly:
		t.strideDays = every * 14
	case Monthly:
		t.strideMonths = every
	case Yearly:
		t.strideMonths = every * 12
	default:
		return nil, fmt.Errorf("transaction %q has unknown frequency %v", spec.Name, spec.Frequency)
	}
	if t.strideMonths > 0 && t.start.Day() > 28 {
		return nil, fmt.Errorf("%s transactions must start on day 1-28, %q starts on day %d",
			spec.Frequency, spec.Name, t.start.Day())
	}
	return t, nil
}

func (t *Recurring) Name() string { return t.name }

// Amount returns the nominal per-occurrence amount.
func (t *Recurring) Amount() decimal.Decimal { return t.amount }

// StartDate returns the first date the transaction can fire.
func (t *Recurring) StartDate() time.Time { return t.start }

// Active reports whether the date falls inside the transaction's validity
// window.
func (t *Recurring) Active(date time.Time) bool {
	if date.Before(t.start) {
		return false
	}
	if t.end != nil && date.After(*t.end) {
		return false
	}
	return true
}

// Cost returns the cash flow the transaction produces on date, zero when the
// cadence does not land on it. relativeDate is the simulation start, the
// baseline for interest growth of the nominal amount.
func (t *Recurring) Cost(date, relativeDate time.Time) decimal.Decimal {
	if !t.Active(date) {
		return decimal.Zero
	}
	if t.strideMonths > 0 {
		if date.Day() != t.start.Day() {
			return decimal.Zero
		}
		if (MonthIndex(date)-MonthIndex(t.start))%t.strideMonths != 0 {
			return decimal.Zero
		}
		return t.Value(date, relativeDate)
	}
	if DaysBetween(t.start, date)%t.strideDays != 0 {
		return decimal.Zero
	}
	return t.Value(date, relativeDate)
}

// Value is the nominal amount grown by simple daily interest since
// relativeDate.
func (t *Recurring) Value(date, relativeDate time.Time) decimal.Decimal {
	days := decimal.NewFromInt(int64(DaysBetween(relativeDate, date)))
	return Cents(t.amount.Mul(one.Add(t.rate.Day().Mul(days))))
}

// Tax returns the tax owed on an executed cost.
func (t *Recurring) Tax(date time.Time, amount decimal.Decimal) decimal.Decimal {
	return t.tax.AdditionalTaxes(amount, date)
}
