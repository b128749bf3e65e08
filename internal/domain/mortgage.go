package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ComputePayment returns the fixed monthly payment P*i / (1-(1+i)^-n) for a
// loan of the given principal at a monthly rate over n terms, rounded to
// cents. The formula is evaluated in floating point and quantized once,
// matching the published amortization fixtures. A zero rate degenerates the
// formula to 0/0, so an interest-free loan pays straight principal/terms.
func ComputePayment(principal, monthlyRate decimal.Decimal, terms int) decimal.Decimal {
	if monthlyRate.IsZero() {
		return Cents(principal.Div(decimal.NewFromInt(int64(terms))))
	}
	p := principal.InexactFloat64()
	i := monthlyRate.InexactFloat64()
	payment := (p * i) / (1 - math.Pow(1+i, float64(-terms)))
	return Cents(decimal.NewFromFloat(payment))
}

// MortgageSide distinguishes the two transactions an amortizing loan
// produces each month.
type MortgageSide int

const (
	// PayerSide lives on the paying account and charges the full payment.
	PayerSide MortgageSide = iota + 1
	// PrincipalSide lives on the mortgage account and credits the principal
	// portion, walking the (negative) loan balance toward zero.
	PrincipalSide
)

// MortgageSpec is the validated configuration for one amortizing loan.
type MortgageSpec struct {
	Name             string
	LoanAmount       decimal.Decimal
	RemainingBalance decimal.Decimal
	Terms            int
	InterestRate     decimal.Decimal // annual
	ExtraPrincipal   decimal.Decimal
	StartDate        time.Time
	EndDate          *time.Time // rejected; mortgages run until paid off
}

// MortgageTransaction is a monthly amortizing loan transaction. Costing a
// payment date splits the fixed payment into interest and principal and
// advances the outstanding balance, so it must be costed exactly once per
// simulated day. The payer and principal sides are constructed with
// independent copies of the loan state; both are evaluated on the same day
// and stay in lockstep.
type MortgageTransaction struct {
	name      string
	start     time.Time
	rate      InterestRate
	payment   decimal.Decimal
	remaining decimal.Decimal
	side      MortgageSide
}

// NewMortgageTransaction builds one side of a mortgage from a validated
// spec.
func NewMortgageTransaction(spec MortgageSpec, side MortgageSide) (*MortgageTransaction, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("mortgage transaction has no name")
	}
	if spec.EndDate != nil {
		return nil, fmt.Errorf("mortgages cannot have an end date (%s)", spec.Name)
	}
	if spec.Terms <= 0 {
		return nil, fmt.Errorf("mortgage %q: terms must be positive, got %d", spec.Name, spec.Terms)
	}
	if spec.InterestRate.IsNegative() {
		return nil, fmt.Errorf("mortgage %q: interest rate cannot be negative", spec.Name)
	}
	start := spec.StartDate
	if start.IsZero() {
		now := time.Now().UTC()
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if start.Day() > 28 {
		return nil, fmt.Errorf("monthly transactions must start on day 1-28, %q starts on day %d",
			spec.Name, start.Day())
	}

	rate := NewInterestRate(spec.InterestRate)
	return &MortgageTransaction{
		name:      spec.Name,
		start:     start,
		rate:      rate,
		payment:   ComputePayment(spec.LoanAmount, rate.Month(), spec.Terms).Add(spec.ExtraPrincipal),
		remaining: Cents(spec.RemainingBalance),
		side:      side,
	}, nil
}

func (m *MortgageTransaction) Name() string { return m.name }

// Payment returns the fixed monthly payment including any extra principal.
func (m *MortgageTransaction) Payment() decimal.Decimal { return m.payment }

// RemainingBalance returns the outstanding principal.
func (m *MortgageTransaction) RemainingBalance() decimal.Decimal { return m.remaining }

// Active reports whether the loan has started. Mortgages have no end date;
// they go quiet once the balance reaches zero.
func (m *MortgageTransaction) Active(date time.Time) bool {
	return !date.Before(m.start)
}

// InterestPayment is this month's interest portion of the fixed payment.
func (m *MortgageTransaction) InterestPayment() decimal.Decimal {
	return Cents(m.rate.Month().Mul(m.remaining))
}

// PrincipalPayment is this month's principal portion of the fixed payment.
func (m *MortgageTransaction) PrincipalPayment() decimal.Decimal {
	return m.payment.Sub(m.InterestPayment())
}

// Cost advances the amortization schedule when date is a payment date.
func (m *MortgageTransaction) Cost(date, _ time.Time) decimal.Decimal {
	if !m.Active(date) {
		return decimal.Zero
	}
	if date.Day() != m.start.Day() {
		return decimal.Zero
	}
	return m.advance()
}

func (m *MortgageTransaction) advance() decimal.Decimal {
	if m.remaining.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if m.remaining.GreaterThan(m.payment) {
		principal := m.PrincipalPayment()
		m.remaining = m.remaining.Sub(principal)
		if m.side == PayerSide {
			return m.payment.Neg()
		}
		return principal
	}
	// Final payment: pay off whatever is left. Both sides report the
	// positive remainder; the principal side's credit drives the mortgage
	// account balance to exactly 0.
	payoff := m.remaining
	m.remaining = decimal.Zero
	return payoff
}

// Tax is always zero; mortgage cash flows are not taxable events.
func (m *MortgageTransaction) Tax(_ time.Time, _ decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}
