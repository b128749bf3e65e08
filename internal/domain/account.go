package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind tags the account variants. Kinds differ only in whether a
// negative balance is allowed, whether generic interest accrues, and how the
// account is categorized downstream.
type AccountKind int

const (
	// Standard accounts (checking, savings) may not go negative.
	Standard AccountKind = iota + 1
	// Retirement accounts follow standard rules; the tag exists for reporting.
	Retirement
	// Debt accounts (loans, credit) may carry a negative balance.
	Debt
	// MortgageAccount is a Debt whose interest lives in its payment
	// transaction, never in generic balance interest.
	MortgageAccount
)

func (k AccountKind) String() string {
	switch k {
	case Standard:
		return "account"
	case Retirement:
		return "retirement"
	case Debt:
		return "debt"
	case MortgageAccount:
		return "mortgage"
	default:
		return fmt.Sprintf("AccountKind(%d)", int(k))
	}
}

// AccountSpec is the validated configuration for one account.
type AccountSpec struct {
	Name                string
	Balance             decimal.Decimal
	InterestRate        decimal.Decimal // annual
	Transactions        []Transaction
	AllowAutoWithdrawal bool
	WithdrawalTaxRate   TaxPolicy
	Kind                AccountKind
}

// Account holds a balance, a default interest rate, and the transactions it
// owns. The balance is only mutated through ExecuteTransaction.
type Account struct {
	Name                string
	Balance             decimal.Decimal
	InterestRate        InterestRate
	Transactions        []Transaction
	AllowAutoWithdrawal bool
	WithdrawalTaxRate   TaxPolicy
	Kind                AccountKind
}

// NewAccount builds an account from a validated spec.
func NewAccount(spec AccountSpec) (*Account, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("account has no name")
	}
	kind := spec.Kind
	if kind == 0 {
		kind = Standard
	}
	tax := spec.WithdrawalTaxRate
	if tax == nil {
		tax = ZeroTaxRate()
	}
	return &Account{
		Name:                spec.Name,
		Balance:             Cents(spec.Balance),
		InterestRate:        NewInterestRate(spec.InterestRate),
		Transactions:        spec.Transactions,
		AllowAutoWithdrawal: spec.AllowAutoWithdrawal,
		WithdrawalTaxRate:   tax,
		Kind:                kind,
	}, nil
}

// NegativeBalanceAllowed reports whether the account may stay below zero
// after a day's processing.
func (a *Account) NegativeBalanceAllowed() bool {
	return a.Kind == Debt || a.Kind == MortgageAccount
}

// CalculateInterest returns one period of interest on the current balance.
// Mortgage accounts accrue nothing here; their interest is embedded in the
// amortized payment.
func (a *Account) CalculateInterest(unit DateUnit) decimal.Decimal {
	if a.Kind == MortgageAccount {
		return decimal.Zero
	}
	return Cents(a.Balance.Mul(a.InterestRate.Rate(unit)))
}

// ProcessTransactions costs every owned transaction for the date and posts
// the nonzero ones, each followed by its tax entry when the transaction's
// policy charges one. Entries are returned in transaction-list order.
func (a *Account) ProcessTransactions(date, relativeDate time.Time) []TransactionLog {
	var entries []TransactionLog
	for _, t := range a.Transactions {
		cost := t.Cost(date, relativeDate)
		if cost.IsZero() {
			continue
		}
		entries = append(entries, a.ExecuteTransaction(cost, t.Name(), a.Name, date, ""))
		tax := t.Tax(date, cost)
		if !tax.IsZero() {
			entries = append(entries, a.ExecuteTransaction(tax.Neg(), t.Name()+" Tax", a.Name, date, ""))
		}
	}
	return entries
}

// ExecuteTransaction applies a signed amount to the balance and returns the
// ledger entry. No sufficiency check happens here; keeping non-negative
// accounts at zero or above is the Bank's job.
func (a *Account) ExecuteTransaction(amount decimal.Decimal, description, destination string, date time.Time, source string) TransactionLog {
	a.Balance = Cents(a.Balance.Add(amount))
	return TransactionLog{
		Source:      source,
		Destination: destination,
		Title:       description,
		Amount:      amount,
		Date:        date,
	}
}
