// Package ledger implements the daily simulation state machine: the Bank
// that owns the accounts, its transaction and snapshot logs, and the
// Simulation driver that steps it from a start date to an end date.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fpgo/finplan/internal/domain"
)

// StateSnapshot is one row of the periodic account-state log.
type StateSnapshot struct {
	Account string          `yaml:"account" json:"account"`
	Date    time.Time       `yaml:"date" json:"date"`
	Balance decimal.Decimal `yaml:"balance" json:"balance"`
}

// BankruptError reports that a deficit or tax obligation could not be
// covered by any account with auto-withdrawal enabled and a positive
// balance. It halts the simulation; logs accumulated so far stay valid.
type BankruptError struct {
	Date    time.Time
	Account string
}

func (e *BankruptError) Error() string {
	return fmt.Sprintf("bankrupt on %s resolving %s: no accounts left with a positive balance",
		domain.FormatDate(e.Date), e.Account)
}

// Bank owns the account collection and accumulates the audit trail. The
// collection order is fixed at construction; it determines both the order
// accounts are processed each day and the donor search order for overdraft
// resolution, so it must never be reordered mid-run.
type Bank struct {
	Accounts       []*domain.Account
	TransactionLog []domain.TransactionLog
	StateLog       []StateSnapshot
}

// NewBank wraps a fixed, ordered account collection. Account names must be
// unique.
func NewBank(accounts []*domain.Account) (*Bank, error) {
	seen := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		if seen[a.Name] {
			return nil, fmt.Errorf("duplicate account name %q", a.Name)
		}
		seen[a.Name] = true
	}
	return &Bank{Accounts: accounts}, nil
}

// Account looks up an account by name.
func (b *Bank) Account(name string) (*domain.Account, bool) {
	for _, a := range b.Accounts {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// findDonor returns the first account in collection order, excluding the
// given one, that allows auto-withdrawal and holds a positive balance.
func (b *Bank) findDonor(exclude *domain.Account) (*domain.Account, bool) {
	for _, a := range b.Accounts {
		if a == exclude {
			continue
		}
		if !a.AllowAutoWithdrawal {
			continue
		}
		if a.Balance.GreaterThan(decimal.Zero) {
			return a, true
		}
	}
	return nil, false
}

// ProcessDate runs one simulated day of transactions. For each account in
// order it posts the account's own transactions, then pulls funds from
// donor accounts while the balance is negative and the account disallows
// that, then settles any taxes those withdrawals incurred. Taxes leave the
// system: their withdrawals have no deposit side and are never themselves
// taxed.
func (b *Bank) ProcessDate(date, relativeDate time.Time) error {
	for _, account := range b.Accounts {
		b.TransactionLog = append(b.TransactionLog, account.ProcessTransactions(date, relativeDate)...)

		incurredTaxes := decimal.Zero
		description := account.Name + " Low Balance Transfer"
		for account.Balance.IsNegative() && !account.NegativeBalanceAllowed() {
			donor, ok := b.findDonor(account)
			if !ok {
				return &BankruptError{Date: date, Account: account.Name}
			}
			_, taxes := b.executeTransfer(account.Balance.Abs(), donor, description, date, account)
			incurredTaxes = incurredTaxes.Add(taxes)
		}

		description += " Taxes"
		for incurredTaxes.GreaterThan(decimal.Zero) {
			donor, ok := b.findDonor(account)
			if !ok {
				return &BankruptError{Date: date, Account: account.Name}
			}
			paid, _ := b.executeTransfer(incurredTaxes, donor, description, date, nil)
			incurredTaxes = incurredTaxes.Sub(paid)
		}
	}
	return nil
}

// executeTransfer withdraws up to the requested amount from the donor,
// never more than its balance, and deposits the matching amount when a
// deposit account is given. The planned taxes come from the donor's own
// withdrawal policy, computed on the withdrawn magnitude before posting.
func (b *Bank) executeTransfer(requested decimal.Decimal, withdrawAccount *domain.Account, description string, date time.Time, depositAccount *domain.Account) (decimal.Decimal, decimal.Decimal) {
	var amount decimal.Decimal
	if withdrawAccount.Balance.GreaterThan(requested) {
		amount = requested.Neg()
	} else {
		amount = withdrawAccount.Balance.Neg()
	}
	depositAmount := amount.Neg()
	plannedTaxes := withdrawAccount.WithdrawalTaxRate.AdditionalTaxes(amount.Abs(), date)

	b.TransactionLog = append(b.TransactionLog,
		withdrawAccount.ExecuteTransaction(amount, description, withdrawAccount.Name, date, ""))
	if depositAccount != nil {
		b.TransactionLog = append(b.TransactionLog,
			depositAccount.ExecuteTransaction(depositAmount, description, depositAccount.Name, date, ""))
	}
	return depositAmount, plannedTaxes
}

// Mature accrues one day of interest on every account. The first call also
// captures the initial state, so the snapshot log always starts with the
// pre-interest opening balances.
func (b *Bank) Mature(date time.Time) {
	if len(b.StateLog) == 0 {
		b.CaptureState(date)
	}
	for _, account := range b.Accounts {
		change := account.CalculateInterest(domain.Days)
		entry := account.ExecuteTransaction(change, "interest", account.Name, date, "")
		if entry.Amount.IsZero() {
			continue
		}
		b.TransactionLog = append(b.TransactionLog, entry)
	}
	b.CaptureState(date)
}

// CaptureState appends one snapshot row per account, in collection order.
func (b *Bank) CaptureState(date time.Time) {
	for _, account := range b.Accounts {
		b.StateLog = append(b.StateLog, StateSnapshot{
			Account: account.Name,
			Date:    date,
			Balance: account.Balance,
		})
	}
}
