// Package config parses YAML financial plans into a fully wired Bank.
// Everything loose in the file format is resolved here, once, into typed
// values; the simulation core never sees configuration data.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fpgo/finplan/internal/domain"
	"github.com/fpgo/finplan/internal/ledger"
)

// FileConfig is the top-level YAML document.
type FileConfig struct {
	Accounts           []AccountConfig  `yaml:"accounts"`
	RetirementAccounts []AccountConfig  `yaml:"retirement_accounts"`
	Mortgages          []MortgageConfig `yaml:"mortgages"`
}

// AccountConfig is one account entry. Transactions are grouped by
// income/expense and then by frequency label; transfers are income-shaped
// entries that also debit a named source account.
type AccountConfig struct {
	Name                 string                         `yaml:"name"`
	Balance              string                         `yaml:"balance"`
	InterestRate         string                         `yaml:"interest_rate"`
	AllowAutoWithdrawal  *bool                          `yaml:"allow_auto_withdrawal"`
	WithdrawalTaxRate    string                         `yaml:"withdrawal_tax_rate"`
	Transactions         TransactionGroups              `yaml:"transactions"`
	Transfers            map[string][]TransactionConfig `yaml:"transfers"`
	ExternalTransactions []ExternalTransactionsConfig   `yaml:"external_transactions"`
}

// TransactionGroups splits entries into income and expense maps keyed by
// frequency label (daily, weekly, biweekly, monthly, yearly).
type TransactionGroups struct {
	Income  map[string][]TransactionConfig `yaml:"income"`
	Expense map[string][]TransactionConfig `yaml:"expense"`
}

// TransactionConfig is one recurring transaction entry.
type TransactionConfig struct {
	Name          string `yaml:"name"`
	Amount        string `yaml:"amount"`
	InterestRate  string `yaml:"interest_rate"`
	StartDate     string `yaml:"start_date"`
	EndDate       string `yaml:"end_date"`
	EveryXPeriods int    `yaml:"every_x_periods"`
	TaxRate       string `yaml:"tax_rate"`
	Source        string `yaml:"source"` // transfers only
}

// ExternalTransactionsConfig points at a CSV whose rows become
// transactions, with the entry's fields as per-row defaults.
type ExternalTransactionsConfig struct {
	Path         string `yaml:"path"`
	Frequency    string `yaml:"frequency"`
	InterestRate string `yaml:"interest_rate"`
	TaxRate      string `yaml:"tax_rate"`
}

// MortgageConfig is one amortizing loan entry. It produces a mortgage debt
// account plus the paired payment transaction on the paying account.
type MortgageConfig struct {
	Name             string `yaml:"name"`
	PaidFrom         string `yaml:"paid_from"`
	LoanAmount       string `yaml:"loan_amount"`
	RemainingBalance string `yaml:"remaining_balance"`
	Terms            int    `yaml:"terms"`
	InterestRate     string `yaml:"interest_rate"`
	ExtraPrincipal   string `yaml:"extra_principal"`
	StartDate        string `yaml:"start_date"`
}

// frequencyLabels fixes the order groups are walked so a plan always builds
// the same transaction list.
var frequencyLabels = []string{"daily", "weekly", "biweekly", "monthly", "yearly"}

// InputParser loads plan files and builds Banks from them.
type InputParser struct {
	// baseDir anchors relative external-transaction paths.
	baseDir string
}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile reads, templates, parses, and validates a plan file and
// returns the fully wired Bank.
func (ip *InputParser) LoadFromFile(filename string) (*ledger.Bank, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	ip.baseDir = filepath.Dir(filename)
	return ip.LoadFromBytes(data)
}

// LoadFromBytes is LoadFromFile for in-memory documents.
func (ip *InputParser) LoadFromBytes(data []byte) (*ledger.Bank, error) {
	filled, err := FillPlaceholders(string(data))
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader([]byte(filled)))
	dec.KnownFields(true)
	var cfg FileConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return ip.BuildBank(&cfg)
}

// BuildBank turns a parsed configuration into a Bank. Account order in the
// file is preserved (mortgage accounts append after all others) because it
// fixes both daily processing order and the donor search order for
// overdraft resolution.
func (ip *InputParser) BuildBank(cfg *FileConfig) (*ledger.Bank, error) {
	if len(cfg.Accounts) == 0 {
		return nil, fmt.Errorf("at least 1 account must be present in the configuration")
	}

	var accounts []*domain.Account
	accountMap := make(map[string]*domain.Account)
	for _, group := range []struct {
		kind    domain.AccountKind
		entries []AccountConfig
	}{
		{domain.Standard, cfg.Accounts},
		{domain.Retirement, cfg.RetirementAccounts},
	} {
		for _, entry := range group.entries {
			if _, exists := accountMap[entry.Name]; exists {
				return nil, fmt.Errorf("duplicate account name %q", entry.Name)
			}
			account, err := ip.buildAccount(entry, group.kind, accountMap)
			if err != nil {
				return nil, err
			}
			accounts = append(accounts, account)
			accountMap[account.Name] = account
		}
	}

	for _, entry := range cfg.Mortgages {
		if _, exists := accountMap[entry.Name]; exists {
			return nil, fmt.Errorf("duplicate account name %q", entry.Name)
		}
		mortgage, err := ip.buildMortgage(entry, accountMap)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, mortgage)
		accountMap[mortgage.Name] = mortgage
	}

	return ledger.NewBank(accounts)
}

func (ip *InputParser) buildAccount(entry AccountConfig, kind domain.AccountKind, accountMap map[string]*domain.Account) (*domain.Account, error) {
	if entry.Name == "" {
		return nil, fmt.Errorf("account has no name")
	}
	balance, err := parseOptionalAmount(entry.Balance)
	if err != nil {
		return nil, fmt.Errorf("account %q: balance: %w", entry.Name, err)
	}
	rate, err := parseOptionalRate(entry.InterestRate)
	if err != nil {
		return nil, fmt.Errorf("account %q: interest_rate: %w", entry.Name, err)
	}
	withdrawalTax, err := parseTaxPolicy(entry.WithdrawalTaxRate)
	if err != nil {
		return nil, fmt.Errorf("account %q: withdrawal_tax_rate: %w", entry.Name, err)
	}
	allowAuto := true
	if entry.AllowAutoWithdrawal != nil {
		allowAuto = *entry.AllowAutoWithdrawal
	}

	var transactions []domain.Transaction
	for _, ext := range entry.ExternalTransactions {
		external, err := ip.loadExternalTransactions(entry.Name, ext)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, external...)
	}

	for _, side := range []struct {
		negate  bool
		entries map[string][]TransactionConfig
	}{
		{false, entry.Transactions.Income},
		{true, entry.Transactions.Expense},
	} {
		for _, label := range frequencyLabels {
			for _, tc := range side.entries[label] {
				if tc.Source != "" {
					return nil, fmt.Errorf("account %q: transaction %q: source is only valid under transfers", entry.Name, tc.Name)
				}
				t, err := buildTransaction(tc, label, side.negate)
				if err != nil {
					return nil, fmt.Errorf("account %q: %w", entry.Name, err)
				}
				transactions = append(transactions, t)
			}
		}
	}

	for _, label := range frequencyLabels {
		for _, tc := range entry.Transfers[label] {
			if tc.Source == "" {
				return nil, fmt.Errorf("account %q: transfer %q has no source account", entry.Name, tc.Name)
			}
			source, ok := accountMap[tc.Source]
			if !ok {
				return nil, fmt.Errorf("account %q: transfer %q references unknown account %q (sources must be declared earlier in the file)",
					entry.Name, tc.Name, tc.Source)
			}
			incoming, err := buildTransaction(tc, label, false)
			if err != nil {
				return nil, fmt.Errorf("account %q: %w", entry.Name, err)
			}
			outgoing, err := buildTransaction(tc, label, true)
			if err != nil {
				return nil, fmt.Errorf("account %q: %w", entry.Name, err)
			}
			transactions = append(transactions, incoming)
			source.Transactions = append(source.Transactions, outgoing)
		}
	}

	return domain.NewAccount(domain.AccountSpec{
		Name:                entry.Name,
		Balance:             balance,
		InterestRate:        rate,
		Transactions:        transactions,
		AllowAutoWithdrawal: allowAuto,
		WithdrawalTaxRate:   withdrawalTax,
		Kind:                kind,
	})
}

func (ip *InputParser) buildMortgage(entry MortgageConfig, accountMap map[string]*domain.Account) (*domain.Account, error) {
	if entry.Name == "" {
		return nil, fmt.Errorf("mortgage has no name")
	}
	payer, ok := accountMap[entry.PaidFrom]
	if !ok {
		return nil, fmt.Errorf("mortgage %q: paid_from references unknown account %q", entry.Name, entry.PaidFrom)
	}
	loanAmount, err := parseOptionalAmount(entry.LoanAmount)
	if err != nil {
		return nil, fmt.Errorf("mortgage %q: loan_amount: %w", entry.Name, err)
	}
	remaining, err := parseOptionalAmount(entry.RemainingBalance)
	if err != nil {
		return nil, fmt.Errorf("mortgage %q: remaining_balance: %w", entry.Name, err)
	}
	rate, err := parseOptionalRate(entry.InterestRate)
	if err != nil {
		return nil, fmt.Errorf("mortgage %q: interest_rate: %w", entry.Name, err)
	}
	extra, err := parseOptionalAmount(entry.ExtraPrincipal)
	if err != nil {
		return nil, fmt.Errorf("mortgage %q: extra_principal: %w", entry.Name, err)
	}
	var start time.Time
	if entry.StartDate != "" {
		if start, err = domain.ParseDate(entry.StartDate); err != nil {
			return nil, fmt.Errorf("mortgage %q: start_date: %w", entry.Name, err)
		}
	}

	spec := domain.MortgageSpec{
		LoanAmount:       loanAmount,
		RemainingBalance: remaining,
		Terms:            entry.Terms,
		InterestRate:     rate,
		ExtraPrincipal:   extra,
		StartDate:        start,
	}

	spec.Name = entry.Name + " Principal Reduction"
	principal, err := domain.NewMortgageTransaction(spec, domain.PrincipalSide)
	if err != nil {
		return nil, fmt.Errorf("mortgage %q: %w", entry.Name, err)
	}
	spec.Name = entry.Name + " Mortgage Payment"
	payment, err := domain.NewMortgageTransaction(spec, domain.PayerSide)
	if err != nil {
		return nil, fmt.Errorf("mortgage %q: %w", entry.Name, err)
	}
	payer.Transactions = append(payer.Transactions, payment)

	return domain.NewAccount(domain.AccountSpec{
		Name:         entry.Name,
		Balance:      remaining.Neg(),
		Transactions: []domain.Transaction{principal},
		Kind:         domain.MortgageAccount,
	})
}

func buildTransaction(tc TransactionConfig, label string, negate bool) (domain.Transaction, error) {
	frequency, err := domain.ParseFrequency(label)
	if err != nil {
		return nil, fmt.Errorf("transaction %q: %w", tc.Name, err)
	}
	if tc.Amount == "" {
		return nil, fmt.Errorf("transaction %q has no amount", tc.Name)
	}
	amount, err := domain.ParseAmount(tc.Amount)
	if err != nil {
		return nil, fmt.Errorf("transaction %q: amount: %w", tc.Name, err)
	}
	if negate {
		amount = amount.Neg()
	}
	rate, err := parseOptionalRate(tc.InterestRate)
	if err != nil {
		return nil, fmt.Errorf("transaction %q: interest_rate: %w", tc.Name, err)
	}
	tax, err := parseTaxPolicy(tc.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("transaction %q: tax_rate: %w", tc.Name, err)
	}

	spec := domain.TransactionSpec{
		Name:          tc.Name,
		Amount:        &amount,
		InterestRate:  rate,
		EveryXPeriods: tc.EveryXPeriods,
		TaxRate:       tax,
		Frequency:     frequency,
	}
	if tc.StartDate != "" {
		if spec.StartDate, err = domain.ParseDate(tc.StartDate); err != nil {
			return nil, fmt.Errorf("transaction %q: start_date: %w", tc.Name, err)
		}
	}
	if tc.EndDate != "" {
		end, err := domain.ParseDate(tc.EndDate)
		if err != nil {
			return nil, fmt.Errorf("transaction %q: end_date: %w", tc.Name, err)
		}
		spec.EndDate = &end
	}
	return domain.NewTransaction(spec)
}

// parseTaxPolicy resolves a tax_rate value: empty means no tax, "income"
// means the progressive schedule, anything else is a flat rate.
func parseTaxPolicy(value string) (domain.TaxPolicy, error) {
	switch value {
	case "":
		return domain.ZeroTaxRate(), nil
	case "income":
		return domain.NewIncomeTaxRate(), nil
	default:
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("unknown tax type %q", value)
		}
		return domain.NewConstantTaxRate(rate), nil
	}
}

func parseOptionalAmount(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return domain.ParseAmount(value)
}

func parseOptionalRate(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return domain.ParseRate(value)
}
