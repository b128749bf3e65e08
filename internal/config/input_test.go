package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpgo/finplan/internal/domain"
)

const fullPlan = `
accounts:
  - name: checking
    balance: "2500.00"
    transactions:
      income:
        biweekly:
          - name: paycheck
            amount: "2000"
            start_date: 2023-01-06
            tax_rate: income
      expense:
        monthly:
          - name: rent
            amount: "1200"
            start_date: 2023-01-01
  - name: savings
    balance: "10000"
    interest_rate: "0.04"
    transfers:
      monthly:
        - name: rainy day
          amount: "500"
          start_date: 2023-01-01
          source: checking
retirement_accounts:
  - name: 401k
    balance: "50000"
    interest_rate: "0.07"
    withdrawal_tax_rate: "0.15"
    allow_auto_withdrawal: false
mortgages:
  - name: home
    paid_from: checking
    loan_amount: "460000"
    remaining_balance: "460000"
    terms: 240
    interest_rate: "0.0299"
    start_date: 2023-01-15
`

func TestLoadFullPlan(t *testing.T) {
	bank, err := NewInputParser().LoadFromBytes([]byte(fullPlan))
	require.NoError(t, err)

	// File order is preserved; mortgage accounts land last.
	require.Len(t, bank.Accounts, 4)
	checking, savings, retirement, home := bank.Accounts[0], bank.Accounts[1], bank.Accounts[2], bank.Accounts[3]

	assert.Equal(t, "checking", checking.Name)
	assert.Equal(t, domain.Standard, checking.Kind)
	assert.True(t, checking.AllowAutoWithdrawal, "auto-withdrawal defaults on")
	assert.Equal(t, "2500.00", checking.Balance.StringFixed(2))

	// Own transactions first, then the transfer's outgoing side, then the
	// mortgage payment.
	require.Len(t, checking.Transactions, 4)
	assert.Equal(t, "paycheck", checking.Transactions[0].Name())
	assert.Equal(t, "rent", checking.Transactions[1].Name())
	assert.Equal(t, "rainy day", checking.Transactions[2].Name())
	assert.Equal(t, "home Mortgage Payment", checking.Transactions[3].Name())

	outgoing, ok := checking.Transactions[2].(*domain.Recurring)
	require.True(t, ok)
	assert.Equal(t, "-500.00", outgoing.Amount().StringFixed(2))

	assert.Equal(t, "savings", savings.Name)
	require.Len(t, savings.Transactions, 1)
	incoming, ok := savings.Transactions[0].(*domain.Recurring)
	require.True(t, ok)
	assert.Equal(t, "500.00", incoming.Amount().StringFixed(2))

	assert.Equal(t, "401k", retirement.Name)
	assert.Equal(t, domain.Retirement, retirement.Kind)
	assert.False(t, retirement.AllowAutoWithdrawal)

	assert.Equal(t, "home", home.Name)
	assert.Equal(t, domain.MortgageAccount, home.Kind)
	assert.Equal(t, "-460000.00", home.Balance.StringFixed(2))
	require.Len(t, home.Transactions, 1)
	assert.Equal(t, "home Principal Reduction", home.Transactions[0].Name())
}

func TestLoadRejectsEmptyPlan(t *testing.T) {
	_, err := NewInputParser().LoadFromBytes([]byte("accounts: []"))
	assert.ErrorContains(t, err, "at least 1 account")
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := NewInputParser().LoadFromBytes([]byte(`
accounts:
  - name: checking
    ballance: "100"
`))
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestLoadRejectsDuplicateNames(t *testing.T) {
	_, err := NewInputParser().LoadFromBytes([]byte(`
accounts:
  - name: checking
retirement_accounts:
  - name: checking
`))
	assert.ErrorContains(t, err, `duplicate account name "checking"`)
}

func TestTransferSourceMustBeDeclaredEarlier(t *testing.T) {
	_, err := NewInputParser().LoadFromBytes([]byte(`
accounts:
  - name: savings
    transfers:
      monthly:
        - name: rainy day
          amount: "500"
          start_date: 2023-01-01
          source: checking
  - name: checking
`))
	assert.ErrorContains(t, err, "declared earlier")
}

func TestSourceOnlyValidUnderTransfers(t *testing.T) {
	_, err := NewInputParser().LoadFromBytes([]byte(`
accounts:
  - name: checking
    transactions:
      income:
        monthly:
          - name: paycheck
            amount: "2000"
            start_date: 2023-01-01
            source: savings
`))
	assert.ErrorContains(t, err, "source is only valid under transfers")
}

func TestUnknownTaxType(t *testing.T) {
	_, err := NewInputParser().LoadFromBytes([]byte(`
accounts:
  - name: checking
    withdrawal_tax_rate: capital-gains
`))
	assert.ErrorContains(t, err, `unknown tax type "capital-gains"`)
}

func TestMortgageUnknownPayer(t *testing.T) {
	_, err := NewInputParser().LoadFromBytes([]byte(`
accounts:
  - name: checking
mortgages:
  - name: home
    paid_from: junk
    loan_amount: "460000"
    remaining_balance: "460000"
    terms: 240
    interest_rate: "0.0299"
    start_date: 2023-01-15
`))
	assert.ErrorContains(t, err, `references unknown account "junk"`)
}

func TestLoadExternalTransactions(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "side_income.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"name,amount,start_date,every_x_periods,income_or_expense\n"+
			"consulting,1500.00,2023-01-02,1,income\n"+
			"gym,50,2023-01-03,,expense\n"), 0o644))

	planPath := filepath.Join(dir, "plan.yml")
	require.NoError(t, os.WriteFile(planPath, []byte(`
accounts:
  - name: checking
    external_transactions:
      - path: side_income.csv
        frequency: monthly
`), 0o644))

	bank, err := NewInputParser().LoadFromFile(planPath)
	require.NoError(t, err)

	checking := bank.Accounts[0]
	require.Len(t, checking.Transactions, 2)

	consulting := checking.Transactions[0].(*domain.Recurring)
	assert.Equal(t, "consulting", consulting.Name())
	assert.Equal(t, "1500.00", consulting.Amount().StringFixed(2))

	gym := checking.Transactions[1].(*domain.Recurring)
	assert.Equal(t, "-50.00", gym.Amount().StringFixed(2))
}

func TestExternalTransactionsRejectUnknownKind(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "rows.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"name,amount,start_date,income_or_expense\n"+
			"junk,10,2023-01-02,sideways\n"), 0o644))
	planPath := filepath.Join(dir, "plan.yml")
	require.NoError(t, os.WriteFile(planPath, []byte(`
accounts:
  - name: checking
    external_transactions:
      - path: rows.csv
        frequency: monthly
`), 0o644))

	_, err := NewInputParser().LoadFromFile(planPath)
	assert.ErrorContains(t, err, "only income or expense allowed")
}
