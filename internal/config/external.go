package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fpgo/finplan/internal/domain"
)

// loadExternalTransactions reads a CSV of transaction rows and turns each
// into a transaction on the owning account. Recognized columns: name,
// amount, start_date, end_date, every_x_periods, income_or_expense. The
// YAML entry supplies the frequency and any shared defaults.
func (ip *InputParser) loadExternalTransactions(accountName string, ext ExternalTransactionsConfig) ([]domain.Transaction, error) {
	if ext.Path == "" {
		return nil, fmt.Errorf("account %q: external_transactions entry has no path", accountName)
	}
	if ext.Frequency == "" {
		return nil, fmt.Errorf("account %q: external_transactions %s has no frequency", accountName, ext.Path)
	}
	path := ext.Path
	if !filepath.IsAbs(path) && ip.baseDir != "" {
		path = filepath.Join(ip.baseDir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("account %q: external_transactions: %w", accountName, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("account %q: external_transactions %s: %w", accountName, ext.Path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("account %q: external_transactions %s has no data rows", accountName, ext.Path)
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[name] = i
	}
	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var transactions []domain.Transaction
	for n, row := range records[1:] {
		tc := TransactionConfig{
			Name:         field(row, "name"),
			Amount:       field(row, "amount"),
			StartDate:    field(row, "start_date"),
			EndDate:      field(row, "end_date"),
			InterestRate: ext.InterestRate,
			TaxRate:      ext.TaxRate,
		}
		if every := field(row, "every_x_periods"); every != "" {
			if tc.EveryXPeriods, err = strconv.Atoi(every); err != nil {
				return nil, fmt.Errorf("account %q: external_transactions %s row %d: every_x_periods: %w",
					accountName, ext.Path, n+1, err)
			}
		}
		negate := false
		switch kind := field(row, "income_or_expense"); kind {
		case "", "income":
		case "expense":
			negate = true
		default:
			return nil, fmt.Errorf("account %q: external_transactions %s row %d: unknown type %q, only income or expense allowed",
				accountName, ext.Path, n+1, kind)
		}

		t, err := buildTransaction(tc, ext.Frequency, negate)
		if err != nil {
			return nil, fmt.Errorf("account %q: external_transactions %s row %d: %w", accountName, ext.Path, n+1, err)
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}
