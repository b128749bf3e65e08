// Package output renders simulation results: flat CSV exports, monthly
// aggregations, a run summary, and an optional balance chart.
package output

import (
	"encoding/csv"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fpgo/finplan/internal/domain"
	"github.com/fpgo/finplan/internal/ledger"
)

// WriteTransactions writes the full audit trail, one ledger entry per row.
func WriteTransactions(w io.Writer, entries []domain.TransactionLog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "source", "destination", "title", "amount"}); err != nil {
		return err
	}
	for _, entry := range entries {
		row := []string{
			domain.FormatDate(entry.Date),
			entry.Source,
			entry.Destination,
			entry.Title,
			entry.Amount.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// MonthlyTotal is the sum of all ledger amounts for one destination account
// in one calendar month.
type MonthlyTotal struct {
	Month       time.Time
	Destination string
	Amount      decimal.Decimal
}

// MonthlyTransactionTotals aggregates the transaction log by month and
// destination, dropping titles.
func MonthlyTransactionTotals(entries []domain.TransactionLog) []MonthlyTotal {
	type key struct {
		month       time.Time
		destination string
	}
	totals := make(map[key]decimal.Decimal)
	for _, entry := range entries {
		k := key{domain.MonthStart(entry.Date), entry.Destination}
		totals[k] = totals[k].Add(entry.Amount)
	}

	result := make([]MonthlyTotal, 0, len(totals))
	for k, amount := range totals {
		result = append(result, MonthlyTotal{Month: k.month, Destination: k.destination, Amount: amount})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Month.Equal(result[j].Month) {
			return result[i].Month.Before(result[j].Month)
		}
		return result[i].Destination < result[j].Destination
	})
	return result
}

// WriteMonthlyTransactions writes the month-by-destination aggregation.
func WriteMonthlyTransactions(w io.Writer, entries []domain.TransactionLog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"month", "destination", "amount"}); err != nil {
		return err
	}
	for _, total := range MonthlyTransactionTotals(entries) {
		row := []string{
			domain.FormatDate(total.Month),
			total.Destination,
			total.Amount.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// MonthlyAccountStates reduces the snapshot log to the last captured
// balance per account per month, in order of first appearance.
func MonthlyAccountStates(snapshots []ledger.StateSnapshot) []ledger.StateSnapshot {
	type key struct {
		month   time.Time
		account string
	}
	last := make(map[key]ledger.StateSnapshot)
	var order []key
	for _, snap := range snapshots {
		k := key{domain.MonthStart(snap.Date), snap.Account}
		if _, seen := last[k]; !seen {
			order = append(order, k)
		}
		last[k] = snap
	}

	result := make([]ledger.StateSnapshot, 0, len(order))
	for _, k := range order {
		result = append(result, last[k])
	}
	return result
}

// WriteMonthlyAccountState writes the end-of-month balance per account.
func WriteMonthlyAccountState(w io.Writer, snapshots []ledger.StateSnapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "account", "balance"}); err != nil {
		return err
	}
	for _, snap := range MonthlyAccountStates(snapshots) {
		row := []string{
			domain.FormatDate(snap.Date),
			snap.Account,
			snap.Balance.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
