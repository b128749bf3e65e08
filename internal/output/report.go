package output

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fpgo/finplan/internal/domain"
	"github.com/fpgo/finplan/internal/ledger"
)

// RunReport is the run.yml summary written next to the CSV exports.
type RunReport struct {
	StartDate     string  `yaml:"start_date"`
	EndDate       string  `yaml:"end_date"`
	DaysSimulated int     `yaml:"days_simulated"`
	Bankrupt      bool    `yaml:"bankrupt"`
	BankruptDate  *string `yaml:"bankrupt_date,omitempty"`
}

// NewRunReport summarizes a simulation result.
func NewRunReport(result *ledger.Result) RunReport {
	report := RunReport{
		StartDate:     domain.FormatDate(result.StartDate),
		EndDate:       domain.FormatDate(result.EndDate),
		DaysSimulated: result.DaysSimulated,
		Bankrupt:      result.Bankrupt,
	}
	if result.BankruptDate != nil {
		date := domain.FormatDate(*result.BankruptDate)
		report.BankruptDate = &date
	}
	return report
}

// ResultsWriter writes every export for one run into a results directory.
type ResultsWriter struct {
	Dir string

	// WithChart additionally renders balances.png from the state log.
	WithChart bool
}

// Write recreates the results directory and fills it with transactions.csv,
// monthly_transactions.csv, monthly_account_state.csv, run.yml, and
// optionally balances.png.
func (rw *ResultsWriter) Write(bank *ledger.Bank, result *ledger.Result) error {
	if err := os.RemoveAll(rw.Dir); err != nil {
		return fmt.Errorf("failed to clear results dir %s: %w", rw.Dir, err)
	}
	if err := os.MkdirAll(rw.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create results dir %s: %w", rw.Dir, err)
	}

	if err := rw.writeFile("transactions.csv", func(f *os.File) error {
		return WriteTransactions(f, bank.TransactionLog)
	}); err != nil {
		return err
	}
	if err := rw.writeFile("monthly_transactions.csv", func(f *os.File) error {
		return WriteMonthlyTransactions(f, bank.TransactionLog)
	}); err != nil {
		return err
	}
	if err := rw.writeFile("monthly_account_state.csv", func(f *os.File) error {
		return WriteMonthlyAccountState(f, bank.StateLog)
	}); err != nil {
		return err
	}

	report, err := yaml.Marshal(NewRunReport(result))
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(rw.Dir, "run.yml"), report, 0o644); err != nil {
		return fmt.Errorf("failed to write run.yml: %w", err)
	}

	if rw.WithChart {
		png, err := RenderBalanceChart(bank.StateLog)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(rw.Dir, "balances.png"), png, 0o644); err != nil {
			return fmt.Errorf("failed to write balances.png: %w", err)
		}
	}
	return nil
}

func (rw *ResultsWriter) writeFile(name string, write func(*os.File) error) error {
	f, err := os.Create(filepath.Join(rw.Dir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return f.Close()
}
