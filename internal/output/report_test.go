package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpgo/finplan/internal/domain"
	"github.com/fpgo/finplan/internal/ledger"
)

func sampleBank() *ledger.Bank {
	return &ledger.Bank{
		TransactionLog: []domain.TransactionLog{
			{Destination: "checking", Title: "paycheck", Amount: money("2000"), Date: date(2023, time.January, 6)},
		},
		StateLog: []ledger.StateSnapshot{
			{Account: "checking", Date: date(2023, time.January, 1), Balance: money("100")},
			{Account: "checking", Date: date(2023, time.January, 2), Balance: money("2100")},
		},
	}
}

func TestResultsWriterWritesExports(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plan_results")
	rw := &ResultsWriter{Dir: dir}

	bankrupt := date(2023, time.January, 20)
	err := rw.Write(sampleBank(), &ledger.Result{
		StartDate:     date(2023, time.January, 1),
		EndDate:       date(2023, time.February, 1),
		DaysSimulated: 19,
		Bankrupt:      true,
		BankruptDate:  &bankrupt,
	})
	require.NoError(t, err)

	for _, name := range []string{"transactions.csv", "monthly_transactions.csv", "monthly_account_state.csv", "run.yml"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	assert.NoFileExists(t, filepath.Join(dir, "balances.png"), "chart is opt-in")

	report, err := os.ReadFile(filepath.Join(dir, "run.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "days_simulated: 19")
	assert.Contains(t, string(report), "bankrupt: true")
	assert.Contains(t, string(report), `bankrupt_date: "2023-01-20"`)
}

func TestResultsWriterReplacesStaleDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plan_results")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	stale := filepath.Join(dir, "leftover.csv")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	rw := &ResultsWriter{Dir: dir}
	require.NoError(t, rw.Write(sampleBank(), &ledger.Result{
		StartDate: date(2023, time.January, 1),
		EndDate:   date(2023, time.January, 2),
	}))

	assert.NoFileExists(t, stale)
}

func TestRenderBalanceChart(t *testing.T) {
	png, err := RenderBalanceChart(sampleBank().StateLog)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}

func TestRenderBalanceChartNeedsPoints(t *testing.T) {
	_, err := RenderBalanceChart(nil)
	assert.ErrorContains(t, err, "no snapshots")

	_, err = RenderBalanceChart([]ledger.StateSnapshot{
		{Account: "checking", Date: date(2023, time.January, 1), Balance: money("100")},
	})
	assert.ErrorContains(t, err, "need at least 2")
}
