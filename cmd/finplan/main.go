package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/fpgo/finplan/internal/config"
	"github.com/fpgo/finplan/internal/domain"
	"github.com/fpgo/finplan/internal/ledger"
	"github.com/fpgo/finplan/internal/output"
	"github.com/fpgo/finplan/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cliLogger adapts the structured logger to ledger.Logger.
type cliLogger struct {
	log *log.Logger
}

func (l cliLogger) Debugf(format string, args ...any) { l.log.Debug().Msgf(format, args...) }
func (l cliLogger) Infof(format string, args ...any)  { l.log.Info().Msgf(format, args...) }
func (l cliLogger) Warnf(format string, args ...any)  { l.log.Warn().Msgf(format, args...) }
func (l cliLogger) Errorf(format string, args ...any) { l.log.Error().Msgf(format, args...) }

func newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return &log.Logger{
		Level:  level,
		Writer: &log.ConsoleWriter{ColorOutput: true, Writer: os.Stderr},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "finplan %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

var errInterrupted = errors.New("interrupted before the simulation finished")

// runWithProgress drives the progress display while run executes in the
// background. Quitting the display early (ctrl+c) abandons the run and
// returns errInterrupted; there is no partial result to write.
func runWithProgress(totalDays int, run func(progress func(done, total int)) *ledger.Result, opts ...tea.ProgramOption) (*ledger.Result, error) {
	program := tea.NewProgram(tui.NewProgressModel(totalDays), opts...)
	results := make(chan *ledger.Result, 1)
	go func() {
		results <- run(func(done, total int) {
			program.Send(tui.DayMsg{Done: done, Total: total})
		})
		program.Send(tui.DoneMsg{})
	}()
	if _, err := program.Run(); err != nil {
		return nil, fmt.Errorf("progress display failed: %w", err)
	}
	select {
	case result := <-results:
		return result, nil
	default:
		return nil, errInterrupted
	}
}

func simulateCmd() *cobra.Command {
	var (
		outDir       string
		showProgress bool
		withChart    bool
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "simulate <plan.yml> <start-date> <end-date>",
		Short: "Run a day-by-day simulation of a financial plan",
		Long: `Simulate steps every account in the plan one calendar day at a time from
start-date (inclusive) to end-date (exclusive), resolving overdrafts by
auto-withdrawal between accounts, and writes the transaction ledger and
monthly account states to a results directory.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)

			start, err := domain.ParseDate(args[1])
			if err != nil {
				return err
			}
			end, err := domain.ParseDate(args[2])
			if err != nil {
				return err
			}
			if !end.After(start) {
				return fmt.Errorf("end date %s must be after start date %s", args[2], args[1])
			}

			planPath := args[0]
			bank, err := config.NewInputParser().LoadFromFile(planPath)
			if err != nil {
				return err
			}
			logger.Info().Int("accounts", len(bank.Accounts)).Str("plan", planPath).Msg("plan loaded")

			sim := ledger.NewSimulation(bank)
			sim.SetLogger(cliLogger{log: logger})

			var result *ledger.Result
			if showProgress {
				result, err = runWithProgress(domain.DaysBetween(start, end), func(progress func(done, total int)) *ledger.Result {
					sim.Progress = progress
					return sim.Run(start, end)
				})
				if err != nil {
					return err
				}
			} else {
				result = sim.Run(start, end)
			}

			if outDir == "" {
				stem := strings.TrimSuffix(filepath.Base(planPath), filepath.Ext(planPath))
				outDir = stem + "_results"
			}
			writer := output.ResultsWriter{Dir: outDir, WithChart: withChart}
			if err := writer.Write(bank, result); err != nil {
				return err
			}

			if result.Bankrupt {
				logger.Warn().Str("date", domain.FormatDate(*result.BankruptDate)).Msg("went bankrupt")
			}
			logger.Info().
				Int("days", result.DaysSimulated).
				Int("transactions", len(bank.TransactionLog)).
				Str("results", outDir).
				Msg("simulation finished")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "results directory (default <plan stem>_results)")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "show a progress bar while simulating")
	cmd.Flags().BoolVar(&withChart, "chart", false, "render balances.png from the account state log")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:           "finplan",
		Short:         "Discrete-time personal finance simulator",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(simulateCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
