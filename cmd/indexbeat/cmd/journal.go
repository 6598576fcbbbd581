package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/indexbeat/backtest"
	"github.com/rustyeddy/indexbeat/journal"
	"github.com/rustyeddy/indexbeat/report"
)

func newJournalCmd(ro *rootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect runs recorded in a SQLite journal",
		Long: `List and show backtest runs recorded with --journal sqlite.

Examples:
  indexbeat journal list --db runs.db
  indexbeat journal show 01J0ABCDEF... --db runs.db --trades`,
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite journal database (default from config)")

	open := func(cmd *cobra.Command) (*journal.SQLite, error) {
		path := dbPath
		if path == "" {
			cfg, err := ro.loadConfig(cmd.Flags())
			if err != nil {
				return nil, err
			}
			path = cfg.Journal.DBPath
		}
		if path == "" {
			return nil, errors.New("no journal database: pass --db or set journal.db_path")
		}
		return journal.NewSQLite(path)
	}

	cmd.AddCommand(newJournalListCmd(open), newJournalShowCmd(open))
	return cmd
}

type openFunc func(*cobra.Command) (*journal.SQLite, error)

func newJournalListCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open(cmd)
			if err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.ListRuns()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs recorded")
				return nil
			}
			fmt.Fprintf(out, "%-26s  %-20s  %-8s  %12s  %s\n", "RUN ID", "CREATED", "TICKER", "INITIAL", "DATASET")
			for _, r := range runs {
				fmt.Fprintf(out, "%-26s  %-20s  %-8s  %12s  %s\n",
					r.RunID, r.Created.Format("2006-01-02 15:04:05"), r.Ticker, report.Money(r.Initial), r.Dataset)
			}
			return nil
		},
	}
}

func newJournalShowCmd(open openFunc) *cobra.Command {
	var trades bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the report of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open(cmd)
			if err != nil {
				return err
			}
			defer j.Close()

			run, err := j.GetRun(args[0])
			if err != nil {
				return err
			}
			horizons, err := j.ListHorizons(run.RunID)
			if err != nil {
				return err
			}

			summary, err := report.Summarize(run.Initial, horizonResults(horizons))
			if err != nil {
				return err
			}
			summary.Ticker = run.Ticker
			summary.Created = run.Created

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s (%s)\n", run.RunID, run.Dataset)
			report.Print(out, summary)

			if trades {
				return printJournalTrades(out, j, run.RunID, horizons)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&trades, "trades", false, "print every transaction")
	return cmd
}

// horizonResults rebuilds what the report needs from stored horizons.
func horizonResults(hs []journal.HorizonRecord) []backtest.HorizonResult {
	out := make([]backtest.HorizonResult, 0, len(hs))
	for _, h := range hs {
		r := backtest.HorizonResult{
			Years:         h.Years,
			StartIndex:    h.StartIndex,
			StartDate:     h.StartDate,
			EndDate:       h.EndDate,
			BaselineFinal: h.BaselineFinal,
			StrategyFinal: h.StrategyFinal,
			Transactions:  h.Transactions,
		}
		if !h.OK() {
			r.Err = errors.New(h.Error)
		}
		out = append(out, r)
	}
	return out
}

func printJournalTrades(w io.Writer, j *journal.SQLite, runID string, hs []journal.HorizonRecord) error {
	for _, h := range hs {
		if !h.OK() {
			continue
		}
		trades, err := j.ListTrades(runID, h.Years)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s years: %d transactions\n", backtest.FormatYears(h.Years), len(trades))
		for _, tr := range trades {
			verb := "Buying"
			if tr.Side == "sell" {
				verb = "Selling"
			}
			fmt.Fprintf(w, "  %s at %.2f, %s\n", verb, tr.Price, tr.Date.Format("2006-01-02"))
		}
	}
	return nil
}
