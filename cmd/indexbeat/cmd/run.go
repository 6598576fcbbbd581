package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rustyeddy/indexbeat/backtest"
	"github.com/rustyeddy/indexbeat/config"
	"github.com/rustyeddy/indexbeat/indicators"
	"github.com/rustyeddy/indexbeat/journal"
	"github.com/rustyeddy/indexbeat/market"
	"github.com/rustyeddy/indexbeat/report"
)

type runOptions struct {
	DataPath    string
	Format      string
	Ticker      string
	Initial     float64
	Horizons    []float64
	Parallel    bool
	JournalType string
	JournalDir  string
	DBPath      string
	OrgPath     string
	Trades      bool
}

func newRunCmd(ro *rootOptions) *cobra.Command {
	o := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the strategy over every horizon and compare with buy-and-hold",
		Long: `Load daily bars, compute the indicators, simulate each horizon and
print the percent change of the strategy and of buy-and-hold.

Horizons that cannot be simulated (not enough history, bad data) are
reported as failures; the others still run.

Examples:
  indexbeat run --data VOO.csv
  indexbeat run -c backtest.yaml --horizons 1,5,10 --trades
  indexbeat run --data VOO.parquet --journal sqlite --db runs.db --org report.org`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBacktest(cmd, ro, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.DataPath, "data", "d", "", "daily bars file (csv or parquet)")
	f.StringVar(&o.Format, "format", "", "bars format: csv|parquet (default by extension)")
	f.StringVarP(&o.Ticker, "ticker", "t", "", "ticker symbol")
	f.Float64Var(&o.Initial, "initial", 0, "initial investment")
	f.Float64SliceVar(&o.Horizons, "horizons", nil, "horizons in years, e.g. 0.5,1,2,3")
	f.BoolVar(&o.Parallel, "parallel", false, "simulate horizons concurrently")
	f.StringVar(&o.JournalType, "journal", "", "journal type: none|csv|sqlite")
	f.StringVar(&o.JournalDir, "journal-dir", "", "directory for the CSV journal")
	f.StringVar(&o.DBPath, "db", "", "SQLite journal database")
	f.StringVar(&o.OrgPath, "org", "", "also write an Org-mode report to this file")
	f.BoolVar(&o.Trades, "trades", false, "print every transaction")
	return cmd
}

// apply copies the flags that were set over cfg.
func (o *runOptions) apply(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("data") {
		cfg.Data.Path = o.DataPath
	}
	if flags.Changed("format") {
		cfg.Data.Format = o.Format
	}
	if flags.Changed("ticker") {
		cfg.Ticker = o.Ticker
	}
	if flags.Changed("initial") {
		cfg.Simulation.InitialInvestment = o.Initial
	}
	if flags.Changed("horizons") {
		cfg.Simulation.Horizons = o.Horizons
	}
	if flags.Changed("parallel") {
		cfg.Simulation.Parallel = o.Parallel
	}
	if flags.Changed("journal") {
		cfg.Journal.Type = o.JournalType
	}
	if flags.Changed("journal-dir") {
		cfg.Journal.Dir = o.JournalDir
	}
	if flags.Changed("db") {
		cfg.Journal.DBPath = o.DBPath
	}
}

func runBacktest(cmd *cobra.Command, ro *rootOptions, o *runOptions) error {
	cfg, err := ro.loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	o.apply(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	log, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	bars, err := market.Load(cfg.Data.Path, cfg.Data.Format, cfg.Ticker)
	if err != nil {
		return err
	}
	log.Info("loaded bars",
		"ticker", bars.Ticker,
		"days", bars.Len(),
		"first", bars.First().Date.Format(market.DateLayout),
		"last", bars.Last().Date.Format(market.DateLayout),
	)

	if gs := bars.Stats(); gs.SuspiciousGaps > 0 {
		log.Warn("bars have gaps",
			"gaps", gs.GapCount,
			"suspicious", gs.SuspiciousGaps,
			"longest", gs.LongestGap,
			"longest_after", gs.LongestGapAt.Format(market.DateLayout),
		)
	} else {
		log.Debug("bar gaps", "gaps", gs.GapCount, "holidays", gs.HolidayGaps)
	}

	params := cfg.Indicators.Params()
	frame, err := indicators.Annotate(bars, params)
	if err != nil {
		return fmt.Errorf("annotate: %w", err)
	}
	log.Debug("annotated", "warmup", params.Warmup())

	results, err := backtest.RunAll(cmd.Context(), frame, cfg.Simulation.Horizons, backtest.Options{
		InitialInvestment:  cfg.Simulation.InitialInvestment,
		TradingDaysPerYear: cfg.Simulation.TradingDaysPerYear,
		Parallel:           cfg.Simulation.Parallel,
		Logger:             log,
	})
	if err != nil {
		return err
	}

	summary, err := report.Summarize(cfg.Simulation.InitialInvestment, results)
	if err != nil {
		return err
	}
	summary.Ticker = cfg.Ticker
	summary.Created = time.Now()

	out := cmd.OutOrStdout()
	report.Print(out, summary)
	if o.Trades {
		for _, r := range results {
			if r.OK() {
				report.PrintTrades(out, r.Label(), r.Trades)
			}
		}
		fmt.Fprintln(out)
	}

	if o.OrgPath != "" {
		err := writeFile(o.OrgPath, func(w io.Writer) error { return report.WriteOrg(w, summary) })
		if err != nil {
			return fmt.Errorf("write org report: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote Org report: %s\n", o.OrgPath)
	}

	if cfg.Journal.Type == "" || cfg.Journal.Type == "none" {
		return nil
	}
	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	raw, err := cfg.YAML()
	if err != nil {
		j.Close()
		return err
	}
	runID, err := journal.RecordResults(j, journal.RunRecord{
		Created:            summary.Created.UTC(),
		Ticker:             cfg.Ticker,
		Dataset:            bars.Source,
		Initial:            cfg.Simulation.InitialInvestment,
		TradingDaysPerYear: cfg.Simulation.TradingDaysPerYear,
		Config:             raw,
	}, results)
	if err != nil {
		j.Close()
		return err
	}
	if err := j.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	log.Info("journaled run", "run_id", runID, "journal", cfg.Journal.Type)
	fmt.Fprintf(out, "✓ Recorded run %s (%s)\n", runID, cfg.Journal.Type)
	return nil
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		j, err := journal.NewCSV(jc.Dir)
		if err != nil {
			return nil, err
		}
		return j, nil
	case "sqlite":
		j, err := journal.NewSQLite(jc.DBPath)
		if err != nil {
			return nil, err
		}
		return j, nil
	default:
		return journal.Nop{}, nil
	}
}
