// Package backtest runs the strategy simulation over several lookback
// horizons ending at the last day of the series.
package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/indexbeat/internal/logging"
	"github.com/rustyeddy/indexbeat/signal"
	"github.com/rustyeddy/indexbeat/sim"
)

// DefaultTradingDaysPerYear converts horizon years to trading days.
const DefaultTradingDaysPerYear = 252

// Options controls RunAll.
type Options struct {
	InitialInvestment  float64
	TradingDaysPerYear int // 0 means DefaultTradingDaysPerYear

	// Parallel runs horizons concurrently. Results are identical and keep
	// the input order either way.
	Parallel bool

	Logger *slog.Logger
}

// HorizonResult is the outcome of one horizon. Err is set when the horizon
// could not be simulated; the value fields are then zero.
type HorizonResult struct {
	Years      float64
	StartIndex int
	StartDate  time.Time
	EndDate    time.Time

	BaselineFinal float64
	StrategyFinal float64
	Transactions  int
	FinalPosition sim.Position

	Trades []sim.Transaction
	Curve  []sim.Point

	Err error
}

// OK reports whether the horizon completed.
func (r HorizonResult) OK() bool { return r.Err == nil }

// Label is the horizon in years as written in reports, e.g. "0.5".
func (r HorizonResult) Label() string { return FormatYears(r.Years) }

// FormatYears renders a horizon without trailing zeros.
func FormatYears(years float64) string {
	return fmt.Sprintf("%g", years)
}

// StartIndex is the first simulated day for a horizon over n days.
func StartIndex(n int, years float64, tradingDaysPerYear int) int {
	return n - int(math.Round(years*float64(tradingDaysPerYear)))
}

// RunAll simulates each horizon independently against src, starting
// invested, and returns one result per horizon in the order given.
// Per-horizon failures are reported in HorizonResult.Err; the returned error
// is reserved for invalid arguments and cancellation.
func RunAll(ctx context.Context, src signal.Source, horizons []float64, opts Options) ([]HorizonResult, error) {
	if src == nil {
		return nil, fmt.Errorf("backtest: source is required")
	}
	if err := validateHorizons(horizons); err != nil {
		return nil, err
	}
	if opts.InitialInvestment <= 0 || math.IsNaN(opts.InitialInvestment) || math.IsInf(opts.InitialInvestment, 0) {
		return nil, fmt.Errorf("backtest: initial investment must be positive, got %v", opts.InitialInvestment)
	}
	if opts.TradingDaysPerYear == 0 {
		opts.TradingDaysPerYear = DefaultTradingDaysPerYear
	}
	if opts.TradingDaysPerYear < 0 {
		return nil, fmt.Errorf("backtest: trading days per year must be positive, got %d", opts.TradingDaysPerYear)
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	results := make([]HorizonResult, len(horizons))

	if !opts.Parallel {
		for i, h := range horizons {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = runHorizon(src, h, opts, log)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, h := range horizons {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = runHorizon(src, h, opts, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func validateHorizons(horizons []float64) error {
	if len(horizons) == 0 {
		return fmt.Errorf("backtest: at least one horizon is required")
	}
	seen := make(map[float64]bool, len(horizons))
	for _, h := range horizons {
		if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
			return fmt.Errorf("backtest: horizon must be positive, got %v", h)
		}
		if seen[h] {
			return fmt.Errorf("backtest: duplicate horizon %v", h)
		}
		seen[h] = true
	}
	return nil
}

func runHorizon(src signal.Source, years float64, opts Options, log *slog.Logger) HorizonResult {
	n := src.Len()
	start := StartIndex(n, years, opts.TradingDaysPerYear)
	res := HorizonResult{
		Years:      years,
		StartIndex: start,
		EndDate:    src.Date(n - 1),
	}
	log = log.With("years", res.Label(), "start", start)

	if start < 0 {
		res.Err = fmt.Errorf("%v years: %w: horizon spans %d days, series has %d", res.Label(), sim.ErrInsufficientHistory, n-start, n)
		log.Warn("horizon failed", "err", res.Err)
		return res
	}
	res.StartDate = src.Date(start)

	run, err := sim.Simulate(src, sim.Params{
		Start:    start,
		Initial:  opts.InitialInvestment,
		Position: sim.Invested,
	})
	if err != nil {
		res.Err = fmt.Errorf("%v years: %w", res.Label(), err)
		log.Warn("horizon failed", "err", res.Err)
		return res
	}

	for _, tr := range run.Trades {
		log.Debug("transaction",
			"side", tr.Side.String(),
			"price", tr.Price,
			"date", tr.Date.Format("2006-01-02"),
			"day", tr.Day,
		)
	}

	res.BaselineFinal = run.Final.BaselineValue
	res.StrategyFinal = run.Final.StrategyValue
	res.Transactions = run.Final.Transactions
	res.FinalPosition = run.Final.Position
	res.Trades = run.Trades
	res.Curve = run.Curve

	log.Info("horizon complete",
		"baseline", res.BaselineFinal,
		"strategy", res.StrategyFinal,
		"transactions", res.Transactions,
	)
	return res
}
