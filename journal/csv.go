package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// CSV journal file names inside its directory.
const (
	RunsFile     = "runs.csv"
	HorizonsFile = "horizons.csv"
	TradesFile   = "trades.csv"
	EquityFile   = "equity.csv"
)

var csvHeaders = map[string][]string{
	RunsFile:     {"run_id", "created", "ticker", "dataset", "initial", "trading_days_per_year"},
	HorizonsFile: {"run_id", "years", "start_index", "start_date", "end_date", "baseline_final", "strategy_final", "transactions", "final_position", "error"},
	TradesFile:   {"run_id", "years", "day", "date", "side", "price", "strategy_value"},
	EquityFile:   {"run_id", "years", "day", "date", "strategy", "baseline"},
}

type csvFile struct {
	f *os.File
	w *csv.Writer
}

func (c *csvFile) write(rec []string) error {
	if err := c.w.Write(rec); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

// CSV writes each record kind to its own file in a directory. Files are
// created fresh with a header row.
type CSV struct {
	runs, horizons, trades, equity *csvFile
}

func NewCSV(dir string) (*CSV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	j := &CSV{}
	targets := []struct {
		name string
		dst  **csvFile
	}{
		{RunsFile, &j.runs},
		{HorizonsFile, &j.horizons},
		{TradesFile, &j.trades},
		{EquityFile, &j.equity},
	}
	for _, tg := range targets {
		f, err := os.Create(filepath.Join(dir, tg.name))
		if err != nil {
			j.Close()
			return nil, err
		}
		cf := &csvFile{f: f, w: csv.NewWriter(f)}
		*tg.dst = cf
		if err := cf.write(csvHeaders[tg.name]); err != nil {
			j.Close()
			return nil, err
		}
	}
	return j, nil
}

func (j *CSV) RecordRun(r RunRecord) error {
	return j.runs.write([]string{
		r.RunID,
		r.Created.UTC().Format(time.RFC3339),
		r.Ticker,
		r.Dataset,
		f(r.Initial),
		strconv.Itoa(r.TradingDaysPerYear),
	})
}

func (j *CSV) RecordHorizon(h HorizonRecord) error {
	return j.horizons.write([]string{
		h.RunID,
		years(h.Years),
		strconv.Itoa(h.StartIndex),
		formatDate(h.StartDate),
		formatDate(h.EndDate),
		f(h.BaselineFinal),
		f(h.StrategyFinal),
		strconv.Itoa(h.Transactions),
		h.FinalPosition,
		h.Error,
	})
}

func (j *CSV) RecordTrade(t TradeRecord) error {
	return j.trades.write([]string{
		t.RunID,
		years(t.Years),
		strconv.Itoa(t.Day),
		formatDate(t.Date),
		t.Side,
		f(t.Price),
		f(t.StrategyValue),
	})
}

func (j *CSV) RecordEquity(e EquityRecord) error {
	return j.equity.write([]string{
		e.RunID,
		years(e.Years),
		strconv.Itoa(e.Day),
		formatDate(e.Date),
		f(e.Strategy),
		f(e.Baseline),
	})
}

// Close flushes and closes every file, returning the first error.
func (j *CSV) Close() error {
	var first error
	for _, cf := range []*csvFile{j.runs, j.horizons, j.trades, j.equity} {
		if cf == nil {
			continue
		}
		cf.w.Flush()
		if err := cf.w.Error(); err != nil && first == nil {
			first = err
		}
		if err := cf.f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func years(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
