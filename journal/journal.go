// Package journal persists backtest runs: the run itself, one row per
// horizon, the transactions and the daily equity curve.
package journal

import (
	"fmt"
	"time"

	"github.com/rustyeddy/indexbeat/backtest"
	"github.com/rustyeddy/indexbeat/id"
)

const dateLayout = "2006-01-02"

// RunRecord describes one invocation over one dataset.
type RunRecord struct {
	RunID              string
	Created            time.Time
	Ticker             string
	Dataset            string
	Initial            float64
	TradingDaysPerYear int
	Config             []byte // the effective config, as YAML
}

// HorizonRecord is the outcome of one horizon. Error is empty on success.
type HorizonRecord struct {
	RunID         string
	Years         float64
	StartIndex    int
	StartDate     time.Time
	EndDate       time.Time
	BaselineFinal float64
	StrategyFinal float64
	Transactions  int
	FinalPosition string
	Error         string
}

// OK reports whether the horizon completed.
func (h HorizonRecord) OK() bool { return h.Error == "" }

type TradeRecord struct {
	RunID         string
	Years         float64
	Day           int
	Date          time.Time
	Side          string
	Price         float64
	StrategyValue float64
}

type EquityRecord struct {
	RunID    string
	Years    float64
	Day      int
	Date     time.Time
	Strategy float64
	Baseline float64
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordHorizon(HorizonRecord) error
	RecordTrade(TradeRecord) error
	RecordEquity(EquityRecord) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRun(RunRecord) error         { return nil }
func (Nop) RecordHorizon(HorizonRecord) error { return nil }
func (Nop) RecordTrade(TradeRecord) error     { return nil }
func (Nop) RecordEquity(EquityRecord) error   { return nil }
func (Nop) Close() error                      { return nil }

// RecordResults writes run and everything in results to j. A run without an
// ID gets a fresh one, which is returned.
func RecordResults(j Journal, run RunRecord, results []backtest.HorizonResult) (string, error) {
	if run.RunID == "" {
		run.RunID = id.New()
	}
	if run.Created.IsZero() {
		run.Created = time.Now().UTC()
	}
	if err := j.RecordRun(run); err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}

	for _, r := range results {
		if err := j.RecordHorizon(horizonRecord(run.RunID, r)); err != nil {
			return "", fmt.Errorf("record horizon %s: %w", r.Label(), err)
		}
		for _, tr := range r.Trades {
			err := j.RecordTrade(TradeRecord{
				RunID:         run.RunID,
				Years:         r.Years,
				Day:           tr.Day,
				Date:          tr.Date,
				Side:          tr.Side.String(),
				Price:         tr.Price,
				StrategyValue: tr.StrategyValue,
			})
			if err != nil {
				return "", fmt.Errorf("record trade: %w", err)
			}
		}
		for _, p := range r.Curve {
			err := j.RecordEquity(EquityRecord{
				RunID:    run.RunID,
				Years:    r.Years,
				Day:      p.Day,
				Date:     p.Date,
				Strategy: p.Strategy,
				Baseline: p.Baseline,
			})
			if err != nil {
				return "", fmt.Errorf("record equity: %w", err)
			}
		}
	}
	return run.RunID, nil
}

func horizonRecord(runID string, r backtest.HorizonResult) HorizonRecord {
	h := HorizonRecord{
		RunID:      runID,
		Years:      r.Years,
		StartIndex: r.StartIndex,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
	}
	if r.Err != nil {
		h.Error = r.Err.Error()
		return h
	}
	h.BaselineFinal = r.BaselineFinal
	h.StrategyFinal = r.StrategyFinal
	h.Transactions = r.Transactions
	h.FinalPosition = r.FinalPosition.String()
	return h
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}
