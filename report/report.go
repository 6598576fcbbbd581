// Package report turns horizon results into percent-change and
// percent-difference summaries and renders them.
package report

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/indexbeat/backtest"
	"github.com/rustyeddy/indexbeat/sim"
)

// ErrUndefinedDifference is returned when the two values sum to zero. It
// classifies as invalid data.
var ErrUndefinedDifference = fmt.Errorf("%w: percent difference of values summing to zero", sim.ErrInvalidIndicatorData)

// PercentChange is (final - initial) / initial * 100.
func PercentChange(initial, final float64) (float64, error) {
	if initial == 0 || !finite(initial) || !finite(final) {
		return 0, fmt.Errorf("percent change: invalid values initial=%v final=%v", initial, final)
	}
	return (final - initial) / initial * 100, nil
}

// PercentDifference is the symmetric relative difference of a and b:
// (a - b) / ((a + b) / 2) * 100.
func PercentDifference(a, b float64) (float64, error) {
	if !finite(a) || !finite(b) {
		return 0, fmt.Errorf("percent difference: invalid values a=%v b=%v", a, b)
	}
	if a+b == 0 {
		return 0, ErrUndefinedDifference
	}
	return (a - b) / ((a + b) / 2) * 100, nil
}

// Average returns the arithmetic mean, or 0 for no values.
func Average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// HorizonSummary is one horizon's comparison. When Err is set only Years
// and Err are meaningful.
type HorizonSummary struct {
	Years     float64
	StartDate time.Time
	EndDate   time.Time

	BaselineFinal  float64
	StrategyFinal  float64
	BaselineChange float64
	StrategyChange float64
	Difference     float64 // PercentDifference(strategy, baseline)
	Transactions   int

	Err error
}

// Label is the horizon in years, e.g. "0.5".
func (h HorizonSummary) Label() string { return backtest.FormatYears(h.Years) }

// Summary is the full comparison across horizons.
type Summary struct {
	Ticker  string
	Initial float64
	Created time.Time

	Horizons []HorizonSummary

	// MeanDifference averages Difference over successful horizons.
	MeanDifference float64
	Succeeded      int
}

// Summarize computes the comparison for every result, keeping their order.
// A horizon whose numbers cannot be compared is reported with Err instead
// of NaN values.
func Summarize(initial float64, results []backtest.HorizonResult) (Summary, error) {
	if initial <= 0 || !finite(initial) {
		return Summary{}, fmt.Errorf("summarize: initial investment must be positive, got %v", initial)
	}

	s := Summary{Initial: initial, Horizons: make([]HorizonSummary, 0, len(results))}
	var diffs []float64
	for _, r := range results {
		hs := summarizeOne(initial, r)
		if hs.Err == nil {
			diffs = append(diffs, hs.Difference)
		}
		s.Horizons = append(s.Horizons, hs)
	}
	s.Succeeded = len(diffs)
	s.MeanDifference = Average(diffs)
	return s, nil
}

func summarizeOne(initial float64, r backtest.HorizonResult) HorizonSummary {
	hs := HorizonSummary{
		Years:     r.Years,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
	if r.Err != nil {
		hs.Err = r.Err
		return hs
	}

	base, err := PercentChange(initial, r.BaselineFinal)
	if err == nil {
		hs.BaselineChange = base
		hs.StrategyChange, err = PercentChange(initial, r.StrategyFinal)
	}
	if err == nil {
		hs.Difference, err = PercentDifference(r.StrategyFinal, r.BaselineFinal)
	}
	if err != nil {
		return HorizonSummary{Years: r.Years, Err: fmt.Errorf("%s years: %w", hs.Label(), err)}
	}

	hs.BaselineFinal = r.BaselineFinal
	hs.StrategyFinal = r.StrategyFinal
	hs.Transactions = r.Transactions
	return hs
}

// Failed returns the horizons that did not complete.
func (s Summary) Failed() []HorizonSummary {
	var out []HorizonSummary
	for _, h := range s.Horizons {
		if h.Err != nil {
			out = append(out, h)
		}
	}
	return out
}

// IsUndefined reports whether err came from an undefined comparison.
func IsUndefined(err error) bool {
	return errors.Is(err, ErrUndefinedDifference)
}
