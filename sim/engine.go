// Package sim walks an indicator series day by day, switching between
// invested and cash according to the signal predicates, and tracks the
// strategy against an always-invested baseline.
package sim

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/indexbeat/signal"
)

// Position is the strategy's exposure at the close of a day.
type Position int8

const (
	Invested Position = iota
	Uninvested
)

func (p Position) String() string {
	if p == Invested {
		return "invested"
	}
	return "uninvested"
}

// Side is the direction of a position flip.
type Side int8

const (
	Buy Side = iota + 1
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// State is the mutable bookkeeping of one run.
type State struct {
	Position      Position
	StrategyValue float64
	BaselineValue float64
	Transactions  int
}

// Transaction is one executed buy or sell, filled at the day's close.
type Transaction struct {
	Day           int
	Date          time.Time
	Side          Side
	Price         float64
	StrategyValue float64
}

// Point is the portfolio values after a day has been processed.
type Point struct {
	Day      int
	Date     time.Time
	Strategy float64
	Baseline float64
}

// Params configures a single walk.
type Params struct {
	Start    int      // first simulated day; Start-1 supplies the prior close
	Initial  float64  // starting value of both portfolios
	Position Position // position held going into Start
}

// Run is the outcome of a completed walk.
type Run struct {
	Start  int
	End    int // last simulated day
	Final  State
	Trades []Transaction
	Curve  []Point
}

// Simulate walks src from p.Start to the last day. Each day the return
// close[d]/close[d-1] is accrued to the baseline and, while invested, to the
// strategy; the exit or entry decision is then taken on the same close.
//
// Any error aborts the run and no partial result is returned.
func Simulate(src signal.Source, p Params) (*Run, error) {
	if src == nil {
		return nil, fmt.Errorf("sim: nil source")
	}
	if p.Initial <= 0 || math.IsNaN(p.Initial) || math.IsInf(p.Initial, 0) {
		return nil, fmt.Errorf("sim: initial value must be positive and finite, got %v", p.Initial)
	}
	if p.Position != Invested && p.Position != Uninvested {
		return nil, fmt.Errorf("sim: unknown position %d", p.Position)
	}

	n := src.Len()
	if p.Start < 1 {
		return nil, fmt.Errorf("%w: start %d has no prior close", ErrInsufficientHistory, p.Start)
	}
	if p.Start >= n {
		return nil, fmt.Errorf("%w: start %d beyond last day %d", ErrInsufficientHistory, p.Start, n-1)
	}
	first := signal.FirstDefined(src)
	if first < 0 || p.Start < first {
		return nil, fmt.Errorf("%w: start %d precedes first fully defined day %d", ErrInsufficientHistory, p.Start, first)
	}

	closes := src.Column(signal.Close)
	if len(closes) < n {
		return nil, &DayError{Kind: ErrInvalidIndicatorData, Day: len(closes), Field: signal.Close, Value: math.NaN()}
	}
	prev, err := price(closes, p.Start-1)
	if err != nil {
		return nil, err
	}

	st := State{
		Position:      p.Position,
		StrategyValue: p.Initial,
		BaselineValue: p.Initial,
	}
	run := &Run{
		Start: p.Start,
		End:   n - 1,
		Curve: make([]Point, 0, n-p.Start),
	}

	for d := p.Start; d < n; d++ {
		cur, err := price(closes, d)
		if err != nil {
			return nil, err
		}
		snap, err := signal.SnapshotAt(src, d)
		if err != nil {
			return nil, indicatorError(err)
		}
		ret := cur / prev

		if st.Position == Invested {
			st.StrategyValue *= ret
			if signal.ShouldSell(snap) {
				st.Position = Uninvested
				st.Transactions++
				run.Trades = append(run.Trades, Transaction{
					Day: d, Date: src.Date(d), Side: Sell, Price: cur, StrategyValue: st.StrategyValue,
				})
			}
		} else {
			// cash earns nothing
			if signal.ShouldBuy(snap) {
				st.Position = Invested
				st.Transactions++
				run.Trades = append(run.Trades, Transaction{
					Day: d, Date: src.Date(d), Side: Buy, Price: cur, StrategyValue: st.StrategyValue,
				})
			}
		}

		st.BaselineValue *= ret
		run.Curve = append(run.Curve, Point{
			Day: d, Date: src.Date(d), Strategy: st.StrategyValue, Baseline: st.BaselineValue,
		})
		prev = cur
	}

	run.Final = st
	return run, nil
}

func price(closes []float64, day int) (float64, error) {
	v := closes[day]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &DayError{Kind: ErrInvalidIndicatorData, Day: day, Field: signal.Close, Value: v}
	}
	if v <= 0 {
		return 0, &DayError{Kind: ErrNonPositivePrice, Day: day, Field: signal.Close, Value: v}
	}
	return v, nil
}

func indicatorError(err error) error {
	var fe *signal.FieldError
	if errors.As(err, &fe) {
		return &DayError{Kind: ErrInvalidIndicatorData, Day: fe.Day, Field: fe.Field, Value: fe.Value}
	}
	return fmt.Errorf("%w: %v", ErrInvalidIndicatorData, err)
}
