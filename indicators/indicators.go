// Package indicators builds the aligned indicator columns the strategy
// consumes: RSI, simple moving averages, Bollinger bands and MACD.
package indicators

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/rustyeddy/indexbeat/market"
	"github.com/rustyeddy/indexbeat/signal"
)

// Params are the indicator windows.
type Params struct {
	RSIShort        int
	RSILong         int
	SMAShort        int
	SMALong         int
	SMALongest      int
	BollingerPeriod int
	BollingerWidth  float64
	MACDFast        int
	MACDSlow        int
	MACDSignal      int
}

// DefaultParams returns the windows the strategy was designed with.
func DefaultParams() Params {
	return Params{
		RSIShort:        21,
		RSILong:         100,
		SMAShort:        50,
		SMALong:         200,
		SMALongest:      500,
		BollingerPeriod: 21,
		BollingerWidth:  2,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
	}
}

// Validate checks every window is positive and the pairs are ordered.
func (p Params) Validate() error {
	windows := []struct {
		name string
		v    int
	}{
		{"rsi_short", p.RSIShort},
		{"rsi_long", p.RSILong},
		{"sma_short", p.SMAShort},
		{"sma_long", p.SMALong},
		{"sma_longest", p.SMALongest},
		{"bollinger_period", p.BollingerPeriod},
		{"macd_fast", p.MACDFast},
		{"macd_slow", p.MACDSlow},
		{"macd_signal", p.MACDSignal},
	}
	for _, w := range windows {
		if w.v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", w.name, w.v)
		}
	}
	if p.BollingerWidth <= 0 {
		return fmt.Errorf("bollinger_width must be positive, got %v", p.BollingerWidth)
	}
	if p.SMAShort >= p.SMALong {
		return fmt.Errorf("sma_short (%d) must be below sma_long (%d)", p.SMAShort, p.SMALong)
	}
	if p.MACDFast >= p.MACDSlow {
		return fmt.Errorf("macd_fast (%d) must be below macd_slow (%d)", p.MACDFast, p.MACDSlow)
	}
	return nil
}

// Warmup is the first index at which every decision column is defined.
func (p Params) Warmup() int {
	return max(p.RSIShort, p.RSILong, p.SMAShort-1, p.SMALong-1, p.BollingerPeriod-1)
}

var _ signal.Source = (*Frame)(nil)

// Frame is a bar series annotated with every indicator column.
type Frame struct {
	Ticker  string
	Params  Params
	dates   []time.Time
	columns [][]float64
}

// Annotate computes all indicator columns for bars.
func Annotate(bs *market.BarSet, p Params) (*Frame, error) {
	if bs == nil {
		return nil, fmt.Errorf("annotate: nil bar set")
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}

	closes := bs.Closes()
	f := &Frame{
		Ticker:  bs.Ticker,
		Params:  p,
		dates:   bs.Dates(),
		columns: make([][]float64, len(signal.Fields())),
	}
	f.columns[signal.Close] = closes

	var err error
	set := func(field signal.Field, col []float64, e error) {
		if err == nil && e != nil {
			err = fmt.Errorf("annotate %s: %w", field, e)
		}
		f.columns[field] = col
	}

	col, e := RSI(closes, p.RSIShort)
	set(signal.RSIShort, col, e)
	col, e = RSI(closes, p.RSILong)
	set(signal.RSILong, col, e)
	col, e = SMA(closes, p.SMAShort)
	set(signal.SMAShort, col, e)
	col, e = SMA(closes, p.SMALong)
	set(signal.SMALong, col, e)
	col, e = SMA(closes, p.SMALongest)
	set(signal.SMALongest, col, e)

	bands, e := Bollinger(closes, p.BollingerPeriod, p.BollingerWidth)
	set(signal.BollingerUpper, bands.Upper, e)
	set(signal.BollingerMiddle, bands.Middle, e)
	set(signal.BollingerLower, bands.Lower, e)

	macd, e := MACDOf(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	set(signal.MACD, macd.MACD, e)
	set(signal.MACDSignal, macd.Signal, e)
	set(signal.MACDDiff, macd.Diff, e)

	if err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Frame) Len() int { return len(f.dates) }

func (f *Frame) Date(day int) time.Time {
	if day < 0 || day >= len(f.dates) {
		return time.Time{}
	}
	return f.dates[day]
}

func (f *Frame) Column(field signal.Field) []float64 {
	if field < 0 || int(field) >= len(f.columns) {
		return nil
	}
	return f.columns[field]
}

// WriteCSV writes the annotated series: a date column followed by every
// field. Undefined values are written as empty cells.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	fields := signal.Fields()
	header := make([]string, 0, len(fields)+1)
	header = append(header, "date")
	for _, fl := range fields {
		header = append(header, fl.String())
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for day := 0; day < f.Len(); day++ {
		row[0] = f.dates[day].Format(market.DateLayout)
		for i, fl := range fields {
			row[i+1] = formatCell(f.columns[fl][day])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
