package indicators

import (
	"fmt"
	"math"
)

// RSI returns the relative strength index over period using Wilder
// smoothing (alpha = 1/period) of gains and losses. The first change is at
// index 1, so values start at index period. When the average loss is zero
// the RSI is 100.
func RSI(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("period must be positive, got %d", period)
	}

	n := len(closes)
	up := nanSlice(n)
	down := nanSlice(n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		up[i], down[i] = 0, 0
		if change > 0 {
			up[i] = change
		} else if change < 0 {
			down[i] = -change
		}
	}

	alpha := 1.0 / float64(period)
	avgUp := ewm(up, alpha, period)
	avgDown := ewm(down, alpha, period)

	out := nanSlice(n)
	for i := range out {
		if math.IsNaN(avgUp[i]) || math.IsNaN(avgDown[i]) {
			continue
		}
		if avgDown[i] == 0 {
			out[i] = 100
			continue
		}
		rs := avgUp[i] / avgDown[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out, nil
}

// Bands holds Bollinger band columns.
type Bands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger returns the middle SMA over period and bands k population
// standard deviations above and below it.
func Bollinger(closes []float64, period int, k float64) (Bands, error) {
	if k <= 0 {
		return Bands{}, fmt.Errorf("band width must be positive, got %v", k)
	}
	mid, err := SMA(closes, period)
	if err != nil {
		return Bands{}, err
	}

	b := Bands{
		Upper:  nanSlice(len(closes)),
		Middle: mid,
		Lower:  nanSlice(len(closes)),
	}
	for i := period - 1; i < len(closes); i++ {
		mean := mid[i]
		ss := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := closes[j] - mean
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(period))
		b.Upper[i] = mean + k*sd
		b.Lower[i] = mean - k*sd
	}
	return b, nil
}

// MACDLines holds the MACD line, its signal EMA and their difference.
type MACDLines struct {
	MACD   []float64
	Signal []float64
	Diff   []float64
}

// MACDOf computes EMA(fast) - EMA(slow), its signal EMA and the histogram.
func MACDOf(closes []float64, fast, slow, signal int) (MACDLines, error) {
	if fast >= slow {
		return MACDLines{}, fmt.Errorf("fast period %d must be below slow period %d", fast, slow)
	}
	ef, err := EMA(closes, fast)
	if err != nil {
		return MACDLines{}, err
	}
	es, err := EMA(closes, slow)
	if err != nil {
		return MACDLines{}, err
	}

	n := len(closes)
	m := MACDLines{MACD: nanSlice(n), Diff: nanSlice(n)}
	for i := 0; i < n; i++ {
		m.MACD[i] = ef[i] - es[i] // NaN propagates through warm-up
	}
	if m.Signal, err = EMA(m.MACD, signal); err != nil {
		return MACDLines{}, err
	}
	for i := 0; i < n; i++ {
		m.Diff[i] = m.MACD[i] - m.Signal[i]
	}
	return m, nil
}
