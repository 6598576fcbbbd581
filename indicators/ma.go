package indicators

import (
	"fmt"
	"math"
)

// SMA returns the simple moving average of values over period. The first
// period-1 entries are NaN.
func SMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("period must be positive, got %d", period)
	}

	out := nanSlice(len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out, nil
}

// EMA returns the exponential moving average with alpha = 2/(span+1). It
// starts at the first finite input and is NaN until span finite inputs have
// been seen. NaN inputs after the start carry the previous average forward.
func EMA(values []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, fmt.Errorf("span must be positive, got %d", span)
	}
	return ewm(values, 2.0/float64(span+1), span), nil
}

// ewm is an exponentially weighted mean seeded with the first finite value:
// m[0] = x[0], m[i] = (1-alpha)*m[i-1] + alpha*x[i].
func ewm(values []float64, alpha float64, minPeriods int) []float64 {
	out := nanSlice(len(values))
	var (
		mean  float64
		count int
	)
	for i, v := range values {
		if math.IsNaN(v) {
			if count >= minPeriods {
				out[i] = mean
			}
			continue
		}
		if count == 0 {
			mean = v
		} else {
			mean = (1-alpha)*mean + alpha*v
		}
		count++
		if count >= minPeriods {
			out[i] = mean
		}
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
