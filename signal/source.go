// Package signal defines the per-day indicator view consumed by the
// simulator and the buy/sell predicates evaluated against it.
package signal

import (
	"fmt"
	"math"
	"time"
)

// Field names one aligned per-day column.
type Field int

const (
	Close Field = iota
	RSIShort
	RSILong
	SMAShort
	SMALong
	SMALongest
	BollingerUpper
	BollingerMiddle
	BollingerLower
	MACD
	MACDSignal
	MACDDiff

	numFields
)

var fieldNames = [numFields]string{
	Close:           "close",
	RSIShort:        "rsi_short",
	RSILong:         "rsi_long",
	SMAShort:        "sma_short",
	SMALong:         "sma_long",
	SMALongest:      "sma_longest",
	BollingerUpper:  "bb_upper",
	BollingerMiddle: "bb_middle",
	BollingerLower:  "bb_lower",
	MACD:            "macd",
	MACDSignal:      "macd_signal",
	MACDDiff:        "macd_diff",
}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldNames[f]
}

// Fields returns every known field in column order.
func Fields() []Field {
	out := make([]Field, numFields)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// DecisionFields are the columns ShouldSell and ShouldBuy read. The MACD
// columns and the longest SMA are carried for reporting only.
var DecisionFields = []Field{
	Close, RSIShort, RSILong, SMAShort, SMALong, BollingerUpper, BollingerLower,
}

// Source exposes aligned indicator columns, one value per trading day.
// Implementations must not mutate the returned slices after construction.
type Source interface {
	Len() int
	Date(day int) time.Time
	// Column returns nil when the field is not provided.
	Column(f Field) []float64
}

// FieldError reports a missing or non-finite value on a given day.
type FieldError struct {
	Day   int
	Field Field
	Value float64
}

func (e *FieldError) Error() string {
	if math.IsNaN(e.Value) {
		return fmt.Sprintf("day %d: %s undefined", e.Day, e.Field)
	}
	return fmt.Sprintf("day %d: %s not finite (%v)", e.Day, e.Field, e.Value)
}

// Snapshot is one trading day's decision inputs.
type Snapshot struct {
	Day            int
	Close          float64
	RSIShort       float64
	RSILong        float64
	SMAShort       float64
	SMALong        float64
	BollingerUpper float64
	BollingerLower float64
}

// SnapshotAt reads the decision fields for day. Every field must be present
// and finite.
func SnapshotAt(src Source, day int) (Snapshot, error) {
	if day < 0 || day >= src.Len() {
		return Snapshot{}, fmt.Errorf("day %d out of range [0,%d)", day, src.Len())
	}

	var vals [numFields]float64
	for _, f := range DecisionFields {
		v, err := value(src, f, day)
		if err != nil {
			return Snapshot{}, err
		}
		vals[f] = v
	}

	return Snapshot{
		Day:            day,
		Close:          vals[Close],
		RSIShort:       vals[RSIShort],
		RSILong:        vals[RSILong],
		SMAShort:       vals[SMAShort],
		SMALong:        vals[SMALong],
		BollingerUpper: vals[BollingerUpper],
		BollingerLower: vals[BollingerLower],
	}, nil
}

func value(src Source, f Field, day int) (float64, error) {
	col := src.Column(f)
	if day >= len(col) {
		return 0, &FieldError{Day: day, Field: f, Value: math.NaN()}
	}
	v := col[day]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &FieldError{Day: day, Field: f, Value: v}
	}
	return v, nil
}

// FirstDefined returns the earliest day on which every decision field is
// finite, or -1 if there is none.
func FirstDefined(src Source) int {
	for day := 0; day < src.Len(); day++ {
		ok := true
		for _, f := range DecisionFields {
			if _, err := value(src, f, day); err != nil {
				ok = false
				break
			}
		}
		if ok {
			return day
		}
	}
	return -1
}
