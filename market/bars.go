// Package market holds the daily bar series for one ticker and its loaders.
package market

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used in bar files.
const DateLayout = "2006-01-02"

// DailyBar is one trading day's OHLCV record.
type DailyBar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}

// BarSet is an ordered series of trading days for a ticker.
type BarSet struct {
	Ticker string
	Source string
	Bars   []DailyBar
}

// NewBarSet sorts bars by date and rejects duplicate days.
func NewBarSet(ticker, source string, bars []DailyBar) (*BarSet, error) {
	sorted := make([]DailyBar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date.Equal(sorted[i-1].Date) {
			return nil, fmt.Errorf("%s: duplicate bar for %s", source, sorted[i].Date.Format(DateLayout))
		}
	}
	return &BarSet{Ticker: ticker, Source: source, Bars: sorted}, nil
}

func (bs *BarSet) Len() int { return len(bs.Bars) }

// Closes returns the close prices in date order.
func (bs *BarSet) Closes() []float64 {
	out := make([]float64, len(bs.Bars))
	for i, b := range bs.Bars {
		out[i] = b.Close
	}
	return out
}

// Dates returns the bar dates in order.
func (bs *BarSet) Dates() []time.Time {
	out := make([]time.Time, len(bs.Bars))
	for i, b := range bs.Bars {
		out[i] = b.Date
	}
	return out
}

// First and Last return the zero bar for an empty set.
func (bs *BarSet) First() DailyBar {
	if len(bs.Bars) == 0 {
		return DailyBar{}
	}
	return bs.Bars[0]
}

func (bs *BarSet) Last() DailyBar {
	if len(bs.Bars) == 0 {
		return DailyBar{}
	}
	return bs.Bars[len(bs.Bars)-1]
}

// Load reads bars from path. An empty format is inferred from the file
// extension.
func Load(path, format, ticker string) (*BarSet, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch strings.ToLower(format) {
	case "csv":
		return LoadCSV(path, ticker)
	case "parquet":
		return LoadParquet(path, ticker)
	default:
		return nil, fmt.Errorf("unsupported bar format %q (supported: csv, parquet)", format)
	}
}
