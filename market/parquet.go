package market

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
)

// BarRecord is the Parquet schema for daily bars.
type BarRecord struct {
	Date     int64   `parquet:"date,timestamp(millisecond)"` // Unix ms, UTC midnight
	Open     float64 `parquet:"open"`
	High     float64 `parquet:"high"`
	Low      float64 `parquet:"low"`
	Close    float64 `parquet:"close"`
	AdjClose float64 `parquet:"adj_close"`
	Volume   int64   `parquet:"volume"`
}

// LoadParquet reads a Parquet file of BarRecord rows.
func LoadParquet(path, ticker string) (*BarSet, error) {
	rows, err := parquet.ReadFile[BarRecord](path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	bars := make([]DailyBar, len(rows))
	for i, r := range rows {
		bars[i] = DailyBar{
			Date:     time.UnixMilli(r.Date).UTC(),
			Open:     r.Open,
			High:     r.High,
			Low:      r.Low,
			Close:    r.Close,
			AdjClose: r.AdjClose,
			Volume:   r.Volume,
		}
	}
	return NewBarSet(ticker, path, bars)
}

// WriteParquet writes bars to path, replacing any existing file.
func WriteParquet(path string, bars []DailyBar) error {
	rows := make([]BarRecord, len(bars))
	for i, b := range bars {
		rows[i] = BarRecord{
			Date:     b.Date.UnixMilli(),
			Open:     b.Open,
			High:     b.High,
			Low:      b.Low,
			Close:    b.Close,
			AdjClose: b.AdjClose,
			Volume:   b.Volume,
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("writing bars to %s: %w", path, err)
	}
	return nil
}
