package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCSV reads a daily bar CSV with a header row, e.g.
//
//	Date,Open,High,Low,Close,Adj Close,Volume
//
// Columns are matched by name, case-insensitively. Only date and close are
// required.
func LoadCSV(path, ticker string) (*BarSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bs, err := ReadCSV(f, ticker)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	bs.Source = path
	return bs, nil
}

// ReadCSV parses bars from r.
func ReadCSV(r io.Reader, ticker string) (*BarSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty bar file")
	}
	if err != nil {
		return nil, err
	}

	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	dateCol, ok := cols["date"]
	if !ok {
		return nil, fmt.Errorf("missing date column in header %v", header)
	}
	closeCol, ok := cols["close"]
	if !ok {
		return nil, fmt.Errorf("missing close column in header %v", header)
	}

	var bars []DailyBar
	line := 1
	for {
		row, err := cr.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if blank(row) {
			continue
		}

		b, err := parseRow(row, cols, dateCol, closeCol)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, b)
	}

	return NewBarSet(ticker, "csv", bars)
}

func parseRow(row []string, cols map[string]int, dateCol, closeCol int) (DailyBar, error) {
	var b DailyBar

	if dateCol >= len(row) {
		return b, fmt.Errorf("short row %v", row)
	}
	t, err := parseDate(row[dateCol])
	if err != nil {
		return b, err
	}
	b.Date = t

	if closeCol >= len(row) {
		return b, fmt.Errorf("short row %v", row)
	}
	if b.Close, err = parseFloat(row[closeCol]); err != nil {
		return b, fmt.Errorf("bad close %q: %w", row[closeCol], err)
	}

	optional := []struct {
		name string
		dst  *float64
	}{
		{"open", &b.Open},
		{"high", &b.High},
		{"low", &b.Low},
		{"adj close", &b.AdjClose},
	}
	for _, o := range optional {
		i, ok := cols[o.name]
		if !ok || i >= len(row) || strings.TrimSpace(row[i]) == "" {
			continue
		}
		if *o.dst, err = parseFloat(row[i]); err != nil {
			return b, fmt.Errorf("bad %s %q: %w", o.name, row[i], err)
		}
	}

	if i, ok := cols["volume"]; ok && i < len(row) && strings.TrimSpace(row[i]) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return b, fmt.Errorf("bad volume %q: %w", row[i], err)
		}
		b.Volume = int64(v)
	}
	return b, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
	}
	return t.UTC(), nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteCSV writes bars in the canonical column order.
func WriteCSV(w io.Writer, bars []DailyBar) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}); err != nil {
		return err
	}
	for _, b := range bars {
		if err := cw.Write([]string{
			b.Date.Format(DateLayout),
			ff(b.Open),
			ff(b.High),
			ff(b.Low),
			ff(b.Close),
			ff(b.AdjClose),
			strconv.FormatInt(b.Volume, 10),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ff(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
