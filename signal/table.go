package signal

import (
	"fmt"
	"time"
)

var _ Source = (*Table)(nil)

// Table is an in-memory Source built from explicit columns.
type Table struct {
	dates   []time.Time
	columns map[Field][]float64
	n       int
}

// NewTable creates a Table of n days. Dates may be nil.
func NewTable(n int, dates []time.Time) *Table {
	return &Table{
		dates:   dates,
		columns: make(map[Field][]float64),
		n:       n,
	}
}

// Set installs a column. It must have exactly Len() values.
func (t *Table) Set(f Field, values []float64) error {
	if len(values) != t.n {
		return fmt.Errorf("column %s: got %d values, want %d", f, len(values), t.n)
	}
	t.columns[f] = values
	return nil
}

// Fill installs a column holding v on every day.
func (t *Table) Fill(f Field, v float64) {
	col := make([]float64, t.n)
	for i := range col {
		col[i] = v
	}
	t.columns[f] = col
}

func (t *Table) Len() int { return t.n }

func (t *Table) Date(day int) time.Time {
	if day < 0 || day >= len(t.dates) {
		return time.Time{}
	}
	return t.dates[day]
}

func (t *Table) Column(f Field) []float64 {
	return t.columns[f]
}
