package market

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Date,Open,High,Low,Close,Adj Close,Volume
2024-01-03,401.1,402.5,399.0,400.25,398.10,5100000
2024-01-02,405.0,406.2,400.1,402.50,400.33,4800000

2024-01-04,400.0,401.0,397.5,398.75,396.61,6000000
`

func TestReadCSV(t *testing.T) {
	t.Parallel()

	bs, err := ReadCSV(strings.NewReader(sampleCSV), "VOO")
	require.NoError(t, err)
	require.Equal(t, 3, bs.Len())

	assert.Equal(t, "VOO", bs.Ticker)
	assert.Equal(t, []float64{402.50, 400.25, 398.75}, bs.Closes())

	first := bs.First()
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 405.0, first.Open)
	assert.Equal(t, 400.33, first.AdjClose)
	assert.Equal(t, int64(4800000), first.Volume)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), bs.Last().Date)
	assert.Len(t, bs.Dates(), 3)
}

func TestReadCSVMinimalColumns(t *testing.T) {
	t.Parallel()

	in := "close,DATE\n10.5,2024-02-01T00:00:00Z\n11,2024-02-02T00:00:00Z\n"
	bs, err := ReadCSV(strings.NewReader(in), "X")
	require.NoError(t, err)
	assert.Equal(t, []float64{10.5, 11}, bs.Closes())
	assert.Zero(t, bs.First().Open)
}

func TestReadCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		errMsg string
	}{
		{"empty", "", "empty bar file"},
		{"no date", "Open,Close\n1,2\n", "missing date column"},
		{"no close", "Date,Open\n2024-01-02,2\n", "missing close column"},
		{"bad date", "Date,Close\n01/02/2024,2\n", "bad date"},
		{"bad close", "Date,Close\n2024-01-02,abc\n", "bad close"},
		{"duplicate", "Date,Close\n2024-01-02,1\n2024-01-02,2\n", "duplicate bar"},
		{"short row", "Date,Open,Close\n2024-01-02,1\n", "short row"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in), "X")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	t.Parallel()

	bs, err := ReadCSV(strings.NewReader(sampleCSV), "VOO")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, bs.Bars))

	again, err := ReadCSV(&buf, "VOO")
	require.NoError(t, err)
	assert.Equal(t, bs.Bars, again.Bars)
}

func TestLoadDispatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "voo.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o644))

	bs, err := Load(csvPath, "", "VOO")
	require.NoError(t, err)
	assert.Equal(t, csvPath, bs.Source)
	assert.Equal(t, 3, bs.Len())

	pqPath := filepath.Join(dir, "nested", "voo.parquet")
	require.NoError(t, WriteParquet(pqPath, bs.Bars))

	pq, err := Load(pqPath, "", "VOO")
	require.NoError(t, err)
	assert.Equal(t, bs.Bars, pq.Bars)

	_, err = Load(filepath.Join(dir, "voo.json"), "", "VOO")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported bar format")

	_, err = Load(filepath.Join(dir, "missing.csv"), "csv", "VOO")
	assert.Error(t, err)
}

func TestNewBarSetDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []DailyBar{
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: 2},
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 1},
	}
	bs, err := NewBarSet("X", "test", in)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, bs.Closes())
	assert.Equal(t, 2.0, in[0].Close)

	empty, err := NewBarSet("X", "test", nil)
	require.NoError(t, err)
	assert.True(t, empty.First().Date.IsZero())
	assert.True(t, empty.Last().Date.IsZero())
}
