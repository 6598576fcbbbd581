package cmd

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/indexbeat/journal"
	"github.com/rustyeddy/indexbeat/market"
)

func writeBars(t *testing.T, dir string, n int) string {
	t.Helper()

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.DailyBar, n)
	for i := range bars {
		c := 100 + 10*math.Sin(float64(i)/6) + 0.1*float64(i)
		bars[i] = market.DailyBar{
			Date:     start.AddDate(0, 0, i),
			Open:     c,
			High:     c + 1,
			Low:      c - 1,
			Close:    c,
			AdjClose: c,
			Volume:   1000,
		}
	}

	path := filepath.Join(dir, "test.csv")
	fh, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, market.WriteCSV(fh, bars))
	require.NoError(t, fh.Close())
	return path
}

// writeConfig uses short windows so a 200 day series covers several horizons.
func writeConfig(t *testing.T, dir, dataPath string) string {
	t.Helper()

	content := fmt.Sprintf(`ticker: TEST
data:
  path: %s
simulation:
  initial_investment: 1000
  trading_days_per_year: 20
  horizons: [1, 2]
indicators:
  rsi_short: 5
  rsi_long: 10
  sma_short: 5
  sma_long: 10
  sma_longest: 20
  bollinger_period: 5
  bollinger_width: 2
  macd_fast: 3
  macd_slow: 6
  macd_signal: 2
log:
  level: debug
`, dataPath)
	path := filepath.Join(dir, "backtest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func setup(t *testing.T) (dir, cfgPath string) {
	t.Helper()

	dir = t.TempDir()
	cfgPath = writeConfig(t, dir, writeBars(t, dir, 200))
	return dir, cfgPath
}

func TestRunPrintsReport(t *testing.T) {
	_, cfgPath := setup(t)

	out, logs, err := execute(t, "run", "-c", cfgPath, "--horizons", "1,2,50", "--trades")
	require.NoError(t, err)

	assert.Contains(t, out, "Strategy vs Buy-and-Hold: TEST")
	assert.Contains(t, out, "Initial:       $1000.00")
	assert.Contains(t, out, "1 years")
	assert.Contains(t, out, "2 years")
	assert.Contains(t, out, "FAILED:        50 years: insufficient history")
	assert.Contains(t, out, "Horizons:      2 ok, 1 failed")
	assert.Contains(t, out, "1 years: ")
	assert.Contains(t, out, " transactions")

	assert.Contains(t, logs, "loaded bars")
	assert.Contains(t, logs, "days=200")
	assert.Contains(t, logs, "horizon failed")
}

func TestRunJSONLogs(t *testing.T) {
	_, cfgPath := setup(t)

	_, logs, err := execute(t, "run", "-c", cfgPath, "--log-format", "json", "--log-level", "warn")
	require.NoError(t, err)
	assert.NotContains(t, logs, "loaded bars")

	_, logs, err = execute(t, "run", "-c", cfgPath, "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, logs, `"msg":"loaded bars"`)
}

func TestRunSQLiteJournal(t *testing.T) {
	dir, cfgPath := setup(t)
	db := filepath.Join(dir, "runs.db")

	out, _, err := execute(t, "run", "-c", cfgPath, "--journal", "sqlite", "--db", db, "--parallel")
	require.NoError(t, err)

	var runID string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "✓ Recorded run ") {
			runID = strings.Fields(line)[3]
		}
	}
	require.NotEmpty(t, runID, out)

	j, err := journal.NewSQLite(db)
	require.NoError(t, err)
	run, err := j.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, "TEST", run.Ticker)
	assert.Equal(t, 20, run.TradingDaysPerYear)
	assert.Contains(t, string(run.Config), "ticker: TEST")
	horizons, err := j.ListHorizons(runID)
	require.NoError(t, err)
	assert.Len(t, horizons, 2)
	require.NoError(t, j.Close())

	out, _, err = execute(t, "journal", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, "TEST")
	assert.Contains(t, out, "$1000.00")

	out, _, err = execute(t, "journal", "show", runID, "--db", db, "--trades")
	require.NoError(t, err)
	assert.Contains(t, out, "Run "+runID)
	assert.Contains(t, out, "Strategy vs Buy-and-Hold: TEST")
	assert.Contains(t, out, "Horizons:      2 ok, 0 failed")
	assert.Contains(t, out, "2 years: ")

	_, _, err = execute(t, "journal", "show", "missing", "--db", db)
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestRunCSVJournalAndOrg(t *testing.T) {
	dir, cfgPath := setup(t)
	jdir := filepath.Join(dir, "journal")
	org := filepath.Join(dir, "report.org")

	out, _, err := execute(t, "run", "-c", cfgPath, "--journal", "csv", "--journal-dir", jdir, "--org", org)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Wrote Org report")
	assert.Contains(t, out, "(csv)")

	data, err := os.ReadFile(org)
	require.NoError(t, err)
	assert.Contains(t, string(data), "* BACKTEST: TEST strategy vs buy-and-hold")

	for _, name := range []string{journal.RunsFile, journal.HorizonsFile, journal.TradesFile, journal.EquityFile} {
		assert.FileExists(t, filepath.Join(jdir, name))
	}
	equity, err := os.ReadFile(filepath.Join(jdir, journal.EquityFile))
	require.NoError(t, err)
	// header plus 20 + 40 curve points
	assert.Equal(t, 61, strings.Count(string(equity), "\n"))
}

func TestRunSetupErrors(t *testing.T) {
	dir, cfgPath := setup(t)

	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"missing data", []string{"run", "-c", cfgPath, "--data", filepath.Join(dir, "nope.csv")}, "nope.csv"},
		{"bad initial", []string{"run", "-c", cfgPath, "--initial", "-1"}, "invalid config"},
		{"bad journal", []string{"run", "-c", cfgPath, "--journal", "sqlite"}, "db_path"},
		{"missing config", []string{"run", "-c", filepath.Join(dir, "missing.yaml")}, "read config file"},
		{"bad log level", []string{"run", "-c", cfgPath, "--log-level", "loud"}, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestAnnotate(t *testing.T) {
	dir, cfgPath := setup(t)

	out, _, err := execute(t, "annotate", "-c", cfgPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 201)
	assert.True(t, strings.HasPrefix(lines[0], "date,close,rsi_short,rsi_long,sma_short"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2020-01-01,"), lines[1])

	path := filepath.Join(dir, "annotated.csv")
	out, _, err = execute(t, "annotate", "-c", cfgPath, "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Wrote annotated series")
	assert.FileExists(t, path)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backtest.yaml")

	out, _, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Created default configuration")

	out, _, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Configuration valid")
	assert.Contains(t, out, "Horizons: 0.5y 1y 2y 3y")
	assert.Contains(t, out, "Warm-up: 199 days")

	_, _, err = execute(t, "config", "validate")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "indexbeat version "+version)
}
