package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/indexbeat/indicators"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "VOO", cfg.Ticker)
	assert.Equal(t, 10000.0, cfg.Simulation.InitialInvestment)
	assert.Equal(t, 252, cfg.Simulation.TradingDaysPerYear)
	assert.Equal(t, []float64{0.5, 1, 2, 3}, cfg.Simulation.Horizons)
	assert.Equal(t, indicators.DefaultParams(), cfg.Indicators.Params())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing ticker",
			mutate:  func(c *Config) { c.Ticker = "" },
			wantErr: true,
			errMsg:  "ticker is required",
		},
		{
			name:    "missing data path",
			mutate:  func(c *Config) { c.Data.Path = "" },
			wantErr: true,
			errMsg:  "data.path is required",
		},
		{
			name:    "bad data format",
			mutate:  func(c *Config) { c.Data.Format = "xlsx" },
			wantErr: true,
			errMsg:  "data.format",
		},
		{
			name:    "zero investment",
			mutate:  func(c *Config) { c.Simulation.InitialInvestment = 0 },
			wantErr: true,
			errMsg:  "simulation.initial_investment must be positive",
		},
		{
			name:    "zero trading days",
			mutate:  func(c *Config) { c.Simulation.TradingDaysPerYear = 0 },
			wantErr: true,
			errMsg:  "simulation.trading_days_per_year must be positive",
		},
		{
			name:    "no horizons",
			mutate:  func(c *Config) { c.Simulation.Horizons = nil },
			wantErr: true,
			errMsg:  "simulation.horizons is required",
		},
		{
			name:    "negative horizon",
			mutate:  func(c *Config) { c.Simulation.Horizons = []float64{1, -2} },
			wantErr: true,
			errMsg:  "simulation.horizons must be positive",
		},
		{
			name:    "duplicate horizon",
			mutate:  func(c *Config) { c.Simulation.Horizons = []float64{1, 1} },
			wantErr: true,
			errMsg:  "duplicate",
		},
		{
			name:    "sma order",
			mutate:  func(c *Config) { c.Indicators.SMAShort = 300 },
			wantErr: true,
			errMsg:  "indicators: sma_short (300) must be below sma_long (200)",
		},
		{
			name:    "zero rsi window",
			mutate:  func(c *Config) { c.Indicators.RSIShort = 0 },
			wantErr: true,
			errMsg:  "rsi_short must be positive",
		},
		{
			name:    "unknown journal",
			mutate:  func(c *Config) { c.Journal.Type = "postgres" },
			wantErr: true,
			errMsg:  "journal.type must be",
		},
		{
			name:    "csv journal without dir",
			mutate:  func(c *Config) { c.Journal.Type = "csv" },
			wantErr: true,
			errMsg:  "journal dir required for CSV type",
		},
		{
			name:    "sqlite journal without db",
			mutate:  func(c *Config) { c.Journal.Type = "sqlite" },
			wantErr: true,
			errMsg:  "journal db_path required for SQLite type",
		},
		{
			name: "sqlite journal",
			mutate: func(c *Config) {
				c.Journal.Type = "sqlite"
				c.Journal.DBPath = "runs.db"
			},
			wantErr: false,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
			errMsg:  "log.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
			errMsg:  "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		filename string
	}{
		{"JSON format", "config.json"},
		{"YAML format", "config.yaml"},
		{"YML format", "config.yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.filename)

			original := Default()
			original.Ticker = "SPY"
			original.Simulation.Horizons = []float64{1, 5}
			original.Simulation.Parallel = true
			original.Journal = JournalConfig{Type: "sqlite", DBPath: "runs.db"}

			require.NoError(t, original.SaveToFile(path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, original, loaded)
		})
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	content := `ticker: QQQ
data:
  path: qqq.parquet
simulation:
  horizons: [0.25, 1]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "QQQ", cfg.Ticker)
	assert.Equal(t, "qqq.parquet", cfg.Data.Path)
	assert.Equal(t, []float64{0.25, 1}, cfg.Simulation.Horizons)
	assert.Equal(t, 10000.0, cfg.Simulation.InitialInvestment)
	assert.Equal(t, 252, cfg.Simulation.TradingDaysPerYear)
	assert.Equal(t, 200, cfg.Indicators.SMALong)
}

func TestLoadFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("ticker: [unclosed"), 0644))
	_, err = LoadFromFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("simulation:\n  initial_investment: -5\n"), 0644))
	_, err = LoadFromFile(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestYAML(t *testing.T) {
	data, err := Default().YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "ticker: VOO")
	assert.Contains(t, string(data), "rsi_long: 100")
}
