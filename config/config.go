package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/indexbeat/backtest"
	"github.com/rustyeddy/indexbeat/indicators"
)

// Config is everything a backtest run needs.
type Config struct {
	Ticker     string           `json:"ticker" yaml:"ticker"`
	Data       DataConfig       `json:"data" yaml:"data"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Indicators IndicatorConfig  `json:"indicators" yaml:"indicators"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Log        LogConfig        `json:"log" yaml:"log"`
}

// DataConfig locates the daily bars.
type DataConfig struct {
	Path   string `json:"path" yaml:"path"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // "csv", "parquet" or "" for by extension
}

// SimulationConfig contains the backtest parameters
type SimulationConfig struct {
	InitialInvestment  float64   `json:"initial_investment" yaml:"initial_investment"`
	TradingDaysPerYear int       `json:"trading_days_per_year" yaml:"trading_days_per_year"`
	Horizons           []float64 `json:"horizons" yaml:"horizons"` // years
	Parallel           bool      `json:"parallel" yaml:"parallel"`
}

// IndicatorConfig holds the indicator windows.
type IndicatorConfig struct {
	RSIShort        int     `json:"rsi_short" yaml:"rsi_short"`
	RSILong         int     `json:"rsi_long" yaml:"rsi_long"`
	SMAShort        int     `json:"sma_short" yaml:"sma_short"`
	SMALong         int     `json:"sma_long" yaml:"sma_long"`
	SMALongest      int     `json:"sma_longest" yaml:"sma_longest"`
	BollingerPeriod int     `json:"bollinger_period" yaml:"bollinger_period"`
	BollingerWidth  float64 `json:"bollinger_width" yaml:"bollinger_width"`
	MACDFast        int     `json:"macd_fast" yaml:"macd_fast"`
	MACDSlow        int     `json:"macd_slow" yaml:"macd_slow"`
	MACDSignal      int     `json:"macd_signal" yaml:"macd_signal"`
}

// Params converts to the indicator package's parameters.
func (ic IndicatorConfig) Params() indicators.Params {
	return indicators.Params{
		RSIShort:        ic.RSIShort,
		RSILong:         ic.RSILong,
		SMAShort:        ic.SMAShort,
		SMALong:         ic.SMALong,
		SMALongest:      ic.SMALongest,
		BollingerPeriod: ic.BollingerPeriod,
		BollingerWidth:  ic.BollingerWidth,
		MACDFast:        ic.MACDFast,
		MACDSlow:        ic.MACDSlow,
		MACDSignal:      ic.MACDSignal,
	}
}

func indicatorConfig(p indicators.Params) IndicatorConfig {
	return IndicatorConfig{
		RSIShort:        p.RSIShort,
		RSILong:         p.RSILong,
		SMAShort:        p.SMAShort,
		SMALong:         p.SMALong,
		SMALongest:      p.SMALongest,
		BollingerPeriod: p.BollingerPeriod,
		BollingerWidth:  p.BollingerWidth,
		MACDFast:        p.MACDFast,
		MACDSlow:        p.MACDSlow,
		MACDSignal:      p.MACDSignal,
	}
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // text or json
}

// LoadFromFile loads configuration from a file (YAML or JSON). Fields the
// file leaves out keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// YAML returns the configuration as YAML, as recorded with each journaled run.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Ticker == "" {
		return fmt.Errorf("ticker is required")
	}
	if c.Data.Path == "" {
		return fmt.Errorf("data.path is required")
	}
	switch c.Data.Format {
	case "", "csv", "parquet":
	default:
		return fmt.Errorf("data.format must be 'csv' or 'parquet'")
	}

	if c.Simulation.InitialInvestment <= 0 {
		return fmt.Errorf("simulation.initial_investment must be positive")
	}
	if c.Simulation.TradingDaysPerYear <= 0 {
		return fmt.Errorf("simulation.trading_days_per_year must be positive")
	}
	if len(c.Simulation.Horizons) == 0 {
		return fmt.Errorf("simulation.horizons is required")
	}
	seen := map[float64]bool{}
	for _, h := range c.Simulation.Horizons {
		if h <= 0 {
			return fmt.Errorf("simulation.horizons must be positive, got %v", h)
		}
		if seen[h] {
			return fmt.Errorf("simulation.horizons has duplicate %v", h)
		}
		seen[h] = true
	}

	if err := c.Indicators.Params().Validate(); err != nil {
		return fmt.Errorf("indicators: %w", err)
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.Dir == "" {
			return fmt.Errorf("journal dir required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Ticker: "VOO",
		Data: DataConfig{
			Path: "./VOO.csv",
		},
		Simulation: SimulationConfig{
			InitialInvestment:  10000,
			TradingDaysPerYear: backtest.DefaultTradingDaysPerYear,
			Horizons:           []float64{0.5, 1, 2, 3},
		},
		Indicators: indicatorConfig(indicators.DefaultParams()),
		Journal: JournalConfig{
			Type: "none",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
