package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rustyeddy/indexbeat/config"
	"github.com/rustyeddy/indexbeat/internal/logging"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
}

func NewRootCmd() *cobra.Command {
	ro := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "indexbeat",
		Short: "Backtest an index-fund timing strategy against buy-and-hold",
		Long: `Indexbeat replays daily bars of an index fund through a technical
timing strategy (RSI, moving-average regime and Bollinger bands) and
compares the outcome with simply holding the fund.

Each lookback horizon, in years, ends at the last day of the data and is
simulated independently, starting fully invested.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&ro.ConfigPath, "config", "c", "", "path to config file (YAML or JSON)")
	cmd.PersistentFlags().StringVar(&ro.LogLevel, "log-level", "info", "log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&ro.LogFormat, "log-format", "text", "log format: text|json")

	cmd.AddCommand(
		newRunCmd(ro),
		newAnnotateCmd(ro),
		newConfigCmd(),
		newJournalCmd(ro),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// interrupt by main.
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// loadConfig reads the config file when one is given, otherwise starts from
// the defaults, then applies the persistent log flags that were set.
func (ro *rootOptions) loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if ro.ConfigPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(ro.ConfigPath); err != nil {
			return nil, err
		}
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = ro.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = ro.LogFormat
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return log, nil
}
