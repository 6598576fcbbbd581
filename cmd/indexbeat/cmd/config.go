package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/indexbeat/backtest"
	"github.com/rustyeddy/indexbeat/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage configuration files for backtest runs.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  indexbeat config init -o backtest.yaml
  indexbeat config validate -f backtest.yaml`,
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigValidateCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		Long: `Create a new configuration file with default settings. The format
follows the extension: .yaml/.yml for YAML, anything else for JSON.

Example:
  indexbeat config init -o backtest.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if err := cfg.SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created default configuration: %s\n", output)
			fmt.Fprintln(out, "\nEdit the file and run with:")
			fmt.Fprintf(out, "  indexbeat run -c %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "backtest.yaml", "output config file path")
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long: `Check if a configuration file is valid and can be loaded.

Example:
  indexbeat config validate -f backtest.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Configuration valid: %s\n", path)
			fmt.Fprintf(out, "  Ticker: %s (%s)\n", cfg.Ticker, cfg.Data.Path)
			fmt.Fprintf(out, "  Initial: $%.2f\n", cfg.Simulation.InitialInvestment)
			fmt.Fprintf(out, "  Horizons:")
			for _, h := range cfg.Simulation.Horizons {
				fmt.Fprintf(out, " %sy", backtest.FormatYears(h))
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  Warm-up: %d days\n", cfg.Indicators.Params().Warmup())
			fmt.Fprintf(out, "  Journal: %s\n", cfg.Journal.Type)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "", "path to config file (required)")
	cmd.MarkFlagRequired("file")
	return cmd
}
