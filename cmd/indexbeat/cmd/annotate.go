package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/indexbeat/indicators"
	"github.com/rustyeddy/indexbeat/market"
)

func newAnnotateCmd(ro *rootOptions) *cobra.Command {
	var (
		dataPath string
		format   string
		ticker   string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Write the bars with every indicator column as CSV",
		Long: `Compute the indicator columns the strategy uses (RSI, SMAs, Bollinger
bands, MACD) and write them next to each close, one row per day.
Undefined warm-up values are left empty. The output is meant for charting.

Example:
  indexbeat annotate --data VOO.csv -o VOO-indicators.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data") {
				cfg.Data.Path = dataPath
			}
			if cmd.Flags().Changed("format") {
				cfg.Data.Format = format
			}
			if cmd.Flags().Changed("ticker") {
				cfg.Ticker = ticker
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			log, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			bars, err := market.Load(cfg.Data.Path, cfg.Data.Format, cfg.Ticker)
			if err != nil {
				return err
			}
			frame, err := indicators.Annotate(bars, cfg.Indicators.Params())
			if err != nil {
				return fmt.Errorf("annotate: %w", err)
			}
			log.Info("annotated bars", "ticker", bars.Ticker, "days", frame.Len())

			if output == "" || output == "-" {
				return frame.WriteCSV(cmd.OutOrStdout())
			}
			if err := writeFile(output, frame.WriteCSV); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote annotated series: %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "daily bars file (csv or parquet)")
	cmd.Flags().StringVar(&format, "format", "", "bars format: csv|parquet (default by extension)")
	cmd.Flags().StringVarP(&ticker, "ticker", "t", "", "ticker symbol")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output CSV file, - for stdout")
	return cmd
}

func writeFile(path string, write func(io.Writer) error) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(fh); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
