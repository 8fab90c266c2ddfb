package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "capital",
	Short: "Capital adequacy calculator for crypto-asset custody providers",
	Long: `Capital evaluates whether a virtual asset service provider holds enough
regulatory capital for the business it runs.

It provides tools for:
  - Computing risk-based capital charges and the fixed overheads floor
  - Classifying the capital adequacy ratio against internal and minimum targets
  - Running single-factor stress scenarios against the baseline
  - Exporting reports as CSV, text tables, or Org-mode entries
  - Serving evaluations over HTTP`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Amounts go out as JSON numbers.
		decimal.MarshalJSONWithoutQuotes = true
		return setupLogging(os.Stderr, logLevel, logFormat)
	},
}

var (
	logLevel  string
	logFormat string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console or json)")
}

// setupLogging configures the global zerolog logger.
func setupLogging(w io.Writer, level, format string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	switch format {
	case "console":
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
	case "json":
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	default:
		return fmt.Errorf("log format must be console or json, got %q", format)
	}
	return nil
}
