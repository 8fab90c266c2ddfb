package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/capital/capital"
	"github.com/rustyeddy/capital/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage evaluation configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  capital config init -o capital.yaml
  capital config validate -f capital.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file from the Year 1 business plan with the
custody preset and the canonical stress scenarios.

Example:
  capital config init -o capital.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check that a configuration file loads and that the evaluation it
describes passes every input, rate, parameter and scenario check.

Example:
  capital config validate -f capital.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var (
	configInitOutput   string
	configInitYear     int
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "capital.yaml", "output config file path")
	configInitCmd.Flags().IntVar(&configInitYear, "year", 2025, "projection year to start from (0 for manual figures)")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	cfg.Projection.Year = configInitYear
	if configInitYear == 0 {
		cfg.Currency = nil
		cfg.Business = manualBusiness()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("default config: %w", err)
	}
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(out, "\nEdit the file and run with:")
	fmt.Fprintf(out, "  capital report -f %s\n", configInitOutput)
	return nil
}

// manualBusiness is a zero-filled business section for hand-entered figures.
func manualBusiness() config.BusinessConfig {
	zero := func() *decimal.Decimal {
		v := decimal.Zero
		return &v
	}
	return config.BusinessConfig{
		TotalAUC:                  zero(),
		MonthlyFixedOverheads:     zero(),
		OwnCryptoHoldings:         zero(),
		CounterpartyExposure:      zero(),
		ProjectedCashOutflow30Day: zero(),
		Tier1Capital:              zero(),
		Tier2Capital:              zero(),
	}
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		for _, fe := range capital.FieldErrors(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), "  ✗ %s: %s\n", fe.Field, fe.Reason)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	req, err := cfg.Request()
	if err != nil {
		return err
	}
	params, err := req.Parameters()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", configValidatePath)
	fmt.Fprintf(out, "  Company: %s (%s)\n", cfg.Company.Name, cfg.Company.ServiceType)
	if label := cfg.ProjectionLabel(); label != "" {
		fmt.Fprintf(out, "  Projection: %s\n", label)
	}
	if cfg.Currency != nil {
		fmt.Fprintf(out, "  Currency: %s→%s @ %s\n", cfg.Currency.From, cfg.Currency.To, cfg.Currency.Rate)
	}
	fmt.Fprintf(out, "  Risk: %s (op %s%%, market %s%%, liquidity %s%%)\n",
		presetName(cfg.Risk.Preset), params.OperationalRiskWeightOnAUC, params.MarketVolatilityFactor, params.LiquidityFactor)
	fmt.Fprintf(out, "  Stress scenarios: %d\n", len(req.StressScenarios))
	fmt.Fprintf(out, "  Report: %s\n", cfg.Report.Format)
	return nil
}

func presetName(name string) string {
	if name == "" {
		return "explicit"
	}
	return name
}
