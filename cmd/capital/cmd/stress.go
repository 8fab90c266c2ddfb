package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/capital/capital"
	"github.com/rustyeddy/capital/report"
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Run stress scenarios against the baseline",
	Long: `Apply each stress scenario to the baseline independently and show the
stressed requirement, ratio and outcome.

Without configured scenarios the four canonical ones are used.

Examples:
  capital stress
  capital stress -f capital.yaml --restress-floor
  capital stress --request request.json --json`,
	Args: cobra.NoArgs,
	RunE: runStress,
}

var (
	stressConfigPath    string
	stressRequestPath   string
	stressRestressFloor bool
	stressJSON          bool
)

func init() {
	rootCmd.AddCommand(stressCmd)

	stressCmd.Flags().StringVarP(&stressConfigPath, "file", "f", "", "path to config file")
	stressCmd.Flags().StringVar(&stressRequestPath, "request", "", "path to a raw request (JSON or YAML, - for stdin)")
	stressCmd.Flags().BoolVar(&stressRestressFloor, "restress-floor", false, "recompute the fixed overheads floor from stressed overheads")
	stressCmd.Flags().BoolVar(&stressJSON, "json", false, "print results as JSON")
	stressCmd.MarkFlagsMutuallyExclusive("file", "request")
}

func runStress(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd, stressConfigPath, stressRequestPath)
	if err != nil {
		return err
	}

	if len(req.StressScenarios) == 0 {
		req.StressScenarios = capital.DefaultScenarios()
	}
	if stressRestressFloor {
		for i := range req.StressScenarios {
			req.StressScenarios[i].RestressFloor = true
		}
	}

	resp, err := capital.Evaluate(req)
	if err != nil {
		return fmt.Errorf("stress: %w", err)
	}

	out := cmd.OutOrStdout()
	if stressJSON {
		return writeJSON(out, resp.StressResults)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Baseline\t\t\t%s\t%s\t%s\n", report.Money(resp.CapitalRequirement), resp.AdequacyRatio.Format(), resp.ComplianceTier)
	fmt.Fprintln(tw, "SCENARIO\tTARGET\tSHOCK\tREQUIREMENT\tCAR\tOUTCOME\tADDITIONAL")
	for _, s := range resp.StressResults {
		outcome, extra := "compliant", "-"
		if !s.Compliant {
			outcome = "breach"
			if s.AdditionalCapitalNeeded != nil {
				extra = report.Money(*s.AdditionalCapitalNeeded)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Name, s.Target, s.Perturbation, report.Money(s.Requirement.Amount), s.Ratio.Format(), outcome, extra)
	}
	return tw.Flush()
}
