package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/capital/capital"
	"github.com/rustyeddy/capital/id"
	"github.com/rustyeddy/capital/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a capital adequacy report",
	Long: `Evaluate a configuration and render the report with company details,
the business overview, the charge breakdown and stress outcomes.

Formats: table (default), csv, org, json.
The output path may be a file or a directory; a directory gets the
standard report file name.

Examples:
  capital report
  capital report -f capital.yaml --format csv -o reports/
  capital report --format csv --breakdown
  capital report --format org >> journal.org`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var (
	reportConfigPath string
	reportFormat     string
	reportOutput     string
	reportBreakdown  bool
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportConfigPath, "file", "f", "", "path to config file")
	reportCmd.Flags().StringVar(&reportFormat, "format", "", "report format (table, csv, org, json); overrides the config")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file or directory; overrides the config")
	reportCmd.Flags().BoolVar(&reportBreakdown, "breakdown", false, "export the charge breakdown table (csv only)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(reportConfigPath)
	if err != nil {
		return err
	}
	if reportFormat != "" {
		cfg.Report.Format = reportFormat
	}
	if reportOutput != "" {
		cfg.Report.Output = reportOutput
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	req, err := cfg.Request()
	if err != nil {
		return err
	}
	resp, err := capital.Evaluate(req)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	write, ext, err := report.Exporter(cfg.Report.Format, reportBreakdown)
	if err != nil {
		return err
	}

	meta := cfg.ReportMeta(id.New(), time.Now())
	rep := report.Build(meta, resp)

	if cfg.Report.Output == "" {
		return write(cmd.OutOrStdout(), rep)
	}

	path := cfg.Report.Output
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, report.Filename(meta, ext))
	}
	if err := writeFile(path, func(w io.Writer) error {
		return write(w, rep)
	}); err != nil {
		return err
	}

	log.Info().
		Str("report_id", meta.ID).
		Str("path", path).
		Str("tier", string(resp.ComplianceTier)).
		Msg("report written")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Report written: %s\n", path)
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
