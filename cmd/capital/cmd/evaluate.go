package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/capital/capital"
	"github.com/rustyeddy/capital/id"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate capital adequacy and print the result as JSON",
	Long: `Run the full evaluation: currency normalisation, risk charges, the
capital requirement, the adequacy ratio and any stress scenarios.

Input is either a configuration file (see 'capital config init') or a raw
request document with the engine's camelCase field names. With neither,
the built-in default configuration is evaluated.

Examples:
  capital evaluate
  capital evaluate -f capital.yaml
  capital evaluate --request request.json
  cat request.json | capital evaluate --request -`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

var (
	evaluateConfigPath  string
	evaluateRequestPath string
)

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateConfigPath, "file", "f", "", "path to config file")
	evaluateCmd.Flags().StringVar(&evaluateRequestPath, "request", "", "path to a raw request (JSON or YAML, - for stdin)")
	evaluateCmd.MarkFlagsMutuallyExclusive("file", "request")
}

func buildRequest(cmd *cobra.Command, configPath, requestPath string) (capital.Request, error) {
	if requestPath != "" {
		return readRequest(requestPath, cmd.InOrStdin())
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return capital.Request{}, err
	}
	return cfg.Request()
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd, evaluateConfigPath, evaluateRequestPath)
	if err != nil {
		return err
	}

	resp, err := capital.Evaluate(req)
	if err != nil {
		for _, fe := range capital.FieldErrors(err) {
			log.Error().Str("kind", fe.KindName()).Str("field", string(fe.Field)).Str("value", fe.Value).Msg(fe.Reason)
		}
		return fmt.Errorf("evaluate: %w", err)
	}

	log.Debug().
		Str("evaluation_id", id.New()).
		Str("tier", string(resp.ComplianceTier)).
		Str("ratio", resp.AdequacyRatio.String()).
		Msg("evaluation completed")

	return writeJSON(cmd.OutOrStdout(), resp)
}
