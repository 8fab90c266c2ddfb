package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rustyeddy/capital/api"
	"github.com/rustyeddy/capital/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve evaluations over HTTP",
	Long: `Start the HTTP API.

Routes:
  POST /api/v1/evaluations        evaluate a request
  POST /api/v1/reports?format=    render a report from a configuration
  GET  /api/v1/presets            risk parameter presets
  GET  /api/v1/projections        business plan projections
  GET  /api/v1/scenarios          canonical stress scenarios
  GET  /healthz                   liveness
  GET  /metrics                   Prometheus metrics

Every flag can also be set from the environment with the CAPITAL_ prefix,
for example CAPITAL_ADDR=:9090.

Example:
  capital serve --addr :8080`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Environment may override the log settings applied by the root.
		return setupLogging(os.Stderr, serveViper.GetString("log-level"), serveViper.GetString("log-format"))
	},
	RunE: runServe,
}

var serveViper = viper.New()

func init() {
	rootCmd.AddCommand(serveCmd)

	defaults := api.DefaultServerConfig()
	serveCmd.Flags().String("addr", defaults.Addr, "listen address")
	serveCmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	serveCmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	serveCmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")

	serveViper.SetEnvPrefix("CAPITAL")
	serveViper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	serveViper.AutomaticEnv()
	_ = serveViper.BindPFlags(serveCmd.Flags())
	_ = serveViper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = serveViper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// serverConfig reads the server settings from flags and environment.
func serverConfig(v *viper.Viper) api.ServerConfig {
	return api.ServerConfig{
		Addr:         v.GetString("addr"),
		ReadTimeout:  v.GetDuration("read-timeout"),
		WriteTimeout: v.GetDuration("write-timeout"),
		IdleTimeout:  v.GetDuration("idle-timeout"),
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(serverConfig(serveViper), metrics.NewRegistry())
	return srv.Run(ctx)
}
