package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the capital CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "capital version %s\n", version)
		fmt.Fprintln(out, "Capital adequacy calculator for crypto-asset custody providers")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
