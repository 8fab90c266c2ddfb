package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/capital/capital"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List risk parameter presets and their bounds",
	Long: `Show every named risk parameter preset next to the range each
parameter is validated against.

Examples:
  capital presets
  capital presets --yaml`,
	Args: cobra.NoArgs,
	RunE: runPresets,
}

var presetsYAML bool

func init() {
	rootCmd.AddCommand(presetsCmd)
	presetsCmd.Flags().BoolVar(&presetsYAML, "yaml", false, "print presets as YAML")
}

func runPresets(cmd *cobra.Command, args []string) error {
	names := capital.PresetNames()
	sets := make([]capital.RiskParameters, 0, len(names))
	for _, name := range names {
		p, err := capital.Preset(name)
		if err != nil {
			return err
		}
		sets = append(sets, p)
	}

	out := cmd.OutOrStdout()
	if presetsYAML {
		doc := make(map[string]map[string]string, len(names))
		for i, name := range names {
			doc[name] = make(map[string]string)
			for _, f := range capital.ParameterFields {
				v, _ := sets[i].Value(f)
				doc[name][string(f)] = v.String()
			}
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode presets: %w", err)
		}
		return enc.Close()
	}

	bounds := capital.DefaultBounds()
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "PARAMETER")
	for _, name := range names {
		marker := ""
		if name == capital.DefaultPreset {
			marker = "*"
		}
		fmt.Fprintf(tw, "\t%s%s", name, marker)
	}
	fmt.Fprintln(tw, "\tRANGE")
	for _, f := range capital.ParameterFields {
		fmt.Fprint(tw, f)
		for _, p := range sets {
			v, _ := p.Value(f)
			fmt.Fprintf(tw, "\t%s", v)
		}
		fmt.Fprintf(tw, "\t%s\n", bounds.Range(f))
	}
	return tw.Flush()
}
