package report

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteTable renders the report as aligned plain text for a terminal.
func WriteTable(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s\t%s\n", "PARAMETER", "VALUE")
	for _, row := range r.Rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.Parameter, row.Value)
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "%s\t%s\t%s\n", "COMPONENT", "CALCULATION", "AMOUNT")
	for _, b := range r.Breakdown {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Component, b.Calculation, b.Amount)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, r.Response.ComplianceTier.Message())

	return tw.Flush()
}
