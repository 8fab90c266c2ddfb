package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// Extension is the file extension for a report format.
func Extension(format string) string {
	switch format {
	case "table":
		return "txt"
	default:
		return format
	}
}

// WriteJSON writes the report with its full structured response.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Write renders the report in the named format.
func Write(w io.Writer, format string, r Report) error {
	switch format {
	case "csv":
		return WriteCSV(w, r)
	case "table", "":
		return WriteTable(w, r)
	case "org":
		_, err := io.WriteString(w, FormatOrg(r))
		return err
	case "json":
		return WriteJSON(w, r)
	}
	return fmt.Errorf("unknown report format: %q", format)
}

// Exporter picks the writer and file extension for a format. With
// breakdown set the charge breakdown table is exported in place of the
// flat report; only csv carries it.
func Exporter(format string, breakdown bool) (func(io.Writer, Report) error, string, error) {
	if !breakdown {
		return func(w io.Writer, r Report) error { return Write(w, format, r) }, Extension(format), nil
	}
	if format != "csv" {
		return nil, "", fmt.Errorf("breakdown export needs csv format, got %q", format)
	}
	return WriteBreakdownCSV, "breakdown.csv", nil
}
