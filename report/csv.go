package report

import (
	"encoding/csv"
	"io"
)

// WriteCSV writes the flat Parameter,Value table.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Parameter", "Value"}); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if err := cw.Write([]string{row.Parameter, row.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBreakdownCSV writes the charge breakdown table.
func WriteBreakdownCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Component", "Calculation", "Amount"}); err != nil {
		return err
	}
	for _, b := range r.Breakdown {
		if err := cw.Write([]string{b.Component, b.Calculation, b.Amount}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
