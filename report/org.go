package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/capital/id"
)

// FormatOrg renders the report as an Org-mode entry. Structured facts go
// in the PROPERTIES drawer, tables follow as Org tables.
func FormatOrg(r Report) string {
	m := r.Meta
	resp := r.Response

	var b strings.Builder
	fmt.Fprintf(&b, "** Capital Adequacy: %s (%s)\n", m.Company, id.Short(m.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", m.ID)
	fmt.Fprintf(&b, ":COMPANY: %s\n", m.Company)
	if m.ServiceType != "" {
		fmt.Fprintf(&b, ":SERVICE_TYPE: %s\n", m.ServiceType)
	}
	if m.ProjectionYear != "" {
		fmt.Fprintf(&b, ":PROJECTION: %s\n", m.ProjectionYear)
	}
	fmt.Fprintf(&b, ":CALCULATION_DATE: %s\n", m.CalculationDate.Format(time.DateOnly))
	fmt.Fprintf(&b, ":CURRENCY: %s\n", m.currency())
	fmt.Fprintf(&b, ":REQUIREMENT: %s\n", resp.CapitalRequirement.StringFixed(2))
	fmt.Fprintf(&b, ":BINDING_METHOD: %s\n", resp.BindingMethod)
	fmt.Fprintf(&b, ":ELIGIBLE_CAPITAL: %s\n", resp.EligibleCapital.StringFixed(2))
	fmt.Fprintf(&b, ":CAR: %s\n", ratioValue(resp.AdequacyRatio))
	fmt.Fprintf(&b, ":TIER: %s\n", resp.ComplianceTier)
	b.WriteString(":END:\n\n")

	b.WriteString("*** Summary\n")
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "| %s | %s |\n", row.Parameter, row.Value)
	}
	b.WriteString("\n*** Breakdown\n")
	b.WriteString("| Component | Calculation | Amount |\n|-\n")
	for _, c := range r.Breakdown {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", c.Component, c.Calculation, c.Amount)
	}

	if len(resp.StressResults) > 0 {
		b.WriteString("\n*** Stress\n")
		for _, s := range resp.StressResults {
			outcome := "compliant"
			if !s.Compliant {
				outcome = "breach"
			}
			fmt.Fprintf(&b, "- %s (%s %s): CAR %s, %s\n", s.Name, s.Target, s.Perturbation, ratioValue(s.Ratio), outcome)
		}
	}

	b.WriteString("\n*** Status\n- ")
	b.WriteString(resp.ComplianceTier.Message())
	b.WriteString("\n")
	return b.String()
}
