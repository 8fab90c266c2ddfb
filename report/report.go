package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/capital/capital"
)

// Meta is the header information that does not come from the engine.
type Meta struct {
	ID               string           `json:"id"`
	Company          string           `json:"company"`
	ServiceType      string           `json:"service_type,omitempty"`
	ProjectionYear   string           `json:"projection_year,omitempty"`
	CalculationDate  time.Time        `json:"calculation_date"`
	Currency         string           `json:"currency"`
	ProjectedRevenue *decimal.Decimal `json:"projected_revenue,omitempty"`
	Allocation       *Allocation      `json:"allocation,omitempty"`
}

// Row is one Parameter/Value line of the flat report.
type Row struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

// BreakdownRow explains how one component of the requirement was reached.
type BreakdownRow struct {
	Component   string `json:"component"`
	Calculation string `json:"calculation"`
	Amount      string `json:"amount"`
}

// Report is a rendered evaluation ready for export.
type Report struct {
	Meta      Meta             `json:"meta"`
	Rows      []Row            `json:"rows"`
	Breakdown []BreakdownRow   `json:"breakdown"`
	Response  capital.Response `json:"response"`
}

// Money formats an amount rounded to whole units with thousands separators.
func Money(v decimal.Decimal) string {
	return humanize.BigComma(v.Round(0).BigInt())
}

func (m Meta) money(v decimal.Decimal) string {
	if m.Currency == "USD" || m.Currency == "" {
		return "$" + Money(v)
	}
	return Money(v) + " " + m.Currency
}

func (m Meta) currency() string {
	if m.Currency == "" {
		return "USD"
	}
	return m.Currency
}

// RevenueMarginBps is revenue over AUC in basis points. It is undefined
// for zero AUC.
func RevenueMarginBps(revenue, auc decimal.Decimal) (decimal.Decimal, bool) {
	if !auc.IsPositive() {
		return decimal.Zero, false
	}
	return revenue.Shift(4).Div(auc), true
}

// Build renders the flat report for a response.
func Build(meta Meta, resp capital.Response) Report {
	cur := meta.currency()
	in := resp.Inputs
	p := resp.Parameters

	rows := []Row{
		{"Report ID", meta.ID},
		{"Company", meta.Company},
		{"Calculation Date", meta.CalculationDate.Format(time.DateOnly)},
	}
	if meta.ProjectionYear != "" {
		rows = append(rows, Row{"Projection Year", meta.ProjectionYear})
	}
	if meta.ServiceType != "" {
		rows = append(rows, Row{"Service Type", meta.ServiceType})
	}

	rows = append(rows,
		Row{fmt.Sprintf("Total AUM (%s)", cur), Money(in.TotalAUC)},
		Row{fmt.Sprintf("Monthly Fixed Overheads (%s)", cur), Money(in.MonthlyFixedOverheads)},
	)
	if meta.Allocation != nil {
		rows = append(rows, meta.Allocation.rows(in.TotalAUC, cur)...)
	}
	if meta.ProjectedRevenue != nil {
		rows = append(rows, Row{fmt.Sprintf("Projected Custody Revenue (%s)", cur), Money(*meta.ProjectedRevenue)})
		if bps, ok := RevenueMarginBps(*meta.ProjectedRevenue, in.TotalAUC); ok {
			rows = append(rows, Row{"Revenue Margin (bps)", bps.StringFixed(0)})
		} else {
			rows = append(rows, Row{"Revenue Margin (bps)", notApplicable})
		}
	}

	rows = append(rows,
		Row{fmt.Sprintf("Risk-Based Capital (%s)", cur), Money(resp.TotalRiskBasedCapital)},
		Row{fmt.Sprintf("Fixed Overheads Capital (%s)", cur), Money(resp.FixedOverheadsFloor)},
		Row{fmt.Sprintf("Capital Requirement (%s)", cur), Money(resp.CapitalRequirement)},
		Row{"Binding Method", MethodLabel(resp.BindingMethod)},
		Row{fmt.Sprintf("Total Eligible Capital (%s)", cur), Money(resp.EligibleCapital)},
		Row{"Capital Adequacy Ratio (%)", ratioValue(resp.AdequacyRatio)},
		Row{"Compliance Status", TierLabel(resp.ComplianceTier)},
		Row{fmt.Sprintf("Surplus/(Deficit) (%s)", cur), Money(resp.SurplusOrDeficit)},
		Row{"Operational Risk Weight (%)", p.OperationalRiskWeightOnAUC.String()},
		Row{"Operational Risk Factor (x)", p.OperationalRiskFactorOnOverheads.String()},
		Row{"Market Volatility Factor (%)", p.MarketVolatilityFactor.String()},
		Row{"Counterparty Risk Weight (%)", p.CounterpartyRiskWeight.String()},
		Row{"Liquidity Factor (%)", p.LiquidityFactor.String()},
	)

	for _, s := range resp.StressResults {
		prefix := "Stress: " + s.Name
		rows = append(rows, Row{prefix + " CAR (%)", ratioValue(s.Ratio)})
		if s.Compliant {
			rows = append(rows, Row{prefix + " Outcome", "Would remain compliant"})
			continue
		}
		rows = append(rows, Row{prefix + " Outcome", "Would breach requirements"})
		if s.AdditionalCapitalNeeded != nil {
			rows = append(rows, Row{fmt.Sprintf("%s Additional Capital (%s)", prefix, cur), Money(*s.AdditionalCapitalNeeded)})
		}
	}

	return Report{
		Meta:      meta,
		Rows:      rows,
		Breakdown: Breakdown(meta, resp),
		Response:  resp,
	}
}

// Breakdown lists each charge with the arithmetic behind it.
func Breakdown(meta Meta, resp capital.Response) []BreakdownRow {
	in := resp.Inputs
	p := resp.Parameters
	c := resp.Charges
	m := meta.money

	return []BreakdownRow{
		{"Operational Capital Charge (AUM)", fmt.Sprintf("%s × %s%%", m(in.TotalAUC), p.OperationalRiskWeightOnAUC), m(c.OperationalAUC)},
		{"Operational Capital Charge (Overheads)", fmt.Sprintf("%s × %s", m(in.MonthlyFixedOverheads), p.OperationalRiskFactorOnOverheads), m(c.OperationalOverhead)},
		{"Market Capital Charge", fmt.Sprintf("%s × %s%%", m(in.OwnCryptoHoldings), p.MarketVolatilityFactor), m(c.Market)},
		{"Credit Capital Charge", fmt.Sprintf("%s × %s%%", m(in.CounterpartyExposure), p.CounterpartyRiskWeight), m(c.Credit)},
		{"Liquidity Capital Charge", fmt.Sprintf("%s × %s%%", m(in.ProjectedCashOutflow30Day), p.LiquidityFactor), m(c.Liquidity)},
		{"Total Risk-Based Capital", "Sum of above charges", m(resp.TotalRiskBasedCapital)},
		{fmt.Sprintf("Fixed Overheads Capital (%d months)", capital.FixedOverheadsMonths), fmt.Sprintf("%s × %d months", m(in.MonthlyFixedOverheads), capital.FixedOverheadsMonths), m(resp.FixedOverheadsFloor)},
		{"Final Capital Requirement", "Max(RBC, Fixed Overheads)", m(resp.CapitalRequirement)},
	}
}

const notApplicable = "n/a"

func ratioValue(r capital.Ratio) string {
	v, ok := r.Value()
	if !ok {
		return notApplicable
	}
	return v.StringFixed(1)
}

// MethodLabel is the display name of a binding method.
func MethodLabel(m capital.Method) string {
	switch m {
	case capital.MethodRiskBased:
		return "Risk-Based Capital"
	case capital.MethodFixedOverheads:
		return "Fixed Overheads Capital"
	}
	return string(m)
}

// TierLabel is the display name of a compliance tier.
func TierLabel(t capital.Tier) string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// Filename is the suggested export name for a report.
func Filename(meta Meta, ext string) string {
	company := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		case r == ' ', r == '_':
			return '_'
		}
		return -1
	}, meta.Company)
	return fmt.Sprintf("capital_adequacy_report_%s_%s.%s", company, meta.CalculationDate.Format(time.DateOnly), ext)
}
