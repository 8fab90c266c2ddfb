package config

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/capital/capital"
)

// Projection is one year of the business plan, quoted in the plan currency.
type Projection struct {
	Year                  int             `json:"year" yaml:"year"`
	Label                 string          `json:"label" yaml:"label"`
	CustodyRevenue        decimal.Decimal `json:"custody_revenue" yaml:"custody_revenue"`
	TotalAUM              decimal.Decimal `json:"total_aum" yaml:"total_aum"`
	MonthlyFixedOverheads decimal.Decimal `json:"monthly_fixed_overheads" yaml:"monthly_fixed_overheads"`
	CashEquivalents       decimal.Decimal `json:"cash_equivalents" yaml:"cash_equivalents"`
	TotalEquity           decimal.Decimal `json:"total_equity" yaml:"total_equity"`
}

var (
	// Treasury crypto is held in the reporting currency, not the plan currency.
	defaultOwnCryptoHoldings = decimal.NewFromInt(50000)

	// Expected monthly client withdrawals as a share of AUC.
	outflowShareOfAUC = decimal.RequireFromString("0.05")
)

// ProjectionConvertFields are the figures a projection supplies in the plan
// currency. Own crypto holdings and tier 2 are already in reporting currency.
var ProjectionConvertFields = []string{
	string(capital.FieldTotalAUC),
	string(capital.FieldMonthlyFixedOverheads),
	string(capital.FieldCounterpartyExposure),
	string(capital.FieldProjectedCashOutflow30Day),
	string(capital.FieldTier1Capital),
}

func proj(year int, label string, revenue, aum, overheads, cash, equity int64) Projection {
	return Projection{
		Year:                  year,
		Label:                 label,
		CustodyRevenue:        decimal.NewFromInt(revenue),
		TotalAUM:              decimal.NewFromInt(aum),
		MonthlyFixedOverheads: decimal.NewFromInt(overheads),
		CashEquivalents:       decimal.NewFromInt(cash),
		TotalEquity:           decimal.NewFromInt(equity),
	}
}

// P&L and balance sheet projections, EUR.
var projections = map[int]Projection{
	2025: proj(2025, "Year 1 (2025)", 766431, 557480000, 282474, 854369, 6810634),
	2026: proj(2026, "Year 2 (2026)", 1761258, 1474200000, 597529, 11286899, 20515638),
	2027: proj(2027, "Year 3 (2027)", 4754602, 2882200000, 624668, 20126629, 29509237),
}

// ProjectionFor returns the projection for a plan year.
func ProjectionFor(year int) (Projection, error) {
	p, ok := projections[year]
	if !ok {
		return Projection{}, fmt.Errorf("unknown projection year: %d", year)
	}
	return p, nil
}

// Projections returns every projection in year order.
func Projections() []Projection {
	out := make([]Projection, 0, len(projections))
	for _, p := range projections {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Business derives the evaluation figures from the plan. Counterparty
// exposure is the cash held with banking partners, tier 1 is total
// equity, and the 30-day outflow is 5% of AUC.
func (p Projection) Business() capital.BusinessInputs {
	return capital.BusinessInputs{
		TotalAUC:                  p.TotalAUM,
		MonthlyFixedOverheads:     p.MonthlyFixedOverheads,
		OwnCryptoHoldings:         defaultOwnCryptoHoldings,
		CounterpartyExposure:      p.CashEquivalents,
		ProjectedCashOutflow30Day: p.TotalAUM.Mul(outflowShareOfAUC),
		Tier1Capital:              decimal.Max(decimal.Zero, p.TotalEquity),
		Tier2Capital:              decimal.Zero,
	}
}
