package capital

import "github.com/shopspring/decimal"

// Method names the calculation that set the capital requirement.
type Method string

const (
	MethodRiskBased      Method = "risk_based"
	MethodFixedOverheads Method = "fixed_overheads"
)

// Requirement is the binding capital requirement and how it was reached.
type Requirement struct {
	TotalRiskBased      decimal.Decimal `json:"totalRiskBasedCapital" yaml:"totalRiskBasedCapital"`
	FixedOverheadsFloor decimal.Decimal `json:"fixedOverheadsFloor" yaml:"fixedOverheadsFloor"`
	Amount              decimal.Decimal `json:"capitalRequirement" yaml:"capitalRequirement"`
	Method              Method          `json:"bindingMethod" yaml:"bindingMethod"`
}

// FixedOverheadsFloor is the minimum requirement: six months of overheads.
func FixedOverheadsFloor(monthlyOverheads decimal.Decimal) decimal.Decimal {
	return monthlyOverheads.Mul(decimal.NewFromInt(FixedOverheadsMonths))
}

// ResolveRequirement takes the greater of risk-based capital and the
// overheads floor. An exact tie is labelled risk-based.
//
// floorOverheads is passed separately from the charges so a stress run can
// keep the baseline floor while stressing the overhead charge.
func ResolveRequirement(c Charges, floorOverheads decimal.Decimal) Requirement {
	r := Requirement{
		TotalRiskBased:      c.Total(),
		FixedOverheadsFloor: FixedOverheadsFloor(floorOverheads),
	}
	if r.TotalRiskBased.GreaterThanOrEqual(r.FixedOverheadsFloor) {
		r.Amount = r.TotalRiskBased
		r.Method = MethodRiskBased
	} else {
		r.Amount = r.FixedOverheadsFloor
		r.Method = MethodFixedOverheads
	}
	return r
}
