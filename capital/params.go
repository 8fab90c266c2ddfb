package capital

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

const (
	// FixedOverheadsMonths is the operating-cost runway the floor covers.
	FixedOverheadsMonths = 6

	// InternalTargetRatio and MinimumRatio are percentages.
	InternalTargetRatio = 150
	MinimumRatio        = 100

	// DefaultPreset is used when a caller asks for a preset by empty name.
	DefaultPreset = "custody"
)

// RiskParameters drive the charge calculation. Percentages are expressed
// as percent (2.0 means 2%); the overhead factor is a raw multiplier.
type RiskParameters struct {
	OperationalRiskWeightOnAUC       decimal.Decimal `json:"operationalRiskWeightOnAUC" yaml:"operationalRiskWeightOnAUC"`             // % of AUC
	OperationalRiskFactorOnOverheads decimal.Decimal `json:"operationalRiskFactorOnOverheads" yaml:"operationalRiskFactorOnOverheads"` // x monthly overheads
	MarketVolatilityFactor           decimal.Decimal `json:"marketVolatilityFactor" yaml:"marketVolatilityFactor"`                     // % of own holdings
	CounterpartyRiskWeight           decimal.Decimal `json:"counterpartyRiskWeight" yaml:"counterpartyRiskWeight"`                     // % of exposure
	LiquidityFactor                  decimal.Decimal `json:"liquidityFactor" yaml:"liquidityFactor"`                                   // % of 30-day outflow
}

func (p *RiskParameters) ref(f Field) *decimal.Decimal {
	switch f {
	case FieldOperationalRiskWeightOnAUC:
		return &p.OperationalRiskWeightOnAUC
	case FieldOperationalRiskFactorOnOverheads:
		return &p.OperationalRiskFactorOnOverheads
	case FieldMarketVolatilityFactor:
		return &p.MarketVolatilityFactor
	case FieldCounterpartyRiskWeight:
		return &p.CounterpartyRiskWeight
	case FieldLiquidityFactor:
		return &p.LiquidityFactor
	}
	return nil
}

// Value returns the named parameter.
func (p RiskParameters) Value(f Field) (decimal.Decimal, bool) {
	r := p.ref(f)
	if r == nil {
		return decimal.Zero, false
	}
	return *r, true
}

// Validate checks every parameter against its declared range.
func (p RiskParameters) Validate(b ParameterBounds) error {
	var v violations
	for _, f := range ParameterFields {
		val, _ := p.Value(f)
		r := b.Range(f)
		if !r.Contains(val) {
			v.add(ErrConfiguration, f, val, "must be within "+r.String())
		}
	}
	return v.err()
}

// Range is an inclusive valid interval for one parameter.
type Range struct {
	Min decimal.Decimal `json:"min" yaml:"min"`
	Max decimal.Decimal `json:"max" yaml:"max"`
}

func (r Range) Contains(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(r.Min) && v.LessThanOrEqual(r.Max)
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", r.Min, r.Max)
}

// ParameterBounds declares the valid range of each risk parameter.
type ParameterBounds struct {
	OperationalRiskWeightOnAUC       Range `json:"operationalRiskWeightOnAUC" yaml:"operationalRiskWeightOnAUC"`
	OperationalRiskFactorOnOverheads Range `json:"operationalRiskFactorOnOverheads" yaml:"operationalRiskFactorOnOverheads"`
	MarketVolatilityFactor           Range `json:"marketVolatilityFactor" yaml:"marketVolatilityFactor"`
	CounterpartyRiskWeight           Range `json:"counterpartyRiskWeight" yaml:"counterpartyRiskWeight"`
	LiquidityFactor                  Range `json:"liquidityFactor" yaml:"liquidityFactor"`
}

func rng(lo, hi string) Range {
	return Range{Min: decimal.RequireFromString(lo), Max: decimal.RequireFromString(hi)}
}

// DefaultBounds returns the ranges the custody framework allows.
func DefaultBounds() ParameterBounds {
	return ParameterBounds{
		OperationalRiskWeightOnAUC:       rng("0.1", "3.0"),
		OperationalRiskFactorOnOverheads: rng("1.0", "2.5"),
		MarketVolatilityFactor:           rng("10", "60"),
		CounterpartyRiskWeight:           rng("0.5", "3.0"),
		LiquidityFactor:                  rng("10", "40"),
	}
}

// Range returns the range declared for f. Unknown fields get an empty
// range, which contains only zero.
func (b ParameterBounds) Range(f Field) Range {
	switch f {
	case FieldOperationalRiskWeightOnAUC:
		return b.OperationalRiskWeightOnAUC
	case FieldOperationalRiskFactorOnOverheads:
		return b.OperationalRiskFactorOnOverheads
	case FieldMarketVolatilityFactor:
		return b.MarketVolatilityFactor
	case FieldCounterpartyRiskWeight:
		return b.CounterpartyRiskWeight
	case FieldLiquidityFactor:
		return b.LiquidityFactor
	}
	return Range{}
}

func params(opw, opf, vol, cpty, liq string) RiskParameters {
	return RiskParameters{
		OperationalRiskWeightOnAUC:       decimal.RequireFromString(opw),
		OperationalRiskFactorOnOverheads: decimal.RequireFromString(opf),
		MarketVolatilityFactor:           decimal.RequireFromString(vol),
		CounterpartyRiskWeight:           decimal.RequireFromString(cpty),
		LiquidityFactor:                  decimal.RequireFromString(liq),
	}
}

// presets are the service-type variants. A new service type is a new row
// here, not a new code path.
var presets = map[string]RiskParameters{
	"custody":         params("2.0", "1.5", "40", "1.0", "25"),
	"custody-trading": params("2.5", "2.0", "50", "1.5", "30"),
}

// Preset returns the named parameter set. An empty name selects DefaultPreset.
func Preset(name string) (RiskParameters, error) {
	if name == "" {
		name = DefaultPreset
	}
	p, ok := presets[name]
	if !ok {
		return RiskParameters{}, &FieldError{
			Kind:   ErrConfiguration,
			Field:  FieldPreset,
			Value:  name,
			Reason: fmt.Sprintf("must be one of %v", PresetNames()),
		}
	}
	return p, nil
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for k := range presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
