package capital

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Op is how a perturbation changes its target.
type Op string

const (
	OpScale Op = "scale" // value x factor
	OpShift Op = "shift" // value + delta
	OpSet   Op = "set"   // replaced by value
)

// Perturbation is a single change applied to one field.
type Perturbation struct {
	Op    Op              `json:"op" yaml:"op"`
	Value decimal.Decimal `json:"value" yaml:"value"`
}

func (p Perturbation) apply(v decimal.Decimal) (decimal.Decimal, error) {
	switch p.Op {
	case OpScale:
		return v.Mul(p.Value), nil
	case OpShift:
		return v.Add(p.Value), nil
	case OpSet:
		return p.Value, nil
	}
	return v, fmt.Errorf("unknown perturbation op %q", p.Op)
}

func (p Perturbation) String() string {
	switch p.Op {
	case OpScale:
		return "x" + p.Value.String()
	case OpShift:
		if p.Value.IsNegative() {
			return p.Value.String()
		}
		return "+" + p.Value.String()
	case OpSet:
		return "=" + p.Value.String()
	}
	return string(p.Op)
}

// StressScenario perturbs exactly one input or parameter. Every other
// figure keeps its baseline value.
//
// The fixed-overheads floor is computed from baseline overheads even when
// the scenario stresses overheads, unless RestressFloor is set.
type StressScenario struct {
	Name          string       `json:"name" yaml:"name" validate:"required"`
	Target        Field        `json:"targetField" yaml:"targetField"`
	Perturbation  Perturbation `json:"perturbation" yaml:"perturbation"`
	RestressFloor bool         `json:"restressFloor,omitempty" yaml:"restressFloor,omitempty"`
}

// StressResult is the outcome of one scenario.
type StressResult struct {
	Name                    string           `json:"name" yaml:"name"`
	Target                  Field            `json:"targetField" yaml:"targetField"`
	Perturbation            Perturbation     `json:"perturbation" yaml:"perturbation"`
	Charges                 Charges          `json:"charges" yaml:"charges"`
	Requirement             Requirement      `json:"requirement" yaml:"requirement"`
	EligibleCapital         decimal.Decimal  `json:"eligibleCapital" yaml:"eligibleCapital"`
	Ratio                   Ratio            `json:"ratio" yaml:"-"`
	Compliant               bool             `json:"compliant" yaml:"compliant"`
	AdditionalCapitalNeeded *decimal.Decimal `json:"additionalCapitalNeeded,omitempty" yaml:"additionalCapitalNeeded,omitempty"`
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// DefaultScenarios are the four canonical single-factor stresses.
func DefaultScenarios() []StressScenario {
	return []StressScenario{
		{
			Name:         "Market Crash (30% AUM decline)",
			Target:       FieldTotalAUC,
			Perturbation: Perturbation{Op: OpScale, Value: d("0.7")},
		},
		{
			Name:         "Crypto Bear Market (60% volatility)",
			Target:       FieldMarketVolatilityFactor,
			Perturbation: Perturbation{Op: OpSet, Value: d("60")},
		},
		{
			Name:         "Mass Custody Withdrawals (3x outflow)",
			Target:       FieldProjectedCashOutflow30Day,
			Perturbation: Perturbation{Op: OpScale, Value: d("3")},
		},
		{
			Name:         "Operational Incident (2x overhead costs)",
			Target:       FieldMonthlyFixedOverheads,
			Perturbation: Perturbation{Op: OpScale, Value: d("2")},
		},
	}
}

// apply returns stressed copies of the baseline. The baseline is untouched.
func (s StressScenario) apply(in BusinessInputs, p RiskParameters) (BusinessInputs, RiskParameters, error) {
	target := in.ref(s.Target)
	if target == nil {
		target = p.ref(s.Target)
	}
	if target == nil {
		return in, p, fmt.Errorf("unknown target field %q", s.Target)
	}
	v, err := s.Perturbation.apply(*target)
	if err != nil {
		return in, p, err
	}
	if v.IsNegative() {
		return in, p, fmt.Errorf("perturbation %s takes %s negative (%s)", s.Perturbation, s.Target, v)
	}
	*target = v
	return in, p, nil
}

// validate checks a scenario against the baseline before anything is computed.
func (s StressScenario) validate(field Field, in BusinessInputs, p RiskParameters) error {
	var v violations
	if s.Name == "" {
		v.addf(ErrInvalidInput, field+".name", "is required")
	}
	switch s.Perturbation.Op {
	case OpScale, OpSet:
		if s.Perturbation.Value.IsNegative() {
			v.add(ErrInvalidInput, field+".perturbation.value", s.Perturbation.Value, "must not be negative")
		}
	case OpShift:
	default:
		v.addf(ErrInvalidInput, field+".perturbation.op", "must be one of scale, shift, set (got %q)", s.Perturbation.Op)
	}
	if len(v) == 0 {
		if _, _, err := s.apply(in, p); err != nil {
			v.addf(ErrInvalidInput, field+".targetField", "%v", err)
		}
	}
	return v.err()
}

// ValidateScenarios checks all scenarios against the baseline.
func ValidateScenarios(scenarios []StressScenario, in BusinessInputs, p RiskParameters) error {
	var v violations
	for i, s := range scenarios {
		v.merge(s.validate(Field(fmt.Sprintf("stressScenarios[%d]", i)), in, p))
	}
	return v.err()
}

// Stress re-runs the charge, requirement and adequacy steps for one
// scenario against the shared baseline. The baseline and the scenario are
// validated first; a rejected scenario yields no result.
func Stress(in BusinessInputs, p RiskParameters, s StressScenario) (StressResult, error) {
	if err := in.Validate(); err != nil {
		return StressResult{}, err
	}
	if err := s.validate("stressScenario", in, p); err != nil {
		return StressResult{}, err
	}
	return stress(in, p, s)
}

func stress(in BusinessInputs, p RiskParameters, s StressScenario) (StressResult, error) {
	sin, sp, err := s.apply(in, p)
	if err != nil {
		return StressResult{}, fmt.Errorf("stress %q: %w", s.Name, err)
	}

	floorOverheads := in.MonthlyFixedOverheads
	if s.RestressFloor {
		floorOverheads = sin.MonthlyFixedOverheads
	}

	charges := CalculateCharges(sin, sp)
	req := ResolveRequirement(charges, floorOverheads)
	eligible := sin.EligibleCapital()
	ratio := AdequacyRatio(eligible, req.Amount)

	res := StressResult{
		Name:            s.Name,
		Target:          s.Target,
		Perturbation:    s.Perturbation,
		Charges:         charges,
		Requirement:     req,
		EligibleCapital: eligible,
		Ratio:           ratio,
		// A zero requirement cannot be breached.
		Compliant: !ratio.Applicable() || ratio.AtLeast(MinimumRatio),
	}
	if !res.Compliant {
		need := req.Amount.Mul(decimal.NewFromInt(MinimumRatio)).Shift(-2).Sub(eligible)
		res.AdditionalCapitalNeeded = &need
	}
	return res, nil
}

// RunStress evaluates each scenario independently, in order.
func RunStress(in BusinessInputs, p RiskParameters, scenarios []StressScenario) ([]StressResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateScenarios(scenarios, in, p); err != nil {
		return nil, err
	}
	out := make([]StressResult, 0, len(scenarios))
	for _, s := range scenarios {
		res, err := stress(in, p, s)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
