package capital

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/capital/currency"
)

// Request is everything one evaluation needs. It is built once by the
// caller and passed by value; the engine keeps no reference to it.
//
// Risk parameters left nil are taken from Preset. With no preset they are
// required.
type Request struct {
	TotalAUC           decimal.Decimal  `json:"totalAUC" yaml:"totalAUC"`
	ExchangeRate       *decimal.Decimal `json:"exchangeRate,omitempty" yaml:"exchangeRate,omitempty"`
	ExchangeRateBounds *currency.Bounds `json:"exchangeRateBounds,omitempty" yaml:"exchangeRateBounds,omitempty"`
	SourceCurrency     string           `json:"sourceCurrency,omitempty" yaml:"sourceCurrency,omitempty"`
	ReportingCurrency  string           `json:"reportingCurrency,omitempty" yaml:"reportingCurrency,omitempty"`
	ConvertFields      []string         `json:"convertFields,omitempty" yaml:"convertFields,omitempty"`

	MonthlyFixedOverheads     decimal.Decimal `json:"monthlyFixedOverheads" yaml:"monthlyFixedOverheads"`
	OwnCryptoHoldings         decimal.Decimal `json:"ownCryptoHoldings" yaml:"ownCryptoHoldings"`
	CounterpartyExposure      decimal.Decimal `json:"counterpartyExposure" yaml:"counterpartyExposure"`
	ProjectedCashOutflow30Day decimal.Decimal `json:"projectedCashOutflow30Day" yaml:"projectedCashOutflow30Day"`
	Tier1Capital              decimal.Decimal `json:"tier1Capital" yaml:"tier1Capital"`
	Tier2Capital              decimal.Decimal `json:"tier2Capital" yaml:"tier2Capital"`

	Preset                           string           `json:"preset,omitempty" yaml:"preset,omitempty"`
	OperationalRiskWeightOnAUC       *decimal.Decimal `json:"operationalRiskWeightOnAUC,omitempty" yaml:"operationalRiskWeightOnAUC,omitempty"`
	OperationalRiskFactorOnOverheads *decimal.Decimal `json:"operationalRiskFactorOnOverheads,omitempty" yaml:"operationalRiskFactorOnOverheads,omitempty"`
	MarketVolatilityFactor           *decimal.Decimal `json:"marketVolatilityFactor,omitempty" yaml:"marketVolatilityFactor,omitempty"`
	CounterpartyRiskWeight           *decimal.Decimal `json:"counterpartyRiskWeight,omitempty" yaml:"counterpartyRiskWeight,omitempty"`
	LiquidityFactor                  *decimal.Decimal `json:"liquidityFactor,omitempty" yaml:"liquidityFactor,omitempty"`

	StressScenarios []StressScenario `json:"stressScenarios" yaml:"stressScenarios"`
}

// Business returns the request's figures as given, before conversion.
func (r Request) Business() BusinessInputs {
	return BusinessInputs{
		TotalAUC:                  r.TotalAUC,
		MonthlyFixedOverheads:     r.MonthlyFixedOverheads,
		OwnCryptoHoldings:         r.OwnCryptoHoldings,
		CounterpartyExposure:      r.CounterpartyExposure,
		ProjectedCashOutflow30Day: r.ProjectedCashOutflow30Day,
		Tier1Capital:              r.Tier1Capital,
		Tier2Capital:              r.Tier2Capital,
	}
}

// Conversion describes the request's currency normalisation, or nil when
// every figure is already in the reporting currency.
func (r Request) Conversion() *currency.Conversion {
	if r.ExchangeRate == nil {
		return nil
	}
	return &currency.Conversion{
		From:   r.SourceCurrency,
		To:     r.ReportingCurrency,
		Rate:   *r.ExchangeRate,
		Bounds: r.ExchangeRateBounds,
		Fields: r.ConvertFields,
	}
}

// Parameters resolves the risk parameters: explicit values override the
// preset. Missing values with no preset are configuration errors.
func (r Request) Parameters() (RiskParameters, error) {
	var (
		p RiskParameters
		v violations
	)
	if r.Preset != "" {
		base, err := Preset(r.Preset)
		if err != nil {
			return RiskParameters{}, err
		}
		p = base
	}

	explicit := map[Field]*decimal.Decimal{
		FieldOperationalRiskWeightOnAUC:       r.OperationalRiskWeightOnAUC,
		FieldOperationalRiskFactorOnOverheads: r.OperationalRiskFactorOnOverheads,
		FieldMarketVolatilityFactor:           r.MarketVolatilityFactor,
		FieldCounterpartyRiskWeight:           r.CounterpartyRiskWeight,
		FieldLiquidityFactor:                  r.LiquidityFactor,
	}
	for _, f := range ParameterFields {
		val := explicit[f]
		switch {
		case val != nil:
			*p.ref(f) = *val
		case r.Preset == "":
			v.addf(ErrConfiguration, f, "is required when no preset is named")
		}
	}
	return p, v.err()
}

// Normalize converts the secondary-currency figures into the reporting
// currency. Negative figures and bad rates are rejected together.
func Normalize(in BusinessInputs, conv *currency.Conversion) (BusinessInputs, error) {
	var v violations
	v.merge(in.Validate())

	if conv == nil {
		return in, v.err()
	}

	bounds, err := conv.EffectiveBounds()
	if err != nil {
		v.addf(ErrInvalidInput, FieldExchangeRate, "%v", err)
		return in, v.err()
	}
	if err := currency.CheckRate(conv.Rate, bounds); err != nil {
		v.add(ErrInvalidInput, FieldExchangeRate, conv.Rate, err.Error())
		return in, v.err()
	}
	for _, name := range conv.Fields {
		if in.ref(Field(name)) == nil {
			v.addf(ErrInvalidInput, "convertFields", "unknown business field %q", name)
		}
	}
	if len(v) > 0 {
		return in, v.err()
	}

	out := in
	for _, f := range BusinessFields {
		if !conv.Applies(string(f), DefaultConvertFields) {
			continue
		}
		ref := out.ref(f)
		converted, err := currency.Convert(*ref, conv.Rate, bounds)
		if err != nil {
			return in, err
		}
		*ref = converted
	}
	return out, nil
}

// Assessment is the baseline evaluation of one set of inputs.
type Assessment struct {
	Charges     Charges
	Requirement Requirement
	Adequacy    Adequacy
}

// Assess runs charges, requirement and adequacy over valid inputs.
func Assess(in BusinessInputs, p RiskParameters) Assessment {
	charges := CalculateCharges(in, p)
	req := ResolveRequirement(charges, in.MonthlyFixedOverheads)
	return Assessment{
		Charges:     charges,
		Requirement: req,
		Adequacy:    EvaluateAdequacy(in.EligibleCapital(), req.Amount),
	}
}

// Response is the structured result rendered by the presentation layer.
type Response struct {
	Charges               Charges         `json:"charges"`
	TotalRiskBasedCapital decimal.Decimal `json:"totalRiskBasedCapital"`
	FixedOverheadsFloor   decimal.Decimal `json:"fixedOverheadsFloor"`
	CapitalRequirement    decimal.Decimal `json:"capitalRequirement"`
	BindingMethod         Method          `json:"bindingMethod"`
	EligibleCapital       decimal.Decimal `json:"eligibleCapital"`
	AdequacyRatio         Ratio           `json:"adequacyRatio"`
	ComplianceTier        Tier            `json:"complianceTier"`
	SurplusOrDeficit      decimal.Decimal `json:"surplusOrDeficit"`
	StressResults         []StressResult  `json:"stressResults"`

	Inputs     BusinessInputs `json:"inputs"`
	Parameters RiskParameters `json:"parameters"`
}

// Evaluate validates the request against the default parameter bounds
// and runs the full pipeline.
func Evaluate(req Request) (Response, error) {
	return EvaluateWithBounds(req, DefaultBounds())
}

// EvaluateWithBounds is Evaluate with caller-declared parameter ranges.
// All validation completes before any charge is computed; a rejected
// request yields no partial result.
func EvaluateWithBounds(req Request, bounds ParameterBounds) (Response, error) {
	var v violations

	in, err := Normalize(req.Business(), req.Conversion())
	v.merge(err)

	p, err := req.Parameters()
	v.merge(err)
	if err == nil {
		v.merge(p.Validate(bounds))
	}

	if len(v) == 0 {
		v.merge(ValidateScenarios(req.StressScenarios, in, p))
	}
	if err := v.err(); err != nil {
		return Response{}, err
	}

	a := Assess(in, p)
	stress, err := RunStress(in, p, req.StressScenarios)
	if err != nil {
		return Response{}, err
	}

	return Response{
		Charges:               a.Charges,
		TotalRiskBasedCapital: a.Requirement.TotalRiskBased,
		FixedOverheadsFloor:   a.Requirement.FixedOverheadsFloor,
		CapitalRequirement:    a.Requirement.Amount,
		BindingMethod:         a.Requirement.Method,
		EligibleCapital:       a.Adequacy.EligibleCapital,
		AdequacyRatio:         a.Adequacy.Ratio,
		ComplianceTier:        a.Adequacy.Tier,
		SurplusOrDeficit:      a.Adequacy.SurplusOrDeficit,
		StressResults:         stress,
		Inputs:                in,
		Parameters:            p,
	}, nil
}
