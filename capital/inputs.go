package capital

import "github.com/shopspring/decimal"

// Field names an input figure or risk parameter. The names match the
// request contract so errors and stress targets point at wire fields.
type Field string

const (
	FieldTotalAUC                  Field = "totalAUC"
	FieldMonthlyFixedOverheads     Field = "monthlyFixedOverheads"
	FieldOwnCryptoHoldings         Field = "ownCryptoHoldings"
	FieldCounterpartyExposure      Field = "counterpartyExposure"
	FieldProjectedCashOutflow30Day Field = "projectedCashOutflow30Day"
	FieldTier1Capital              Field = "tier1Capital"
	FieldTier2Capital              Field = "tier2Capital"

	FieldOperationalRiskWeightOnAUC       Field = "operationalRiskWeightOnAUC"
	FieldOperationalRiskFactorOnOverheads Field = "operationalRiskFactorOnOverheads"
	FieldMarketVolatilityFactor           Field = "marketVolatilityFactor"
	FieldCounterpartyRiskWeight           Field = "counterpartyRiskWeight"
	FieldLiquidityFactor                  Field = "liquidityFactor"

	FieldExchangeRate Field = "exchangeRate"
	FieldPreset       Field = "preset"
)

// BusinessFields lists the business figures in report order.
var BusinessFields = []Field{
	FieldTotalAUC,
	FieldMonthlyFixedOverheads,
	FieldOwnCryptoHoldings,
	FieldCounterpartyExposure,
	FieldProjectedCashOutflow30Day,
	FieldTier1Capital,
	FieldTier2Capital,
}

// ParameterFields lists the risk parameters in report order.
var ParameterFields = []Field{
	FieldOperationalRiskWeightOnAUC,
	FieldOperationalRiskFactorOnOverheads,
	FieldMarketVolatilityFactor,
	FieldCounterpartyRiskWeight,
	FieldLiquidityFactor,
}

// DefaultConvertFields are the figures sourced from the P&L and therefore
// quoted in the secondary currency unless a request says otherwise.
var DefaultConvertFields = []string{
	string(FieldTotalAUC),
	string(FieldMonthlyFixedOverheads),
}

// BusinessInputs are the figures for one evaluation, in reporting currency.
type BusinessInputs struct {
	TotalAUC                  decimal.Decimal `json:"totalAUC" yaml:"totalAUC"`
	MonthlyFixedOverheads     decimal.Decimal `json:"monthlyFixedOverheads" yaml:"monthlyFixedOverheads"`
	OwnCryptoHoldings         decimal.Decimal `json:"ownCryptoHoldings" yaml:"ownCryptoHoldings"` // treasury, not client assets
	CounterpartyExposure      decimal.Decimal `json:"counterpartyExposure" yaml:"counterpartyExposure"`
	ProjectedCashOutflow30Day decimal.Decimal `json:"projectedCashOutflow30Day" yaml:"projectedCashOutflow30Day"`
	Tier1Capital              decimal.Decimal `json:"tier1Capital" yaml:"tier1Capital"`
	Tier2Capital              decimal.Decimal `json:"tier2Capital" yaml:"tier2Capital"`
}

// ref returns a pointer to the named figure, or nil for a non-business field.
func (b *BusinessInputs) ref(f Field) *decimal.Decimal {
	switch f {
	case FieldTotalAUC:
		return &b.TotalAUC
	case FieldMonthlyFixedOverheads:
		return &b.MonthlyFixedOverheads
	case FieldOwnCryptoHoldings:
		return &b.OwnCryptoHoldings
	case FieldCounterpartyExposure:
		return &b.CounterpartyExposure
	case FieldProjectedCashOutflow30Day:
		return &b.ProjectedCashOutflow30Day
	case FieldTier1Capital:
		return &b.Tier1Capital
	case FieldTier2Capital:
		return &b.Tier2Capital
	}
	return nil
}

// Value returns the named figure.
func (b BusinessInputs) Value(f Field) (decimal.Decimal, bool) {
	p := b.ref(f)
	if p == nil {
		return decimal.Zero, false
	}
	return *p, true
}

// EligibleCapital is tier 1 plus tier 2.
func (b BusinessInputs) EligibleCapital() decimal.Decimal {
	return b.Tier1Capital.Add(b.Tier2Capital)
}

// Validate rejects negative figures.
func (b BusinessInputs) Validate() error {
	var v violations
	for _, f := range BusinessFields {
		val, _ := b.Value(f)
		if val.IsNegative() {
			v.add(ErrInvalidInput, f, val, "must not be negative")
		}
	}
	return v.err()
}
