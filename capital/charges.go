package capital

import "github.com/shopspring/decimal"

// Charges holds the capital charge for each risk category.
type Charges struct {
	OperationalAUC      decimal.Decimal `json:"operationalAUC" yaml:"operationalAUC"`
	OperationalOverhead decimal.Decimal `json:"operationalOverhead" yaml:"operationalOverhead"`
	Market              decimal.Decimal `json:"market" yaml:"market"`
	Credit              decimal.Decimal `json:"credit" yaml:"credit"`
	Liquidity           decimal.Decimal `json:"liquidity" yaml:"liquidity"`
}

// Operational is the AUC-driven plus the overhead-driven charge.
func (c Charges) Operational() decimal.Decimal {
	return c.OperationalAUC.Add(c.OperationalOverhead)
}

// Total is the risk-based capital: the exact sum of all charges.
func (c Charges) Total() decimal.Decimal {
	return c.Operational().Add(c.Market).Add(c.Credit).Add(c.Liquidity)
}

// pct applies a percentage rate to a base amount.
func pct(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Shift(-2)
}

func OperationalAUCCharge(auc, weightPct decimal.Decimal) decimal.Decimal {
	return pct(auc, weightPct)
}

// OperationalOverheadCharge uses a raw multiplier, not a percentage.
func OperationalOverheadCharge(monthlyOverheads, factor decimal.Decimal) decimal.Decimal {
	return monthlyOverheads.Mul(factor)
}

// MarketCharge only ever sees the firm's own treasury holdings. Client
// assets in custody are not the firm's market exposure.
func MarketCharge(ownHoldings, volatilityPct decimal.Decimal) decimal.Decimal {
	return pct(ownHoldings, volatilityPct)
}

func CreditCharge(exposure, weightPct decimal.Decimal) decimal.Decimal {
	return pct(exposure, weightPct)
}

func LiquidityCharge(outflow30Day, factorPct decimal.Decimal) decimal.Decimal {
	return pct(outflow30Day, factorPct)
}

// CalculateCharges computes the four independent charges. No charge reads
// another charge's result.
func CalculateCharges(in BusinessInputs, p RiskParameters) Charges {
	return Charges{
		OperationalAUC:      OperationalAUCCharge(in.TotalAUC, p.OperationalRiskWeightOnAUC),
		OperationalOverhead: OperationalOverheadCharge(in.MonthlyFixedOverheads, p.OperationalRiskFactorOnOverheads),
		Market:              MarketCharge(in.OwnCryptoHoldings, p.MarketVolatilityFactor),
		Credit:              CreditCharge(in.CounterpartyExposure, p.CounterpartyRiskWeight),
		Liquidity:           LiquidityCharge(in.ProjectedCashOutflow30Day, p.LiquidityFactor),
	}
}
