package report

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Allocation splits AUC across asset classes, in percent of the total.
// Whatever Bitcoin and Ethereum leave over is reported as other assets.
type Allocation struct {
	Bitcoin  decimal.Decimal `json:"bitcoin" yaml:"bitcoin"`
	Ethereum decimal.Decimal `json:"ethereum" yaml:"ethereum"`
}

// Other is the share not held in Bitcoin or Ethereum.
func (a Allocation) Other() decimal.Decimal {
	return hundred.Sub(a.Bitcoin).Sub(a.Ethereum)
}

// Validate requires each share in [0, 100] and the named shares to fit
// within the whole.
func (a Allocation) Validate() error {
	for _, s := range []struct {
		name string
		v    decimal.Decimal
	}{{"bitcoin", a.Bitcoin}, {"ethereum", a.Ethereum}} {
		if s.v.IsNegative() || s.v.GreaterThan(hundred) {
			return fmt.Errorf("allocation.%s must be within [0, 100] (got %s)", s.name, s.v)
		}
	}
	if a.Other().IsNegative() {
		return fmt.Errorf("allocation shares add up to %s%%, more than 100%%", a.Bitcoin.Add(a.Ethereum))
	}
	return nil
}

func (a Allocation) rows(auc decimal.Decimal, cur string) []Row {
	share := func(label string, pct decimal.Decimal) []Row {
		return []Row{
			{fmt.Sprintf("%s Allocation (%%)", label), pct.String()},
			{fmt.Sprintf("%s AUM (%s)", label, cur), Money(auc.Mul(pct).Div(hundred))},
		}
	}
	var out []Row
	out = append(out, share("Bitcoin", a.Bitcoin)...)
	out = append(out, share("Ethereum", a.Ethereum)...)
	return append(out, share("Other Assets", a.Other())...)
}
