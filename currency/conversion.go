package currency

import "github.com/shopspring/decimal"

// Conversion applies a single rate to a named subset of figures.
// An empty From/To pair and nil Bounds fall back to DefaultBounds.
type Conversion struct {
	From   string          `json:"from,omitempty" yaml:"from,omitempty"`
	To     string          `json:"to,omitempty" yaml:"to,omitempty"`
	Rate   decimal.Decimal `json:"rate" yaml:"rate"`
	Bounds *Bounds         `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Fields []string        `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// EffectiveBounds resolves the band a conversion is checked against:
// explicit bounds first, then the pair table, then DefaultBounds.
func (c Conversion) EffectiveBounds() (Bounds, error) {
	if c.Bounds != nil {
		return *c.Bounds, nil
	}
	if c.From != "" && c.To != "" {
		return BoundsFor(c.From, c.To)
	}
	return DefaultBounds(), nil
}

// Applies reports whether the conversion covers the named field.
func (c Conversion) Applies(field string, defaults []string) bool {
	fields := c.Fields
	if len(fields) == 0 {
		fields = defaults
	}
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}
