package capital

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// NotApplicableLabel is how an undefined ratio is written on the wire.
const NotApplicableLabel = "not_applicable"

// Ratio is a capital adequacy ratio in percent. The zero value is the
// not-applicable ratio of a zero requirement.
type Ratio struct {
	value   decimal.Decimal
	defined bool
}

// NotApplicable is the ratio against a zero requirement.
var NotApplicable = Ratio{}

// RatioOf wraps a computed percentage.
func RatioOf(v decimal.Decimal) Ratio {
	return Ratio{value: v, defined: true}
}

// AdequacyRatio is eligible / requirement x 100, or NotApplicable when the
// requirement is zero.
func AdequacyRatio(eligible, requirement decimal.Decimal) Ratio {
	if !requirement.IsPositive() {
		return NotApplicable
	}
	return RatioOf(eligible.Shift(2).Div(requirement))
}

// Value returns the percentage and whether it is defined.
func (r Ratio) Value() (decimal.Decimal, bool) {
	return r.value, r.defined
}

func (r Ratio) Applicable() bool { return r.defined }

// AtLeast reports whether the ratio is defined and >= pct.
func (r Ratio) AtLeast(pct int64) bool {
	return r.defined && r.value.GreaterThanOrEqual(decimal.NewFromInt(pct))
}

func (r Ratio) String() string {
	if !r.defined {
		return NotApplicableLabel
	}
	return r.value.String()
}

// Format renders the ratio with one decimal place and a percent sign.
func (r Ratio) Format() string {
	if !r.defined {
		return "n/a"
	}
	return r.value.StringFixed(1) + "%"
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.defined {
		return json.Marshal(NotApplicableLabel)
	}
	return []byte(r.value.String()), nil
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == `"`+NotApplicableLabel+`"` || string(data) == "null" {
		*r = NotApplicable
		return nil
	}
	var v decimal.Decimal
	if err := v.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("adequacy ratio: %w", err)
	}
	*r = RatioOf(v)
	return nil
}

// Tier is the compliance classification of a ratio.
type Tier string

const (
	TierCompliant     Tier = "COMPLIANT"
	TierMinimumMet    Tier = "MINIMUM_MET"
	TierNonCompliant  Tier = "NON_COMPLIANT"
	TierNotApplicable Tier = "NOT_APPLICABLE"
)

// Classify maps a ratio to its tier, checked from the top down.
func Classify(r Ratio) Tier {
	switch {
	case !r.Applicable():
		return TierNotApplicable
	case r.AtLeast(InternalTargetRatio):
		return TierCompliant
	case r.AtLeast(MinimumRatio):
		return TierMinimumMet
	default:
		return TierNonCompliant
	}
}

// Message is the human-readable status line for a tier.
func (t Tier) Message() string {
	switch t {
	case TierCompliant:
		return fmt.Sprintf("Capital adequacy ratio exceeds internal target of %d%%", InternalTargetRatio)
	case TierMinimumMet:
		return "Meets minimum requirement but below internal target"
	case TierNonCompliant:
		return "Capital adequacy ratio below minimum requirement"
	case TierNotApplicable:
		return "No capital requirement arises from the current inputs"
	}
	return ""
}

// Adequacy is the comparison of eligible capital against the requirement.
type Adequacy struct {
	EligibleCapital  decimal.Decimal `json:"eligibleCapital" yaml:"eligibleCapital"`
	Ratio            Ratio           `json:"adequacyRatio" yaml:"-"`
	Tier             Tier            `json:"complianceTier" yaml:"complianceTier"`
	SurplusOrDeficit decimal.Decimal `json:"surplusOrDeficit" yaml:"surplusOrDeficit"` // negative is a deficit
}

// EvaluateAdequacy compares eligible capital with the requirement.
func EvaluateAdequacy(eligible, requirement decimal.Decimal) Adequacy {
	r := AdequacyRatio(eligible, requirement)
	return Adequacy{
		EligibleCapital:  eligible,
		Ratio:            r,
		Tier:             Classify(r),
		SurplusOrDeficit: eligible.Sub(requirement),
	}
}
