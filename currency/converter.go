package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrRateOutOfBounds is returned when an exchange rate is not strictly
// positive or falls outside the declared sanity band.
var ErrRateOutOfBounds = errors.New("exchange rate out of bounds")

// ErrInvalidBounds is returned for a band that cannot hold any rate.
var ErrInvalidBounds = errors.New("invalid exchange rate bounds")

// Bounds is an inclusive band of acceptable rates for one currency pair.
type Bounds struct {
	Min decimal.Decimal `json:"min" yaml:"min"`
	Max decimal.Decimal `json:"max" yaml:"max"`
}

// DefaultBounds is the EUR/USD band the custody P&L figures are quoted in.
func DefaultBounds() Bounds {
	return Bounds{Min: decimal.NewFromInt(1), Max: decimal.RequireFromString("1.5")}
}

// pairBounds maps "FROM_TO" pairs to their sanity band.
// These are deliberately wide; they catch typos, not market moves.
var pairBounds = map[string]Bounds{
	"EUR_USD": DefaultBounds(),
	"GBP_USD": {Min: decimal.RequireFromString("1.1"), Max: decimal.RequireFromString("1.6")},
	"CHF_USD": {Min: decimal.RequireFromString("0.9"), Max: decimal.RequireFromString("1.4")},
	"USD_USD": {Min: decimal.NewFromInt(1), Max: decimal.NewFromInt(1)},
}

// PairKey normalises a pair into the "FROM_TO" form used by the band table.
func PairKey(from, to string) string {
	return strings.ToUpper(strings.TrimSpace(from)) + "_" + strings.ToUpper(strings.TrimSpace(to))
}

// BoundsFor returns the band registered for a currency pair.
func BoundsFor(from, to string) (Bounds, error) {
	b, ok := pairBounds[PairKey(from, to)]
	if !ok {
		return Bounds{}, fmt.Errorf("unsupported currency pair: %s", PairKey(from, to))
	}
	return b, nil
}

// Validate checks that the band itself is usable.
func (b Bounds) Validate() error {
	if !b.Min.IsPositive() {
		return fmt.Errorf("%w: min %s must be positive", ErrInvalidBounds, b.Min)
	}
	if b.Max.LessThan(b.Min) {
		return fmt.Errorf("%w: max %s is below min %s", ErrInvalidBounds, b.Max, b.Min)
	}
	return nil
}

// Contains reports whether rate lies inside the band.
func (b Bounds) Contains(rate decimal.Decimal) bool {
	return rate.GreaterThanOrEqual(b.Min) && rate.LessThanOrEqual(b.Max)
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%s, %s]", b.Min, b.Max)
}

// CheckRate rejects non-positive rates and rates outside the band.
// It never clamps.
func CheckRate(rate decimal.Decimal, b Bounds) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if !rate.IsPositive() {
		return fmt.Errorf("%w: rate %s must be positive", ErrRateOutOfBounds, rate)
	}
	if !b.Contains(rate) {
		return fmt.Errorf("%w: rate %s outside %s", ErrRateOutOfBounds, rate, b)
	}
	return nil
}

// Convert turns an amount in the secondary currency into the reporting
// currency.
func Convert(amount, rate decimal.Decimal, b Bounds) (decimal.Decimal, error) {
	if err := CheckRate(rate, b); err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}
