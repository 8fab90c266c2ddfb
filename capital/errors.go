package capital

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInput covers negative figures, bad exchange rates and
	// malformed stress scenarios.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration covers risk parameters outside their valid range
	// and unknown presets.
	ErrConfiguration = errors.New("configuration error")
)

// FieldError identifies the offending field of a rejected evaluation.
type FieldError struct {
	Kind   error  `json:"-"`
	Field  Field  `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%v: %s %s", e.Kind, e.Field, e.Reason)
	}
	return fmt.Sprintf("%v: %s %s (got %s)", e.Kind, e.Field, e.Reason, e.Value)
}

func (e *FieldError) Unwrap() error { return e.Kind }

// KindName returns the taxonomy label used on the wire.
func (e *FieldError) KindName() string {
	switch {
	case errors.Is(e.Kind, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(e.Kind, ErrConfiguration):
		return "configuration_error"
	}
	return "error"
}

// FieldErrors flattens err into its field errors, in the order they were
// detected.
func FieldErrors(err error) []*FieldError {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*FieldError
		for _, e := range joined.Unwrap() {
			out = append(out, FieldErrors(e)...)
		}
		return out
	}
	if fe, ok := err.(*FieldError); ok {
		return []*FieldError{fe}
	}
	return FieldErrors(errors.Unwrap(err))
}

// violations collects field errors so every problem is reported at once.
type violations []error

func (v *violations) add(kind error, f Field, val decimal.Decimal, reason string) {
	*v = append(*v, &FieldError{Kind: kind, Field: f, Value: val.String(), Reason: reason})
}

func (v *violations) addf(kind error, f Field, format string, args ...any) {
	*v = append(*v, &FieldError{Kind: kind, Field: f, Reason: fmt.Sprintf(format, args...)})
}

func (v *violations) merge(err error) {
	if err != nil {
		*v = append(*v, err)
	}
}

func (v violations) err() error {
	if len(v) == 0 {
		return nil
	}
	return errors.Join(v...)
}
