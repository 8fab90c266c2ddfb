package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		amount  string
		rate    string
		want    string
		wantErr bool
	}{
		{"in band", "557480000", "1.08", "602078400", false},
		{"lower edge", "100", "1.0", "100", false},
		{"upper edge", "100", "1.5", "150", false},
		{"below band", "100", "0.99", "", true},
		{"above band", "100", "1.51", "", true},
		{"zero rate", "100", "0", "", true},
		{"negative rate", "100", "-1.08", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Convert(d(tt.amount), d(tt.rate), DefaultBounds())
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrRateOutOfBounds)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestCheckRate_InvalidBounds(t *testing.T) {
	t.Parallel()

	err := CheckRate(d("1.1"), Bounds{Min: d("0"), Max: d("2")})
	assert.ErrorIs(t, err, ErrInvalidBounds)

	err = CheckRate(d("1.1"), Bounds{Min: d("1.5"), Max: d("1.2")})
	assert.ErrorIs(t, err, ErrInvalidBounds)
}

func TestBoundsFor(t *testing.T) {
	t.Parallel()

	b, err := BoundsFor("eur", "usd")
	require.NoError(t, err)
	assert.True(t, b.Min.Equal(d("1")))
	assert.True(t, b.Max.Equal(d("1.5")))

	_, err = BoundsFor("JPY", "USD")
	assert.Error(t, err)
}

func TestConversion_EffectiveBounds(t *testing.T) {
	t.Parallel()

	explicit := Bounds{Min: d("0.5"), Max: d("0.6")}
	b, err := Conversion{From: "EUR", To: "USD", Bounds: &explicit}.EffectiveBounds()
	require.NoError(t, err)
	assert.Equal(t, explicit, b)

	b, err = Conversion{From: "GBP", To: "USD"}.EffectiveBounds()
	require.NoError(t, err)
	assert.True(t, b.Min.Equal(d("1.1")))

	b, err = Conversion{}.EffectiveBounds()
	require.NoError(t, err)
	assert.Equal(t, DefaultBounds(), b)

	_, err = Conversion{From: "XYZ", To: "USD"}.EffectiveBounds()
	assert.Error(t, err)
}

func TestConversion_Applies(t *testing.T) {
	t.Parallel()

	defaults := []string{"totalAUC", "monthlyFixedOverheads"}

	c := Conversion{}
	assert.True(t, c.Applies("totalAUC", defaults))
	assert.False(t, c.Applies("tier1Capital", defaults))

	c.Fields = []string{"tier1Capital"}
	assert.True(t, c.Applies("tier1Capital", defaults))
	assert.False(t, c.Applies("totalAUC", defaults))
}
