package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "saveandplay/internal/errors"
)

func TestToCanonical(t *testing.T) {
	n := Default()

	t.Run("canonical passes through", func(t *testing.T) {
		got, err := n.ToCanonical(125.5, USD)
		require.NoError(t, err)
		assert.Equal(t, 125.5, got)
	})

	t.Run("display currency divides by rate", func(t *testing.T) {
		got, err := n.ToCanonical(5900, DOP)
		require.NoError(t, err)
		assert.InDelta(t, 100, got, 1e-9)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		for _, amount := range []float64{0, -1} {
			_, err := n.ToCanonical(amount, USD)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		}
	})

	t.Run("rejects unknown currency", func(t *testing.T) {
		_, err := n.ToCanonical(10, Code("EUR"))
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestRoundTrip(t *testing.T) {
	n := Default()
	for _, code := range []Code{USD, DOP} {
		for _, x := range []float64{0.01, 1, 33.33, 1234.56, 987654.321} {
			display, err := n.ToDisplay(x, code)
			require.NoError(t, err)
			back, err := n.ToCanonical(display, code)
			require.NoError(t, err)
			assert.InDelta(t, x, back, 1e-9, "%s %v", code, x)
		}
	}
}

func TestFormat(t *testing.T) {
	n := Default()
	tests := []struct {
		name    string
		amount  float64
		display Code
		want    string
	}{
		{"grouping", 1234.5, USD, "$1,234.50"},
		{"converted to display", 1234.5, DOP, "RD$72,835.50"},
		{"negative", -10, USD, "-$10.00"},
		{"zero", 0, USD, "$0.00"},
		{"rounds half away from zero", 2.675, USD, "$2.68"},
		{"millions", 1234567.891, USD, "$1,234,567.89"},
		{"unknown display falls back", 5, Code("EUR"), "$5.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Format(tt.amount, tt.display))
		})
	}
}

func TestNewNormalizerValidation(t *testing.T) {
	_, err := NewNormalizer(Code("EUR"), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = NewNormalizer(USD, map[Code]float64{DOP: 0})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	n, err := NewNormalizer(DOP, map[Code]float64{USD: 1.0 / 60})
	require.NoError(t, err)
	assert.Equal(t, DOP, n.Canonical())
	got, err := n.ToCanonical(10, USD)
	require.NoError(t, err)
	assert.InDelta(t, 600, got, 1e-9)
}

func TestParseCode(t *testing.T) {
	code, err := ParseCode(" dop ")
	require.NoError(t, err)
	assert.Equal(t, DOP, code)

	_, err = ParseCode("btc")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
