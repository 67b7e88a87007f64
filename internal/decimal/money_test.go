package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rezonia/myinvois/internal/decimal"
)

func TestMultiplier(t *testing.T) {
	tests := []struct {
		name     string
		percent  string
		expected string
	}{
		{"15 percent", "15", "0.15"},
		{"100 percent", "100", "1"},
		{"fractional percent", "2.5", "0.025"},
		{"zero", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := decimal.Multiplier(dec.RequireFromString(tt.percent))
			assert.True(t, result.Equal(dec.RequireFromString(tt.expected)),
				"got %s, want %s", result.String(), tt.expected)
		})
	}
}

func TestIsPositive(t *testing.T) {
	assert.True(t, decimal.IsPositive(dec.NewFromInt(1)))
	assert.False(t, decimal.IsPositive(dec.Zero))
	assert.False(t, decimal.IsPositive(dec.NewFromInt(-1)))
}

func TestIsNonNegative(t *testing.T) {
	assert.True(t, decimal.IsNonNegative(dec.NewFromInt(1)))
	assert.True(t, decimal.IsNonNegative(dec.Zero))
	assert.False(t, decimal.IsNonNegative(dec.NewFromInt(-1)))
}

func TestPresentAndOrDefault(t *testing.T) {
	assert.False(t, decimal.Present(dec.Zero))
	assert.True(t, decimal.Present(dec.NewFromInt(-3)))

	assert.True(t, decimal.OrDefault(dec.Zero, decimal.One).Equal(dec.NewFromInt(1)))
	assert.True(t, decimal.OrDefault(dec.NewFromInt(2), decimal.One).Equal(dec.NewFromInt(2)))
}
