package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateClass2_BelowThresholdNotVoluntary(t *testing.T) {
	rates := DefaultRateProvider().ForYear(2023)

	// profit 5,000, below the small-profits threshold, no voluntary flag
	res := CalculateClass2(decimal.NewFromInt(5000), false, rates)

	assert.True(t, res.Total.IsZero(), "total must be exactly zero, got %s", res.Total)
	assert.Equal(t, 0, res.WeeksLiable)
	assert.False(t, res.Mandatory)
	assert.False(t, res.Voluntary)
}

func TestCalculateClass2_Mandatory(t *testing.T) {
	rates := DefaultRateProvider().ForYear(2023)

	res := CalculateClass2(decimal.NewFromInt(30000), false, rates)

	// 52 x 3.45
	assert.True(t, res.Total.Equal(decimal.RequireFromString("179.40")), "total %s", res.Total)
	assert.Equal(t, 52, res.WeeksLiable)
	assert.True(t, res.Mandatory)
	assert.False(t, res.Voluntary, "mandatory and voluntary are mutually exclusive")
}

func TestCalculateClass2_Voluntary(t *testing.T) {
	rates := DefaultRateProvider().ForYear(2023)

	res := CalculateClass2(decimal.NewFromInt(5000), true, rates)

	assert.True(t, res.Total.Equal(decimal.RequireFromString("179.40")))
	assert.Equal(t, 52, res.WeeksLiable)
	assert.False(t, res.Mandatory)
	assert.True(t, res.Voluntary)
}

func TestCalculateClass2_AtThresholdExactly(t *testing.T) {
	rates := DefaultRateProvider().ForYear(2023)

	// Profit equal to the threshold is not above it: no mandatory charge.
	res := CalculateClass2(rates.Class2SmallProfitThreshold, false, rates)
	assert.True(t, res.Total.IsZero())
	assert.False(t, res.Mandatory)
}
