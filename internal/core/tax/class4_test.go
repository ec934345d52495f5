package tax

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

func TestCalculateClass4_TwoBands(t *testing.T) {
	rates := DefaultRateProvider().ForYear(2023)
	ty := domain.NewTaxYear(2023)

	res := CalculateClass4(decimal.NewFromInt(60000), nil, ty, rates)

	require.Len(t, res.Bands, 2)
	// (50,270 - 12,570) x 0.09
	assert.True(t, res.Bands[0].Tax.Equal(decimal.RequireFromString("3393.00")), "main %s", res.Bands[0].Tax)
	// (60,000 - 50,270) x 0.02
	assert.True(t, res.Bands[1].Tax.Equal(decimal.RequireFromString("194.60")), "additional %s", res.Bands[1].Tax)
	assert.True(t, res.Total.Equal(decimal.RequireFromString("3587.60")))
	assert.False(t, res.Exempt)
}

func TestCalculateClass4_BelowLowerLimit(t *testing.T) {
	rates := DefaultRateProvider().ForYear(2023)
	ty := domain.NewTaxYear(2023)

	for _, profit := range []string{"12570", "5000", "0"} {
		res := CalculateClass4(decimal.RequireFromString(profit), nil, ty, rates)
		assert.True(t, res.Total.IsZero(), "profit %s", profit)
		assert.False(t, res.Exempt, "below the limit is not an exemption")
		assert.Empty(t, res.ExemptionReason)
	}
}

func TestCalculateClass4_PensionAgeExemption(t *testing.T) {
	rates := DefaultRateProvider().ForYear(2023)
	ty := domain.NewTaxYear(2023)

	dob := time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)
	res := CalculateClass4(decimal.NewFromInt(60000), &dob, ty, rates)

	assert.True(t, res.Exempt)
	assert.Equal(t, domain.Class4ExemptPensionAge, res.ExemptionReason)
	assert.True(t, res.Total.IsZero(), "exemption overrides profit entirely")
	assert.Empty(t, res.Bands)
}

func TestCalculateClass4_PensionAgeBoundary(t *testing.T) {
	rates := DefaultRateProvider().ForYear(2023)
	ty := domain.NewTaxYear(2023)

	// 66th birthday lands exactly on 6 April: already pension age at the start.
	dob := time.Date(1957, time.April, 6, 0, 0, 0, 0, time.UTC)
	res := CalculateClass4(decimal.NewFromInt(60000), &dob, ty, rates)
	assert.True(t, res.Exempt)

	// One day younger: liable for the whole year.
	dob = time.Date(1957, time.April, 7, 0, 0, 0, 0, time.UTC)
	res = CalculateClass4(decimal.NewFromInt(60000), &dob, ty, rates)
	assert.False(t, res.Exempt)
	assert.True(t, res.Total.GreaterThan(decimal.Zero))
}

func TestCalculateClass4_UnknownDateOfBirth(t *testing.T) {
	rates := DefaultRateProvider().ForYear(2023)
	ty := domain.NewTaxYear(2023)

	res := CalculateClass4(decimal.NewFromInt(20000), nil, ty, rates)
	assert.False(t, res.Exempt)
	// (20,000 - 12,570) x 0.09
	assert.True(t, res.Total.Equal(decimal.RequireFromString("668.70")), "total %s", res.Total)
}
