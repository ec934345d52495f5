package tax

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

func TestCalculateLiability_ComposesAllClasses(t *testing.T) {
	rates := DefaultRateProvider().ForYear(2023)
	in := LiabilityInput{
		Profit:  decimal.NewFromInt(60000),
		TaxYear: domain.NewTaxYear(2023),
	}

	b := CalculateLiability(in, rates)

	assert.True(t, b.IncomeTax.Total.Equal(decimal.RequireFromString("11432.00")))
	assert.True(t, b.Class4.Total.Equal(decimal.RequireFromString("3587.60")))
	assert.True(t, b.Class2.Total.Equal(decimal.RequireFromString("179.40")))

	// Total is the sum of the three classes; net profit is profit minus total.
	assert.True(t, b.TotalLiability.Equal(decimal.RequireFromString("15199.00")), "total %s", b.TotalLiability)
	assert.True(t, b.NetProfit.Equal(decimal.RequireFromString("44801.00")), "net %s", b.NetProfit)

	// 15,199 / 60,000 x 100, rounded half-up.
	assert.True(t, b.EffectiveRate.Equal(decimal.RequireFromString("25.33")), "effective %s", b.EffectiveRate)
}

func TestCalculateLiability_NonPositiveProfit(t *testing.T) {
	rates := DefaultRateProvider().ForYear(2023)

	for _, profit := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-100)} {
		b := CalculateLiability(LiabilityInput{Profit: profit, TaxYear: domain.NewTaxYear(2023)}, rates)

		assert.True(t, b.TotalLiability.IsZero())
		assert.True(t, b.IncomeTax.Total.IsZero())
		assert.True(t, b.Class4.Total.IsZero())
		assert.True(t, b.Class2.Total.IsZero())
		assert.True(t, b.EffectiveRate.IsZero())
		// Standard allowance still populated on the zero breakdown.
		assert.True(t, b.IncomeTax.PersonalAllowance.Equal(decimal.NewFromInt(12570)))
	}
}

func TestCalculateLiability_PensionAgeStillOwesClass2(t *testing.T) {
	rates := DefaultRateProvider().ForYear(2023)
	dob := time.Date(1950, time.June, 1, 0, 0, 0, 0, time.UTC)

	b := CalculateLiability(LiabilityInput{
		Profit:      decimal.NewFromInt(30000),
		TaxYear:     domain.NewTaxYear(2023),
		DateOfBirth: &dob,
	}, rates)

	assert.True(t, b.Class4.Exempt)
	assert.True(t, b.Class4.Total.IsZero())
	// The age exemption is Class 4 only.
	assert.True(t, b.Class2.Mandatory)
	assert.True(t, b.Class2.Total.Equal(decimal.RequireFromString("179.40")))
}

func TestCalculateLiability_ConcurrentCallers(t *testing.T) {
	rates := DefaultRateProvider().ForYear(2023)
	in := LiabilityInput{Profit: decimal.NewFromInt(60000), TaxYear: domain.NewTaxYear(2023)}

	expected := CalculateLiability(in, rates)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := CalculateLiability(in, rates)
			assert.True(t, b.TotalLiability.Equal(expected.TotalLiability))
		}()
	}
	wg.Wait()
}
