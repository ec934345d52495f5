package tax

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

// LiabilityInput carries everything the aggregator needs for one calculation.
// All fields are value types; the input can be shared freely between callers.
type LiabilityInput struct {
	Profit          decimal.Decimal
	TaxYear         domain.TaxYear
	DateOfBirth     *time.Time
	VoluntaryClass2 bool
}

// CalculateLiability composes the income tax, Class 4 and Class 2 calculators
// over the same profit figure and derives the combined totals. Non-positive
// profit produces a fully zeroed breakdown with the year's standard allowance
// still recorded.
func CalculateLiability(in LiabilityInput, rates domain.TaxYearRates) domain.LiabilityBreakdown {
	if in.Profit.LessThanOrEqual(decimal.Zero) {
		return domain.LiabilityBreakdown{
			TaxYearStart:   in.TaxYear.StartYear,
			GrossProfit:    in.Profit,
			IncomeTax:      zeroIncomeTax(rates),
			Class4:         domain.Class4Result{Total: decimal.Zero},
			Class2:         domain.Class2Result{Total: decimal.Zero},
			TotalLiability: decimal.Zero,
			NetProfit:      in.Profit,
			EffectiveRate:  decimal.Zero,
		}
	}

	incomeTax := CalculateIncomeTax(in.Profit, rates)
	class4 := CalculateClass4(in.Profit, in.DateOfBirth, in.TaxYear, rates)
	class2 := CalculateClass2(in.Profit, in.VoluntaryClass2, rates)

	total := incomeTax.Total.Add(class4.Total).Add(class2.Total)
	effectiveRate := total.Div(in.Profit).Mul(hundred).Round(2)

	return domain.LiabilityBreakdown{
		TaxYearStart:   in.TaxYear.StartYear,
		GrossProfit:    in.Profit,
		IncomeTax:      incomeTax,
		Class4:         class4,
		Class2:         class2,
		TotalLiability: total,
		NetProfit:      in.Profit.Sub(total),
		EffectiveRate:  effectiveRate,
	}
}
