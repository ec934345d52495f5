package tax

import (
	"github.com/shopspring/decimal"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultRates are the published self-assessment figures shipped with the
// binary. Later years can be supplied or overridden via the rates file.
func DefaultRates() []domain.TaxYearRates {
	return []domain.TaxYearRates{
		{
			TaxYearStart:               2022,
			PersonalAllowance:          d("12570"),
			TaperThreshold:             d("100000"),
			BasicRateLimit:             d("37700"),
			HigherRateLimit:            d("150000"),
			BasicRate:                  d("0.20"),
			HigherRate:                 d("0.40"),
			AdditionalRate:             d("0.45"),
			Class4LowerLimit:           d("11908"),
			Class4UpperLimit:           d("50270"),
			Class4MainRate:             d("0.0973"),
			Class4AdditionalRate:       d("0.0273"),
			Class2WeeklyRate:           d("3.15"),
			Class2SmallProfitThreshold: d("6725"),
			StatePensionAge:            66,
		},
		{
			TaxYearStart:               2023,
			PersonalAllowance:          d("12570"),
			TaperThreshold:             d("100000"),
			BasicRateLimit:             d("37700"),
			HigherRateLimit:            d("125140"),
			BasicRate:                  d("0.20"),
			HigherRate:                 d("0.40"),
			AdditionalRate:             d("0.45"),
			Class4LowerLimit:           d("12570"),
			Class4UpperLimit:           d("50270"),
			Class4MainRate:             d("0.09"),
			Class4AdditionalRate:       d("0.02"),
			Class2WeeklyRate:           d("3.45"),
			Class2SmallProfitThreshold: d("6725"),
			StatePensionAge:            66,
		},
		{
			TaxYearStart:               2024,
			PersonalAllowance:          d("12570"),
			TaperThreshold:             d("100000"),
			BasicRateLimit:             d("37700"),
			HigherRateLimit:            d("125140"),
			BasicRate:                  d("0.20"),
			HigherRate:                 d("0.40"),
			AdditionalRate:             d("0.45"),
			Class4LowerLimit:           d("12570"),
			Class4UpperLimit:           d("50270"),
			Class4MainRate:             d("0.06"),
			Class4AdditionalRate:       d("0.02"),
			Class2WeeklyRate:           d("3.45"),
			Class2SmallProfitThreshold: d("6725"),
			StatePensionAge:            66,
		},
	}
}

// DefaultRateProvider builds a provider over the built-in figures.
// The defaults are validated by tests, so construction cannot fail.
func DefaultRateProvider() *RateProvider {
	p, err := NewRateProvider(DefaultRates())
	if err != nil {
		panic(err)
	}
	return p
}
