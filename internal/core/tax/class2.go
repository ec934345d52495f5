package tax

import (
	"github.com/shopspring/decimal"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

// weeksPerTaxYear is the number of weekly contributions in a full year.
const weeksPerTaxYear = 52

// CalculateClass2 computes flat-rate National Insurance. Above the
// small-profits threshold liability is mandatory; at or below it the same
// annual amount may be paid voluntarily to protect contribution history.
// Mandatory and Voluntary are mutually exclusive on the result.
func CalculateClass2(profit decimal.Decimal, payVoluntary bool, rates domain.TaxYearRates) domain.Class2Result {
	annual := rates.Class2WeeklyRate.Mul(decimal.NewFromInt(weeksPerTaxYear)).Round(2)

	if profit.GreaterThan(rates.Class2SmallProfitThreshold) {
		return domain.Class2Result{
			Total:       annual,
			WeeksLiable: weeksPerTaxYear,
			Mandatory:   true,
		}
	}

	if payVoluntary {
		return domain.Class2Result{
			Total:       annual,
			WeeksLiable: weeksPerTaxYear,
			Voluntary:   true,
		}
	}

	return domain.Class2Result{Total: decimal.Zero}
}
