package tax

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

// Class 4 band display names.
const (
	BandClass4Main       = "CLASS4_MAIN"
	BandClass4Additional = "CLASS4_ADDITIONAL"
)

// CalculateClass4 computes percentage-based National Insurance on profit
// above the year's lower profits limit, in two bands mirroring income tax.
//
// The pension-age exemption is checked first: a taxpayer who has reached
// state pension age by the start of the tax year (6 April) owes nothing,
// whatever the profit. Profit at or below the lower limit yields zero with no
// exemption flag.
func CalculateClass4(profit decimal.Decimal, dateOfBirth *time.Time, taxYear domain.TaxYear, rates domain.TaxYearRates) domain.Class4Result {
	if dateOfBirth != nil {
		pensionDate := dateOfBirth.AddDate(rates.StatePensionAge, 0, 0)
		if !pensionDate.After(taxYear.StartDate()) {
			return domain.Class4Result{
				Total:           decimal.Zero,
				Exempt:          true,
				ExemptionReason: domain.Class4ExemptPensionAge,
			}
		}
	}

	if profit.LessThanOrEqual(rates.Class4LowerLimit) {
		return domain.Class4Result{Total: decimal.Zero}
	}

	mainAmount := profit.Sub(rates.Class4LowerLimit)
	mainWidth := rates.Class4UpperLimit.Sub(rates.Class4LowerLimit)
	if mainAmount.GreaterThan(mainWidth) {
		mainAmount = mainWidth
	}
	mainTax := mainAmount.Mul(rates.Class4MainRate).Round(2)

	additionalAmount := decimal.Zero
	if profit.GreaterThan(rates.Class4UpperLimit) {
		additionalAmount = profit.Sub(rates.Class4UpperLimit)
	}
	additionalTax := additionalAmount.Mul(rates.Class4AdditionalRate).Round(2)

	return domain.Class4Result{
		Bands: []domain.TaxBand{
			{Name: BandClass4Main, Rate: rates.Class4MainRate, Amount: mainAmount, Tax: mainTax},
			{Name: BandClass4Additional, Rate: rates.Class4AdditionalRate, Amount: additionalAmount, Tax: additionalTax},
		},
		Total: mainTax.Add(additionalTax),
	}
}
