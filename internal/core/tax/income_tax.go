package tax

import (
	"github.com/shopspring/decimal"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

var two = decimal.NewFromInt(2)

// Band display names, in consumption order.
const (
	BandBasic      = "BASIC"
	BandHigher     = "HIGHER"
	BandAdditional = "ADDITIONAL"
)

// PersonalAllowance returns the allowance actually available at the given
// profit level: the standard allowance reduced by 1 for every 2 of profit
// above the taper threshold, floored at zero.
func PersonalAllowance(profit decimal.Decimal, rates domain.TaxYearRates) decimal.Decimal {
	allowance := rates.PersonalAllowance
	if profit.GreaterThan(rates.TaperThreshold) {
		reduction := profit.Sub(rates.TaperThreshold).Div(two)
		allowance = allowance.Sub(reduction)
	}
	if allowance.IsNegative() {
		return decimal.Zero
	}
	return allowance
}

// CalculateIncomeTax computes progressive income tax on a profit figure.
// Taxable income is consumed band by band in ascending order; each band's tax
// is rounded half-up to two decimal places. A non-positive profit yields an
// all-zero result with the standard allowance still recorded.
func CalculateIncomeTax(profit decimal.Decimal, rates domain.TaxYearRates) domain.IncomeTaxResult {
	if profit.LessThanOrEqual(decimal.Zero) {
		return zeroIncomeTax(rates)
	}

	allowance := PersonalAllowance(profit, rates)
	taxable := profit.Sub(allowance)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	// Band widths in taxable-income terms. The additional band is unbounded.
	widths := []struct {
		name  string
		rate  decimal.Decimal
		width decimal.Decimal
		open  bool
	}{
		{BandBasic, rates.BasicRate, rates.BasicRateLimit, false},
		{BandHigher, rates.HigherRate, rates.HigherRateLimit.Sub(rates.BasicRateLimit), false},
		{BandAdditional, rates.AdditionalRate, decimal.Zero, true},
	}

	remaining := taxable
	bands := make([]domain.TaxBand, 0, len(widths))
	total := decimal.Zero
	for _, w := range widths {
		amount := remaining
		if !w.open && amount.GreaterThan(w.width) {
			amount = w.width
		}
		tax := amount.Mul(w.rate).Round(2)
		bands = append(bands, domain.TaxBand{
			Name:   w.name,
			Rate:   w.rate,
			Amount: amount,
			Tax:    tax,
		})
		total = total.Add(tax)
		remaining = remaining.Sub(amount)
		if remaining.LessThanOrEqual(decimal.Zero) {
			remaining = decimal.Zero
		}
	}

	return domain.IncomeTaxResult{
		PersonalAllowance: allowance,
		TaxableIncome:     taxable,
		Bands:             bands,
		Total:             total,
	}
}

func zeroIncomeTax(rates domain.TaxYearRates) domain.IncomeTaxResult {
	bands := []domain.TaxBand{
		{Name: BandBasic, Rate: rates.BasicRate, Amount: decimal.Zero, Tax: decimal.Zero},
		{Name: BandHigher, Rate: rates.HigherRate, Amount: decimal.Zero, Tax: decimal.Zero},
		{Name: BandAdditional, Rate: rates.AdditionalRate, Amount: decimal.Zero, Tax: decimal.Zero},
	}
	return domain.IncomeTaxResult{
		PersonalAllowance: rates.PersonalAllowance,
		TaxableIncome:     decimal.Zero,
		Bands:             bands,
		Total:             decimal.Zero,
	}
}
