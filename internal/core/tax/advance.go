package tax

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxfolio/self_assessment_app/internal/apperrors"
	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

// poaThreshold is the previous-year liability at or below which no payments
// on account are due.
var poaThreshold = decimal.NewFromInt(1000)

// withheldExemptionPercent is the share of income already taxed at source
// above which payments on account are waived.
var withheldExemptionPercent = decimal.NewFromInt(80)

var hundred = decimal.NewFromInt(100)

// EvaluatePaymentsOnAccount decides whether advance payments toward the next
// year's liability are due. Exemptions are evaluated in a fixed priority
// order and the first match wins: first year of self-employment, then more
// than 80% of income withheld at source, then previous liability at or below
// the threshold.
//
// withheldPercent must lie in [0,100]; anything else is a validation error,
// never silently clamped.
func EvaluatePaymentsOnAccount(previousLiability decimal.Decimal, isFirstYear bool, withheldPercent decimal.Decimal, taxYear domain.TaxYear) (domain.AdvancePaymentDecision, error) {
	if withheldPercent.IsNegative() || withheldPercent.GreaterThan(hundred) {
		return domain.AdvancePaymentDecision{}, fmt.Errorf("%w: withheld percentage %s outside [0,100]", apperrors.ErrValidation, withheldPercent)
	}

	if isFirstYear {
		return notRequired(domain.AdvanceExemptFirstYear), nil
	}
	if withheldPercent.GreaterThan(withheldExemptionPercent) {
		return notRequired(domain.AdvanceExemptMostlyWithheld), nil
	}
	if previousLiability.LessThanOrEqual(poaThreshold) {
		return notRequired(domain.AdvanceExemptBelowThreshold), nil
	}

	instalment := previousLiability.Div(two).Round(2)
	first := taxYear.FilingDeadline() // 31 January after the filing year opens
	second := time.Date(first.Year(), time.July, 31, 0, 0, 0, 0, time.UTC)

	return domain.AdvancePaymentDecision{
		Required: true,
		Instalments: []domain.Instalment{
			{Amount: instalment, DueDate: first},
			{Amount: instalment, DueDate: second},
		},
	}, nil
}

func notRequired(reason domain.AdvanceExemptionReason) domain.AdvancePaymentDecision {
	return domain.AdvancePaymentDecision{Required: false, ExemptionReason: reason}
}

// BalancingPayment is the amount still owed for the current year after the
// payments on account already made. A negative result signals a refund.
// It performs no exemption logic and never fails.
func BalancingPayment(currentLiability decimal.Decimal, instalmentsPaid ...decimal.Decimal) decimal.Decimal {
	balance := currentLiability
	for _, paid := range instalmentsPaid {
		balance = balance.Sub(paid)
	}
	return balance
}
