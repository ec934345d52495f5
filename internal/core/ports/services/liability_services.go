package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

// LiabilitySvcFacade exposes the pure calculation engine to callers.
type LiabilitySvcFacade interface {
	// CalculateLiability runs the full breakdown for one profit figure.
	// A nil dateOfBirth skips the Class 4 pension-age check.
	CalculateLiability(ctx context.Context, profit decimal.Decimal, taxYear domain.TaxYear, dateOfBirth *time.Time, voluntaryClass2 bool) (domain.LiabilityBreakdown, error)

	// EvaluateAdvancePayment decides whether payments on account are due.
	EvaluateAdvancePayment(ctx context.Context, previousLiability decimal.Decimal, isFirstYear bool, withheldPercent decimal.Decimal, taxYear domain.TaxYear) (domain.AdvancePaymentDecision, error)

	// BalancingPayment computes the residual owed after payments on account.
	// A negative result is a refund.
	BalancingPayment(ctx context.Context, currentLiability decimal.Decimal, instalmentsPaid []decimal.Decimal) decimal.Decimal

	// RatesForYear reports the rate table a calculation would use, after any
	// nearest-year fallback.
	RatesForYear(ctx context.Context, taxYear domain.TaxYear) domain.TaxYearRates
}
