package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
	portssvc "github.com/taxfolio/self_assessment_app/internal/core/ports/services"
	"github.com/taxfolio/self_assessment_app/internal/core/tax"
)

// liabilityService exposes the pure calculators behind the service facade.
// It holds only the immutable rate provider, so it is safe for any number of
// concurrent callers.
type liabilityService struct {
	BaseService
	rates *tax.RateProvider
}

// NewLiabilityService creates the calculation service over a rate provider.
func NewLiabilityService(rates *tax.RateProvider) portssvc.LiabilitySvcFacade {
	return &liabilityService{rates: rates}
}

var _ portssvc.LiabilitySvcFacade = (*liabilityService)(nil)

func (s *liabilityService) CalculateLiability(ctx context.Context, profit decimal.Decimal, taxYear domain.TaxYear, dateOfBirth *time.Time, voluntaryClass2 bool) (domain.LiabilityBreakdown, error) {
	yearRates := s.rates.ForYear(taxYear.StartYear)
	breakdown := tax.CalculateLiability(tax.LiabilityInput{
		Profit:          profit,
		TaxYear:         taxYear,
		DateOfBirth:     dateOfBirth,
		VoluntaryClass2: voluntaryClass2,
	}, yearRates)
	return breakdown, nil
}

func (s *liabilityService) EvaluateAdvancePayment(ctx context.Context, previousLiability decimal.Decimal, isFirstYear bool, withheldPercent decimal.Decimal, taxYear domain.TaxYear) (domain.AdvancePaymentDecision, error) {
	decision, err := tax.EvaluatePaymentsOnAccount(previousLiability, isFirstYear, withheldPercent, taxYear)
	if err != nil {
		s.LogWarn(ctx, "Rejected advance payment evaluation", "error", err.Error())
		return domain.AdvancePaymentDecision{}, err
	}
	return decision, nil
}

func (s *liabilityService) BalancingPayment(ctx context.Context, currentLiability decimal.Decimal, instalmentsPaid []decimal.Decimal) decimal.Decimal {
	return tax.BalancingPayment(currentLiability, instalmentsPaid...)
}

func (s *liabilityService) RatesForYear(ctx context.Context, taxYear domain.TaxYear) domain.TaxYearRates {
	return s.rates.ForYear(taxYear.StartYear)
}
