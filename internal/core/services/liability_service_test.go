package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxfolio/self_assessment_app/internal/apperrors"
	"github.com/taxfolio/self_assessment_app/internal/core/domain"
	"github.com/taxfolio/self_assessment_app/internal/core/services"
	"github.com/taxfolio/self_assessment_app/internal/core/tax"
)

func TestLiabilityService_CalculateLiability(t *testing.T) {
	svc := services.NewLiabilityService(tax.DefaultRateProvider())
	ctx := context.Background()

	b, err := svc.CalculateLiability(ctx, decimal.NewFromInt(60000), domain.NewTaxYear(2023), nil, false)

	require.NoError(t, err)
	assert.True(t, b.IncomeTax.Total.Equal(decimal.RequireFromString("11432.00")))
	assert.True(t, b.TotalLiability.Equal(decimal.RequireFromString("15199.00")))
}

func TestLiabilityService_UnknownYearFallsBack(t *testing.T) {
	svc := services.NewLiabilityService(tax.DefaultRateProvider())
	ctx := context.Background()

	// 2030 is unconfigured; the most recent configured year's rates apply.
	rates := svc.RatesForYear(ctx, domain.NewTaxYear(2030))
	assert.Equal(t, 2024, rates.TaxYearStart)

	b, err := svc.CalculateLiability(ctx, decimal.NewFromInt(20000), domain.NewTaxYear(2030), nil, false)
	require.NoError(t, err)
	assert.Equal(t, 2030, b.TaxYearStart, "the requested year is preserved on the breakdown")
}

func TestLiabilityService_EvaluateAdvancePayment(t *testing.T) {
	svc := services.NewLiabilityService(tax.DefaultRateProvider())
	ctx := context.Background()

	decision, err := svc.EvaluateAdvancePayment(ctx, decimal.NewFromInt(900), false, decimal.NewFromInt(50), domain.NewTaxYear(2023))
	require.NoError(t, err)
	assert.False(t, decision.Required)
	assert.Equal(t, domain.AdvanceExemptBelowThreshold, decision.ExemptionReason)

	_, err = svc.EvaluateAdvancePayment(ctx, decimal.NewFromInt(900), false, decimal.NewFromInt(120), domain.NewTaxYear(2023))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLiabilityService_BalancingPayment(t *testing.T) {
	svc := services.NewLiabilityService(tax.DefaultRateProvider())
	ctx := context.Background()

	balance := svc.BalancingPayment(ctx, decimal.NewFromInt(4000),
		[]decimal.Decimal{decimal.NewFromInt(1500), decimal.NewFromInt(1500)})
	assert.True(t, balance.Equal(decimal.NewFromInt(1000)))
}
