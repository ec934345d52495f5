package tax

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxfolio/self_assessment_app/internal/apperrors"
	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

func TestEvaluatePaymentsOnAccount_FirstYearTakesPriority(t *testing.T) {
	// First year and 90% withheld at the same time: the first-year reason wins.
	decision, err := EvaluatePaymentsOnAccount(
		decimal.NewFromInt(5000), true, decimal.NewFromInt(90), domain.NewTaxYear(2023))

	require.NoError(t, err)
	assert.False(t, decision.Required)
	assert.Equal(t, domain.AdvanceExemptFirstYear, decision.ExemptionReason)
}

func TestEvaluatePaymentsOnAccount_WithheldExemption(t *testing.T) {
	decision, err := EvaluatePaymentsOnAccount(
		decimal.NewFromInt(5000), false, decimal.NewFromInt(81), domain.NewTaxYear(2023))

	require.NoError(t, err)
	assert.False(t, decision.Required)
	assert.Equal(t, domain.AdvanceExemptMostlyWithheld, decision.ExemptionReason)

	// Exactly 80 does not qualify.
	decision, err = EvaluatePaymentsOnAccount(
		decimal.NewFromInt(5000), false, decimal.NewFromInt(80), domain.NewTaxYear(2023))
	require.NoError(t, err)
	assert.True(t, decision.Required)
}

func TestEvaluatePaymentsOnAccount_BelowThreshold(t *testing.T) {
	// Previous liability 900: not required whatever the withholding percent.
	for _, withheld := range []int64{0, 40, 80} {
		decision, err := EvaluatePaymentsOnAccount(
			decimal.NewFromInt(900), false, decimal.NewFromInt(withheld), domain.NewTaxYear(2023))

		require.NoError(t, err)
		assert.False(t, decision.Required)
		assert.Equal(t, domain.AdvanceExemptBelowThreshold, decision.ExemptionReason)
	}
}

func TestEvaluatePaymentsOnAccount_InstalmentsAndDeadlines(t *testing.T) {
	decision, err := EvaluatePaymentsOnAccount(
		decimal.NewFromInt(3001), false, decimal.Zero, domain.NewTaxYear(2023))

	require.NoError(t, err)
	assert.True(t, decision.Required)
	assert.Empty(t, decision.ExemptionReason)
	require.Len(t, decision.Instalments, 2)

	// Two equal halves, rounded half-up.
	assert.True(t, decision.Instalments[0].Amount.Equal(decimal.RequireFromString("1500.50")))
	assert.True(t, decision.Instalments[1].Amount.Equal(decimal.RequireFromString("1500.50")))

	// 31 January and 31 July two years after the tax year starts.
	assert.Equal(t, time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), decision.Instalments[0].DueDate)
	assert.Equal(t, time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC), decision.Instalments[1].DueDate)
}

func TestEvaluatePaymentsOnAccount_InvalidWithheldPercent(t *testing.T) {
	for _, withheld := range []string{"-1", "100.01", "250"} {
		_, err := EvaluatePaymentsOnAccount(
			decimal.NewFromInt(5000), false, decimal.RequireFromString(withheld), domain.NewTaxYear(2023))

		require.Error(t, err, "withheld %s", withheld)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
}

func TestBalancingPayment(t *testing.T) {
	balance := BalancingPayment(decimal.NewFromInt(5000),
		decimal.NewFromInt(1500), decimal.NewFromInt(1500))
	assert.True(t, balance.Equal(decimal.NewFromInt(2000)))

	// Overpayment comes back negative: a refund, not an error.
	refund := BalancingPayment(decimal.NewFromInt(2000),
		decimal.NewFromInt(1500), decimal.NewFromInt(1500))
	assert.True(t, refund.Equal(decimal.NewFromInt(-1000)))

	// No instalments paid.
	assert.True(t, BalancingPayment(decimal.NewFromInt(750)).Equal(decimal.NewFromInt(750)))
}
