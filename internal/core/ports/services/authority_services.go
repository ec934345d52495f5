package services

import (
	"context"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

// TaxAuthorityClient is the boundary to the external tax authority.
//
// Every operation must be idempotent from the caller's point of view: the
// saga's resume logic re-issues calls after crashes, and a repeated call with
// the same arguments must not create a second calculation or submission.
//
// Implementations classify failures by wrapping the apperrors sentinels:
// ErrUnavailable for anything retryable (timeouts, 5xx, malformed responses)
// and ErrRejected for an explicit terminal rejection.
type TaxAuthorityClient interface {
	// TriggerCalculation asks the authority to calculate the year and returns
	// its calculation identifier. Re-triggering the same (utr, taxYear) pair
	// returns the identifier of the calculation already in progress.
	TriggerCalculation(ctx context.Context, utr string, taxYear domain.TaxYear) (string, error)

	// FetchCalculation retrieves the finished calculation. A calculation that
	// is still running is reported as retryable, not as an error state.
	FetchCalculation(ctx context.Context, calculationID string) (*domain.LiabilityBreakdown, error)

	// SubmitDeclaration files the final declaration referencing the
	// calculation identifier, which doubles as the idempotency key, and
	// returns the authority's confirmation reference.
	SubmitDeclaration(ctx context.Context, calculationID string, utr string) (string, error)
}
