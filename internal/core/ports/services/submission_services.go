package services

import (
	"context"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

// SubmissionSvcFacade drives annual submission sagas. One saga exists per
// (UTR, tax year) pair; every method is safe to call repeatedly.
type SubmissionSvcFacade interface {
	// StartOrResumeSubmission returns the existing saga for the pair, creating
	// one in INITIATED when absent, then drives it as far as it will go. It is
	// idempotent: re-invoking never creates a second saga or re-runs a
	// transition the saga has already moved past.
	StartOrResumeSubmission(ctx context.Context, utr string, taxYear domain.TaxYear) (*domain.SubmissionSaga, error)

	// AdvanceSubmission attempts exactly one transition out of the saga's
	// current state, performing at most one external call. Retryable external
	// failures are recorded on the saga and leave its state unchanged.
	AdvanceSubmission(ctx context.Context, utr string, taxYear domain.TaxYear) (*domain.SubmissionSaga, error)

	// RetrySubmission moves a FAILED saga back to the state it fell from and
	// re-attempts that same transition. Any other state is an invalid
	// transition error.
	RetrySubmission(ctx context.Context, utr string, taxYear domain.TaxYear) (*domain.SubmissionSaga, error)

	// GetSubmission exposes the saga's current state and last error so a
	// caller can explain where a submission is stuck.
	GetSubmission(ctx context.Context, utr string, taxYear domain.TaxYear) (*domain.SubmissionSaga, error)

	// ListSubmissions returns a taxpayer's sagas, newest tax year first.
	ListSubmissions(ctx context.Context, utr string, limit int, offset int) ([]domain.SubmissionSaga, error)
}
