package repositories

import (
	"context"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

// SubmissionSagaReader defines read operations for submission sagas.
type SubmissionSagaReader interface {
	// FindSagaByIdentity retrieves the saga for a (UTR, tax year) pair.
	// Returns apperrors.ErrNotFound when none exists.
	FindSagaByIdentity(ctx context.Context, utr string, taxYearStart int) (*domain.SubmissionSaga, error)

	// FindSagaByID retrieves a saga by its surrogate identifier.
	FindSagaByID(ctx context.Context, sagaID string) (*domain.SubmissionSaga, error)

	// ListSagasByUTR retrieves all sagas for a taxpayer, newest tax year first.
	ListSagasByUTR(ctx context.Context, utr string, limit int, offset int) ([]domain.SubmissionSaga, error)
}

// SubmissionSagaWriter defines write operations for submission sagas.
//
// There is deliberately no delete: sagas stay queryable for the statutory
// retention window (six years past the filing deadline); removal is an
// out-of-band operation outside this application.
type SubmissionSagaWriter interface {
	// CreateSaga inserts a new saga. The (utr, tax_year_start) pair is unique;
	// a second insert for the same pair returns apperrors.ErrDuplicate.
	CreateSaga(ctx context.Context, saga domain.SubmissionSaga) error

	// TransitionSaga persists the saga's new state and step outputs with a
	// compare-and-swap on the state column: the update applies only while the
	// stored state still equals expectedState. When another driver has moved
	// the saga first, it returns apperrors.ErrConflict and writes nothing.
	TransitionSaga(ctx context.Context, saga domain.SubmissionSaga, expectedState domain.SagaState) error

	// RecordSagaError updates last_error only, leaving the state untouched.
	// Used for retryable external failures, which must not advance the saga.
	RecordSagaError(ctx context.Context, sagaID string, lastError string, expectedState domain.SagaState) error
}

// SubmissionSagaRepositoryFacade combines read and write saga operations.
type SubmissionSagaRepositoryFacade interface {
	SubmissionSagaReader
	SubmissionSagaWriter
}
