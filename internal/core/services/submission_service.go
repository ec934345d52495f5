package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taxfolio/self_assessment_app/internal/apperrors"
	"github.com/taxfolio/self_assessment_app/internal/core/domain"
	portsrepo "github.com/taxfolio/self_assessment_app/internal/core/ports/repositories"
	portssvc "github.com/taxfolio/self_assessment_app/internal/core/ports/services"
)

// systemActor is recorded in audit fields for driver-initiated mutations.
const systemActor = "submission-driver"

// submissionService drives annual submission sagas. Each Advance performs at
// most one external call and persists the outcome with a single
// compare-and-swap keyed on the saga's current state, so concurrent drivers
// for the same saga cannot both win a transition.
type submissionService struct {
	BaseService
	sagaRepo  portsrepo.SubmissionSagaRepositoryFacade
	authority portssvc.TaxAuthorityClient
	analytics portssvc.AnalyticsSvc
}

// SubmissionOption is a functional option for configuring the submission service
type SubmissionOption func(*submissionService)

// WithAnalytics adds an analytics sink for saga lifecycle events
func WithAnalytics(a portssvc.AnalyticsSvc) SubmissionOption {
	return func(s *submissionService) {
		s.analytics = a
	}
}

// NewSubmissionService creates the saga driver with the provided options
func NewSubmissionService(sagaRepo portsrepo.SubmissionSagaRepositoryFacade, authority portssvc.TaxAuthorityClient, options ...SubmissionOption) portssvc.SubmissionSvcFacade {
	svc := &submissionService{
		sagaRepo:  sagaRepo,
		authority: authority,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SubmissionSvcFacade = (*submissionService)(nil)

func (s *submissionService) StartOrResumeSubmission(ctx context.Context, utr string, taxYear domain.TaxYear) (*domain.SubmissionSaga, error) {
	saga, err := s.sagaRepo.FindSagaByIdentity(ctx, utr, taxYear.StartYear)
	switch {
	case err == nil:
		// Resume: drive from wherever the saga currently is.
	case errors.Is(err, apperrors.ErrNotFound):
		saga, err = s.createSaga(ctx, utr, taxYear)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to load saga for %s %s: %w", utr, taxYear, err)
	}

	return s.drive(ctx, saga)
}

func (s *submissionService) createSaga(ctx context.Context, utr string, taxYear domain.TaxYear) (*domain.SubmissionSaga, error) {
	now := time.Now()
	saga := domain.SubmissionSaga{
		SagaID:       uuid.NewString(),
		UTR:          utr,
		TaxYearStart: taxYear.StartYear,
		State:        domain.SagaInitiated,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     systemActor,
			LastUpdatedAt: now,
			LastUpdatedBy: systemActor,
		},
	}

	if err := s.sagaRepo.CreateSaga(ctx, saga); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the creation race: the winner's saga is the saga.
			return s.sagaRepo.FindSagaByIdentity(ctx, utr, taxYear.StartYear)
		}
		return nil, fmt.Errorf("failed to create saga for %s %s: %w", utr, taxYear, err)
	}

	s.LogInfo(ctx, "Submission saga created",
		slog.String("saga_id", saga.SagaID),
		slog.String("utr", utr),
		slog.String("tax_year", taxYear.String()))
	s.capture(utr, "submission_started", map[string]any{"tax_year": taxYear.String()})
	return &saga, nil
}

// drive advances the saga until it is terminal, blocked on a retryable
// external failure, or out of transitions for this invocation.
func (s *submissionService) drive(ctx context.Context, saga *domain.SubmissionSaga) (*domain.SubmissionSaga, error) {
	for !saga.State.IsTerminal() {
		next, err := s.advanceOnce(ctx, saga)
		if err != nil {
			if errors.Is(err, apperrors.ErrUnavailable) {
				// Recorded on the saga; state unchanged. Resume later.
				return next, nil
			}
			return next, err
		}
		if next.State == saga.State {
			break
		}
		saga = next
	}
	return saga, nil
}

func (s *submissionService) AdvanceSubmission(ctx context.Context, utr string, taxYear domain.TaxYear) (*domain.SubmissionSaga, error) {
	saga, err := s.sagaRepo.FindSagaByIdentity(ctx, utr, taxYear.StartYear)
	if err != nil {
		return nil, err
	}
	if saga.State.IsTerminal() {
		return saga, fmt.Errorf("%w: saga %s is %s", apperrors.ErrInvalidTransition, saga.SagaID, saga.State)
	}
	return s.advanceOnce(ctx, saga)
}

// advanceOnce attempts exactly the transition that leads out of the saga's
// current state. It never replays an earlier transition: resuming after a
// crash picks up from the persisted state alone.
func (s *submissionService) advanceOnce(ctx context.Context, saga *domain.SubmissionSaga) (*domain.SubmissionSaga, error) {
	switch saga.State {
	case domain.SagaInitiated:
		return s.stepTrigger(ctx, saga)
	case domain.SagaCalculating:
		return s.stepFetch(ctx, saga)
	case domain.SagaCalculated:
		return s.stepMarkDeclaring(ctx, saga)
	case domain.SagaDeclaring:
		return s.stepSubmit(ctx, saga)
	default:
		return saga, fmt.Errorf("%w: no transition out of %s", apperrors.ErrInvalidTransition, saga.State)
	}
}

// stepTrigger: INITIATED -> CALCULATING. The external trigger is idempotent,
// so re-running after a crash yields the same calculation identifier.
func (s *submissionService) stepTrigger(ctx context.Context, saga *domain.SubmissionSaga) (*domain.SubmissionSaga, error) {
	calculationID, err := s.authority.TriggerCalculation(ctx, saga.UTR, saga.TaxYear())
	if err != nil {
		return s.handleStepError(ctx, saga, err, "trigger calculation")
	}

	next := *saga
	next.CalculationID = calculationID
	next.State = domain.SagaCalculating
	next.LastError = ""
	return s.persistTransition(ctx, saga, next)
}

// stepFetch: CALCULATING -> CALCULATED. Re-entering with the result already
// stored is a no-op success.
func (s *submissionService) stepFetch(ctx context.Context, saga *domain.SubmissionSaga) (*domain.SubmissionSaga, error) {
	breakdown, err := s.authority.FetchCalculation(ctx, saga.CalculationID)
	if err != nil {
		return s.handleStepError(ctx, saga, err, "fetch calculation")
	}

	next := *saga
	next.Breakdown = breakdown
	next.State = domain.SagaCalculated
	next.LastError = ""
	return s.persistTransition(ctx, saga, next)
}

// stepMarkDeclaring: CALCULATED -> DECLARING. Pure bookkeeping, no external
// call; marks the declaration as in flight before it is submitted so a crash
// mid-submission resumes by re-submitting under the same idempotency key.
func (s *submissionService) stepMarkDeclaring(ctx context.Context, saga *domain.SubmissionSaga) (*domain.SubmissionSaga, error) {
	next := *saga
	next.State = domain.SagaDeclaring
	next.LastError = ""
	return s.persistTransition(ctx, saga, next)
}

// stepSubmit: DECLARING -> COMPLETED. The calculation identifier is the
// idempotency key; resubmission cannot create a second external declaration.
func (s *submissionService) stepSubmit(ctx context.Context, saga *domain.SubmissionSaga) (*domain.SubmissionSaga, error) {
	confirmationRef, err := s.authority.SubmitDeclaration(ctx, saga.CalculationID, saga.UTR)
	if err != nil {
		return s.handleStepError(ctx, saga, err, "submit declaration")
	}

	next := *saga
	next.ConfirmationRef = confirmationRef
	next.State = domain.SagaCompleted
	next.LastError = ""

	persisted, perr := s.persistTransition(ctx, saga, next)
	if perr == nil && persisted.State == domain.SagaCompleted {
		s.LogInfo(ctx, "Submission saga completed",
			slog.String("saga_id", saga.SagaID),
			slog.String("confirmation_ref", confirmationRef))
		s.capture(saga.UTR, "submission_completed", map[string]any{
			"tax_year":         saga.TaxYear().String(),
			"confirmation_ref": confirmationRef,
		})
	}
	return persisted, perr
}

// persistTransition applies one state change with a compare-and-swap on the
// previous state. A conflict means another driver already moved the saga; the
// stored row wins and the attempt becomes a clean no-op.
func (s *submissionService) persistTransition(ctx context.Context, prev *domain.SubmissionSaga, next domain.SubmissionSaga) (*domain.SubmissionSaga, error) {
	if !prev.State.CanTransitionTo(next.State) {
		return prev, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, prev.State, next.State)
	}

	next.LastUpdatedAt = time.Now()
	next.LastUpdatedBy = systemActor

	err := s.sagaRepo.TransitionSaga(ctx, next, prev.State)
	if err == nil {
		return &next, nil
	}
	if errors.Is(err, apperrors.ErrConflict) {
		s.LogWarn(ctx, "Saga moved concurrently, yielding to stored state",
			slog.String("saga_id", prev.SagaID),
			slog.String("attempted", string(next.State)))
		return s.sagaRepo.FindSagaByID(ctx, prev.SagaID)
	}
	return prev, fmt.Errorf("failed to persist transition for saga %s: %w", prev.SagaID, err)
}

// handleStepError sorts an external failure into the error taxonomy: a
// terminal rejection fails the saga, anything else is recorded as retryable
// with the state left unchanged.
func (s *submissionService) handleStepError(ctx context.Context, saga *domain.SubmissionSaga, cause error, step string) (*domain.SubmissionSaga, error) {
	if errors.Is(cause, apperrors.ErrRejected) {
		return s.failSaga(ctx, saga, cause)
	}

	msg := fmt.Sprintf("%s: %s", step, cause.Error())
	s.LogWarn(ctx, "Retryable external failure, saga state unchanged",
		slog.String("saga_id", saga.SagaID),
		slog.String("step", step),
		slog.String("error", cause.Error()))

	if err := s.sagaRepo.RecordSagaError(ctx, saga.SagaID, msg, saga.State); err != nil && !errors.Is(err, apperrors.ErrConflict) {
		return saga, fmt.Errorf("failed to record saga error: %w", err)
	}

	updated := *saga
	updated.LastError = msg
	if errors.Is(cause, apperrors.ErrUnavailable) {
		return &updated, fmt.Errorf("%s for saga %s: %w", step, saga.SagaID, cause)
	}
	return &updated, fmt.Errorf("%s for saga %s: %w: %w", step, saga.SagaID, apperrors.ErrUnavailable, cause)
}

// failSaga moves the saga to FAILED, remembering the state it fell from so a
// manual retry can re-run exactly that transition.
func (s *submissionService) failSaga(ctx context.Context, saga *domain.SubmissionSaga, cause error) (*domain.SubmissionSaga, error) {
	next := *saga
	next.State = domain.SagaFailed
	next.FailedFrom = saga.State
	next.LastError = cause.Error()

	persisted, err := s.persistTransition(ctx, saga, next)
	if err != nil {
		return persisted, err
	}

	s.LogError(ctx, cause, "Submission saga failed",
		slog.String("saga_id", saga.SagaID),
		slog.String("failed_from", string(saga.State)))
	s.capture(saga.UTR, "submission_failed", map[string]any{
		"tax_year":    saga.TaxYear().String(),
		"failed_from": string(saga.State),
	})
	return persisted, nil
}

func (s *submissionService) RetrySubmission(ctx context.Context, utr string, taxYear domain.TaxYear) (*domain.SubmissionSaga, error) {
	saga, err := s.sagaRepo.FindSagaByIdentity(ctx, utr, taxYear.StartYear)
	if err != nil {
		return nil, err
	}
	if saga.State != domain.SagaFailed {
		return saga, fmt.Errorf("%w: retry requires FAILED, saga %s is %s", apperrors.ErrInvalidTransition, saga.SagaID, saga.State)
	}
	if saga.FailedFrom == "" {
		return saga, fmt.Errorf("%w: saga %s has no recorded failure origin", apperrors.ErrInvalidTransition, saga.SagaID)
	}

	// Re-enter the state the saga fell from; the next advance re-runs exactly
	// the transition that failed.
	next := *saga
	next.State = saga.FailedFrom
	next.FailedFrom = ""
	next.LastError = ""

	reentered, err := s.persistTransition(ctx, saga, next)
	if err != nil {
		return reentered, err
	}

	s.LogInfo(ctx, "Submission saga retrying",
		slog.String("saga_id", saga.SagaID),
		slog.String("resumed_state", string(reentered.State)))
	return s.drive(ctx, reentered)
}

func (s *submissionService) GetSubmission(ctx context.Context, utr string, taxYear domain.TaxYear) (*domain.SubmissionSaga, error) {
	return s.sagaRepo.FindSagaByIdentity(ctx, utr, taxYear.StartYear)
}

func (s *submissionService) ListSubmissions(ctx context.Context, utr string, limit int, offset int) ([]domain.SubmissionSaga, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.sagaRepo.ListSagasByUTR(ctx, utr, limit, offset)
}

func (s *submissionService) capture(distinctID, event string, props map[string]any) {
	if s.analytics == nil {
		return
	}
	s.analytics.Capture(distinctID, event, props)
}
