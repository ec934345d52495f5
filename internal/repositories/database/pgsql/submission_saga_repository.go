package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taxfolio/self_assessment_app/internal/apperrors"
	"github.com/taxfolio/self_assessment_app/internal/core/domain"
	portsrepo "github.com/taxfolio/self_assessment_app/internal/core/ports/repositories"
	"github.com/taxfolio/self_assessment_app/internal/models"
	"github.com/taxfolio/self_assessment_app/internal/utils/mapping"
)

const uniqueViolation = "23505"

type PgxSubmissionSagaRepository struct {
	pool *pgxpool.Pool
}

// newPgxSubmissionSagaRepository creates a new repository for submission saga data.
func newPgxSubmissionSagaRepository(pool *pgxpool.Pool) portsrepo.SubmissionSagaRepositoryFacade {
	return &PgxSubmissionSagaRepository{pool: pool}
}

// Ensure PgxSubmissionSagaRepository implements the facade
var _ portsrepo.SubmissionSagaRepositoryFacade = (*PgxSubmissionSagaRepository)(nil)

const sagaColumns = `saga_id, utr, tax_year_start, state, calculation_id, breakdown, confirmation_ref, last_error, failed_from, created_at, created_by, last_updated_at, last_updated_by`

// CreateSaga inserts a new saga row. The unique index on (utr, tax_year_start)
// is the creation race arbiter: the loser gets ErrDuplicate, never a second row.
func (r *PgxSubmissionSagaRepository) CreateSaga(ctx context.Context, saga domain.SubmissionSaga) error {
	m, err := mapping.ToModelSubmissionSaga(saga)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO submission_sagas (` + sagaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = r.pool.Exec(ctx, query,
		m.SagaID,
		m.UTR,
		m.TaxYearStart,
		m.State,
		nullString(m.CalculationID),
		m.Breakdown,
		nullString(m.ConfirmationRef),
		nullString(m.LastError),
		nullString(m.FailedFrom),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: saga for UTR %s tax year %d already exists", apperrors.ErrDuplicate, m.UTR, m.TaxYearStart)
		}
		return fmt.Errorf("failed to create saga %s: %w", m.SagaID, err)
	}
	return nil
}

// FindSagaByIdentity retrieves the saga for a (UTR, tax year) pair.
func (r *PgxSubmissionSagaRepository) FindSagaByIdentity(ctx context.Context, utr string, taxYearStart int) (*domain.SubmissionSaga, error) {
	query := `
		SELECT ` + sagaColumns + `
		FROM submission_sagas
		WHERE utr = $1 AND tax_year_start = $2;
	`
	return r.querySaga(ctx, query, utr, taxYearStart)
}

// FindSagaByID retrieves a saga by its surrogate identifier.
func (r *PgxSubmissionSagaRepository) FindSagaByID(ctx context.Context, sagaID string) (*domain.SubmissionSaga, error) {
	query := `
		SELECT ` + sagaColumns + `
		FROM submission_sagas
		WHERE saga_id = $1;
	`
	return r.querySaga(ctx, query, sagaID)
}

func (r *PgxSubmissionSagaRepository) querySaga(ctx context.Context, query string, args ...any) (*domain.SubmissionSaga, error) {
	row := r.pool.QueryRow(ctx, query, args...)
	saga, err := scanSaga(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load saga: %w", err)
	}
	return saga, nil
}

// ListSagasByUTR retrieves a taxpayer's sagas, newest tax year first.
func (r *PgxSubmissionSagaRepository) ListSagasByUTR(ctx context.Context, utr string, limit int, offset int) ([]domain.SubmissionSaga, error) {
	query := `
		SELECT ` + sagaColumns + `
		FROM submission_sagas
		WHERE utr = $1
		ORDER BY tax_year_start DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.pool.Query(ctx, query, utr, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sagas for UTR %s: %w", utr, err)
	}
	defer rows.Close()

	var sagas []domain.SubmissionSaga
	for rows.Next() {
		saga, err := scanSaga(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saga row: %w", err)
		}
		sagas = append(sagas, *saga)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating sagas for UTR %s: %w", utr, err)
	}
	return sagas, nil
}

// TransitionSaga persists one state transition as a compare-and-swap: the
// update applies only while the stored state still equals expectedState.
// Zero rows affected means a concurrent driver moved the saga first.
func (r *PgxSubmissionSagaRepository) TransitionSaga(ctx context.Context, saga domain.SubmissionSaga, expectedState domain.SagaState) error {
	m, err := mapping.ToModelSubmissionSaga(saga)
	if err != nil {
		return err
	}

	query := `
		UPDATE submission_sagas
		SET state = $1,
		    calculation_id = $2,
		    breakdown = $3,
		    confirmation_ref = $4,
		    last_error = $5,
		    failed_from = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE saga_id = $9 AND state = $10;
	`
	tag, err := r.pool.Exec(ctx, query,
		m.State,
		nullString(m.CalculationID),
		m.Breakdown,
		nullString(m.ConfirmationRef),
		nullString(m.LastError),
		nullString(m.FailedFrom),
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.SagaID,
		string(expectedState),
	)
	if err != nil {
		return fmt.Errorf("failed to transition saga %s: %w", m.SagaID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: saga %s no longer in state %s", apperrors.ErrConflict, m.SagaID, expectedState)
	}
	return nil
}

// RecordSagaError stores a retryable failure message without touching the
// state column. The state guard keeps a late write from clobbering a saga
// that has already moved on.
func (r *PgxSubmissionSagaRepository) RecordSagaError(ctx context.Context, sagaID string, lastError string, expectedState domain.SagaState) error {
	query := `
		UPDATE submission_sagas
		SET last_error = $1, last_updated_at = now()
		WHERE saga_id = $2 AND state = $3;
	`
	tag, err := r.pool.Exec(ctx, query, lastError, sagaID, string(expectedState))
	if err != nil {
		return fmt.Errorf("failed to record error on saga %s: %w", sagaID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: saga %s no longer in state %s", apperrors.ErrConflict, sagaID, expectedState)
	}
	return nil
}

// scanSaga reads one saga row from a pgx row or rows cursor.
func scanSaga(row pgx.Row) (*domain.SubmissionSaga, error) {
	var m models.SubmissionSaga
	var calculationID, confirmationRef, lastError, failedFrom sql.NullString
	var breakdown []byte

	err := row.Scan(
		&m.SagaID,
		&m.UTR,
		&m.TaxYearStart,
		&m.State,
		&calculationID,
		&breakdown,
		&confirmationRef,
		&lastError,
		&failedFrom,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	m.CalculationID = calculationID.String
	m.ConfirmationRef = confirmationRef.String
	m.LastError = lastError.String
	m.FailedFrom = failedFrom.String
	m.Breakdown = breakdown

	saga, err := mapping.ToDomainSubmissionSaga(m)
	if err != nil {
		return nil, err
	}
	return &saga, nil
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
