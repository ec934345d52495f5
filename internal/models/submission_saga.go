package models

// SagaState mirrors domain.SagaState for persistence.
type SagaState string

// SubmissionSaga is the database representation of one annual submission
// workflow. Identity is the surrogate saga_id; (utr, tax_year_start) carries
// a unique constraint so at most one saga exists per pair.
type SubmissionSaga struct {
	SagaID       string    `db:"saga_id"`
	UTR          string    `db:"utr"`
	TaxYearStart int       `db:"tax_year_start"`
	State        SagaState `db:"state"`

	CalculationID   string `db:"calculation_id"`  // Nullable
	Breakdown       []byte `db:"breakdown"`       // Nullable JSONB snapshot of the liability breakdown
	ConfirmationRef string `db:"confirmation_ref"` // Nullable
	LastError       string `db:"last_error"`       // Nullable
	FailedFrom      string `db:"failed_from"`      // Nullable

	AuditFields
}
