package domain

// SagaState is the current position of an annual submission in its workflow.
type SagaState string

const (
	SagaInitiated   SagaState = "INITIATED"
	SagaCalculating SagaState = "CALCULATING"
	SagaCalculated  SagaState = "CALCULATED"
	SagaDeclaring   SagaState = "DECLARING"
	SagaCompleted   SagaState = "COMPLETED"
	SagaFailed      SagaState = "FAILED"
)

// IsTerminal reports whether the state permits no further transitions.
func (s SagaState) IsTerminal() bool {
	return s == SagaCompleted || s == SagaFailed
}

// CanTransitionTo reports whether moving from s to next is a legal step.
// FAILED is reachable from every non-terminal state; recovery from FAILED
// re-enters the state the saga fell from.
func (s SagaState) CanTransitionTo(next SagaState) bool {
	if s.IsTerminal() && s != SagaFailed {
		return false
	}
	if next == SagaFailed {
		return !s.IsTerminal()
	}
	switch s {
	case SagaInitiated:
		return next == SagaCalculating
	case SagaCalculating:
		return next == SagaCalculated
	case SagaCalculated:
		return next == SagaDeclaring
	case SagaDeclaring:
		return next == SagaCompleted
	case SagaFailed:
		// Manual retry re-enters the transition that failed.
		return next == SagaInitiated || next == SagaCalculating ||
			next == SagaCalculated || next == SagaDeclaring
	default:
		return false
	}
}

// SubmissionSaga is the durable aggregate driving one annual submission for a
// (UTR, tax year) pair. It is mutated only by the submission service, one
// state transition at a time, and persisted with a compare-and-swap on State.
type SubmissionSaga struct {
	SagaID       string    `json:"sagaID"`
	UTR          string    `json:"utr"` // unique taxpayer reference
	TaxYearStart int       `json:"taxYearStart"`
	State        SagaState `json:"state"`

	// CalculationID is the external authority's calculation identifier; it is
	// the idempotency key for every downstream call.
	CalculationID   string              `json:"calculationID,omitempty"`
	Breakdown       *LiabilityBreakdown `json:"breakdown,omitempty"`
	ConfirmationRef string              `json:"confirmationRef,omitempty"`

	LastError string `json:"lastError,omitempty"`
	// FailedFrom records which state a FAILED saga fell from so a manual retry
	// re-runs exactly that transition.
	FailedFrom SagaState `json:"failedFrom,omitempty"`

	AuditFields
}

// TaxYear returns the saga's tax year value type.
func (s SubmissionSaga) TaxYear() TaxYear {
	return NewTaxYear(s.TaxYearStart)
}
