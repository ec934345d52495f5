package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
	"github.com/taxfolio/self_assessment_app/internal/models"
)

// ToModelSubmissionSaga converts a domain saga to its persistence shape,
// serialising the liability breakdown to JSON for the JSONB column.
func ToModelSubmissionSaga(d domain.SubmissionSaga) (models.SubmissionSaga, error) {
	m := models.SubmissionSaga{
		SagaID:          d.SagaID,
		UTR:             d.UTR,
		TaxYearStart:    d.TaxYearStart,
		State:           models.SagaState(d.State),
		CalculationID:   d.CalculationID,
		ConfirmationRef: d.ConfirmationRef,
		LastError:       d.LastError,
		FailedFrom:      string(d.FailedFrom),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
	if d.Breakdown != nil {
		raw, err := json.Marshal(d.Breakdown)
		if err != nil {
			return models.SubmissionSaga{}, fmt.Errorf("failed to serialise breakdown for saga %s: %w", d.SagaID, err)
		}
		m.Breakdown = raw
	}
	return m, nil
}

// ToDomainSubmissionSaga converts a persisted saga row back to the domain shape.
func ToDomainSubmissionSaga(m models.SubmissionSaga) (domain.SubmissionSaga, error) {
	d := domain.SubmissionSaga{
		SagaID:          m.SagaID,
		UTR:             m.UTR,
		TaxYearStart:    m.TaxYearStart,
		State:           domain.SagaState(m.State),
		CalculationID:   m.CalculationID,
		ConfirmationRef: m.ConfirmationRef,
		LastError:       m.LastError,
		FailedFrom:      domain.SagaState(m.FailedFrom),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	if len(m.Breakdown) > 0 {
		var breakdown domain.LiabilityBreakdown
		if err := json.Unmarshal(m.Breakdown, &breakdown); err != nil {
			return domain.SubmissionSaga{}, fmt.Errorf("failed to parse breakdown for saga %s: %w", m.SagaID, err)
		}
		d.Breakdown = &breakdown
	}
	return d, nil
}
