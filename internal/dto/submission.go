package dto

import (
	"time"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

// StartSubmissionRequest defines the input for starting an annual submission.
type StartSubmissionRequest struct {
	UTR     string `json:"utr" binding:"required,len=10,numeric"`
	TaxYear string `json:"taxYear" binding:"required,taxyear"`
}

// SubmissionResponse is the externally visible view of one submission saga.
type SubmissionResponse struct {
	SagaID          string                      `json:"sagaID"`
	UTR             string                      `json:"utr"`
	TaxYear         string                      `json:"taxYear"`
	State           string                      `json:"state"`
	CalculationID   string                      `json:"calculationID,omitempty"`
	Breakdown       *LiabilityBreakdownResponse `json:"breakdown,omitempty"`
	ConfirmationRef string                      `json:"confirmationRef,omitempty"`
	LastError       string                      `json:"lastError,omitempty"`
	FailedFrom      string                      `json:"failedFrom,omitempty"`
	CreatedAt       time.Time                   `json:"createdAt"`
	LastUpdatedAt   time.Time                   `json:"lastUpdatedAt"`
}

// ListSubmissionsResponse wraps a page of submissions.
type ListSubmissionsResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
}

// ToSubmissionResponse converts a domain saga to its response shape.
func ToSubmissionResponse(s *domain.SubmissionSaga) SubmissionResponse {
	resp := SubmissionResponse{
		SagaID:          s.SagaID,
		UTR:             s.UTR,
		TaxYear:         s.TaxYear().String(),
		State:           string(s.State),
		CalculationID:   s.CalculationID,
		ConfirmationRef: s.ConfirmationRef,
		LastError:       s.LastError,
		FailedFrom:      string(s.FailedFrom),
		CreatedAt:       s.CreatedAt,
		LastUpdatedAt:   s.LastUpdatedAt,
	}
	if s.Breakdown != nil {
		breakdown := ToLiabilityBreakdownResponse(s.Breakdown)
		resp.Breakdown = &breakdown
	}
	return resp
}

// ToListSubmissionsResponse converts a slice of domain sagas to the page shape.
func ToListSubmissionsResponse(sagas []domain.SubmissionSaga) ListSubmissionsResponse {
	responses := make([]SubmissionResponse, len(sagas))
	for i := range sagas {
		responses[i] = ToSubmissionResponse(&sagas[i])
	}
	return ListSubmissionsResponse{Submissions: responses}
}
