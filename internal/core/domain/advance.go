package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdvanceExemptionReason explains why payments on account are not required.
// Reasons are evaluated in a fixed priority order; the first match wins.
type AdvanceExemptionReason string

const (
	AdvanceExemptFirstYear      AdvanceExemptionReason = "FIRST_YEAR"
	AdvanceExemptMostlyWithheld AdvanceExemptionReason = "MOSTLY_WITHHELD_AT_SOURCE"
	AdvanceExemptBelowThreshold AdvanceExemptionReason = "BELOW_THRESHOLD"
)

// Instalment is one payment on account with its due date.
type Instalment struct {
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"dueDate"`
}

// AdvancePaymentDecision is the outcome of evaluating payments on account:
// either not required with a reason, or required with two equal instalments.
type AdvancePaymentDecision struct {
	Required        bool                   `json:"required"`
	ExemptionReason AdvanceExemptionReason `json:"exemptionReason,omitempty"`
	Instalments     []Instalment           `json:"instalments,omitempty"`
}
