package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

// CalculateLiabilityRequest defines the input for a liability calculation.
// TaxYear accepts "2024-25" or the bare start year "2024".
type CalculateLiabilityRequest struct {
	Profit          decimal.Decimal `json:"profit"`
	TaxYear         string          `json:"taxYear" binding:"required,taxyear"`
	DateOfBirth     *time.Time      `json:"dateOfBirth,omitempty"`
	VoluntaryClass2 bool            `json:"voluntaryClass2"`
}

// TaxBandResponse is one band slice of the breakdown.
type TaxBandResponse struct {
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
	Tax    decimal.Decimal `json:"tax"`
}

// IncomeTaxResponse is the income tax portion of the breakdown.
type IncomeTaxResponse struct {
	PersonalAllowance decimal.Decimal   `json:"personalAllowance"`
	TaxableIncome     decimal.Decimal   `json:"taxableIncome"`
	Bands             []TaxBandResponse `json:"bands"`
	Total             decimal.Decimal   `json:"total"`
}

// Class4Response is the percentage-based National Insurance portion.
type Class4Response struct {
	Bands           []TaxBandResponse `json:"bands"`
	Total           decimal.Decimal   `json:"total"`
	Exempt          bool              `json:"exempt"`
	ExemptionReason string            `json:"exemptionReason,omitempty"`
}

// Class2Response is the flat-rate National Insurance portion.
type Class2Response struct {
	Total       decimal.Decimal `json:"total"`
	WeeksLiable int             `json:"weeksLiable"`
	Mandatory   bool            `json:"mandatory"`
	Voluntary   bool            `json:"voluntary"`
}

// LiabilityBreakdownResponse is the full calculation result.
type LiabilityBreakdownResponse struct {
	TaxYear        string            `json:"taxYear"`
	GrossProfit    decimal.Decimal   `json:"grossProfit"`
	IncomeTax      IncomeTaxResponse `json:"incomeTax"`
	Class4         Class4Response    `json:"class4"`
	Class2         Class2Response    `json:"class2"`
	TotalLiability decimal.Decimal   `json:"totalLiability"`
	NetProfit      decimal.Decimal   `json:"netProfit"`
	EffectiveRate  decimal.Decimal   `json:"effectiveRate"`
}

// AdvancePaymentRequest defines the input for a payments on account decision.
type AdvancePaymentRequest struct {
	PreviousLiability decimal.Decimal `json:"previousLiability"`
	IsFirstYear       bool            `json:"isFirstYear"`
	WithheldPercent   decimal.Decimal `json:"withheldPercent"`
	TaxYear           string          `json:"taxYear" binding:"required,taxyear"`
}

// InstalmentResponse is one payment on account with its due date.
type InstalmentResponse struct {
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"dueDate"`
}

// AdvancePaymentResponse is the payments on account decision.
type AdvancePaymentResponse struct {
	Required        bool                 `json:"required"`
	ExemptionReason string               `json:"exemptionReason,omitempty"`
	Instalments     []InstalmentResponse `json:"instalments,omitempty"`
}

// BalancingPaymentRequest defines the input for a balancing payment figure.
type BalancingPaymentRequest struct {
	CurrentLiability decimal.Decimal   `json:"currentLiability"`
	InstalmentsPaid  []decimal.Decimal `json:"instalmentsPaid"`
}

// BalancingPaymentResponse carries the residual owed. A negative balance is
// a refund due to the taxpayer.
type BalancingPaymentResponse struct {
	Balance decimal.Decimal `json:"balance"`
	Refund  bool            `json:"refund"`
}

// ToTaxBandResponses converts domain bands to their response shape.
func ToTaxBandResponses(bands []domain.TaxBand) []TaxBandResponse {
	responses := make([]TaxBandResponse, len(bands))
	for i, b := range bands {
		responses[i] = TaxBandResponse{
			Name:   b.Name,
			Rate:   b.Rate,
			Amount: b.Amount,
			Tax:    b.Tax,
		}
	}
	return responses
}

// ToLiabilityBreakdownResponse converts a domain breakdown to its response shape.
func ToLiabilityBreakdownResponse(b *domain.LiabilityBreakdown) LiabilityBreakdownResponse {
	return LiabilityBreakdownResponse{
		TaxYear:     domain.NewTaxYear(b.TaxYearStart).String(),
		GrossProfit: b.GrossProfit,
		IncomeTax: IncomeTaxResponse{
			PersonalAllowance: b.IncomeTax.PersonalAllowance,
			TaxableIncome:     b.IncomeTax.TaxableIncome,
			Bands:             ToTaxBandResponses(b.IncomeTax.Bands),
			Total:             b.IncomeTax.Total,
		},
		Class4: Class4Response{
			Bands:           ToTaxBandResponses(b.Class4.Bands),
			Total:           b.Class4.Total,
			Exempt:          b.Class4.Exempt,
			ExemptionReason: string(b.Class4.ExemptionReason),
		},
		Class2: Class2Response{
			Total:       b.Class2.Total,
			WeeksLiable: b.Class2.WeeksLiable,
			Mandatory:   b.Class2.Mandatory,
			Voluntary:   b.Class2.Voluntary,
		},
		TotalLiability: b.TotalLiability,
		NetProfit:      b.NetProfit,
		EffectiveRate:  b.EffectiveRate,
	}
}

// ToAdvancePaymentResponse converts a domain decision to its response shape.
func ToAdvancePaymentResponse(d domain.AdvancePaymentDecision) AdvancePaymentResponse {
	resp := AdvancePaymentResponse{
		Required:        d.Required,
		ExemptionReason: string(d.ExemptionReason),
	}
	for _, inst := range d.Instalments {
		resp.Instalments = append(resp.Instalments, InstalmentResponse{
			Amount:  inst.Amount,
			DueDate: inst.DueDate,
		})
	}
	return resp
}
