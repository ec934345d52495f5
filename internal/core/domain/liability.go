package domain

import (
	"github.com/shopspring/decimal"
)

// Class4ExemptionReason explains why a Class 4 liability is zero despite profit.
type Class4ExemptionReason string

const (
	// Class4ExemptPensionAge applies when the taxpayer reached state pension
	// age before the tax year started.
	Class4ExemptPensionAge Class4ExemptionReason = "STATE_PENSION_AGE"
)

// TaxBand is one slice of taxable income taxed at a single rate.
type TaxBand struct {
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"` // income consumed by the band
	Tax    decimal.Decimal `json:"tax"`    // amount x rate, rounded half-up to 2dp
}

// IncomeTaxResult holds the income tax portion of a liability breakdown.
type IncomeTaxResult struct {
	PersonalAllowance decimal.Decimal `json:"personalAllowance"`
	TaxableIncome     decimal.Decimal `json:"taxableIncome"`
	Bands             []TaxBand       `json:"bands"`
	Total             decimal.Decimal `json:"total"`
}

// Class4Result holds the percentage-based National Insurance portion.
type Class4Result struct {
	Bands           []TaxBand             `json:"bands"`
	Total           decimal.Decimal       `json:"total"`
	Exempt          bool                  `json:"exempt"`
	ExemptionReason Class4ExemptionReason `json:"exemptionReason,omitempty"`
}

// Class2Result holds the flat-rate National Insurance portion.
// At most one of Mandatory and Voluntary is true.
type Class2Result struct {
	Total       decimal.Decimal `json:"total"`
	WeeksLiable int             `json:"weeksLiable"`
	Mandatory   bool            `json:"mandatory"`
	Voluntary   bool            `json:"voluntary"`
}

// LiabilityBreakdown is the full result of one liability calculation.
// It is immutable once constructed: either fully computed, or fully zeroed
// (with the year's personal allowance still recorded) for non-positive profit.
type LiabilityBreakdown struct {
	TaxYearStart   int             `json:"taxYearStart"`
	GrossProfit    decimal.Decimal `json:"grossProfit"`
	IncomeTax      IncomeTaxResult `json:"incomeTax"`
	Class4         Class4Result    `json:"class4"`
	Class2         Class2Result    `json:"class2"`
	TotalLiability decimal.Decimal `json:"totalLiability"`
	NetProfit      decimal.Decimal `json:"netProfit"`
	EffectiveRate  decimal.Decimal `json:"effectiveRate"` // percent, 2dp, zero when profit <= 0
}
