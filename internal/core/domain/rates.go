package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxYearRates holds every threshold and percentage the calculators need for
// one tax year. Instances are built once at start-up and never mutated.
type TaxYearRates struct {
	TaxYearStart int `json:"taxYearStart"`

	// Income tax
	PersonalAllowance  decimal.Decimal `json:"personalAllowance"`
	TaperThreshold     decimal.Decimal `json:"taperThreshold"`
	BasicRateLimit     decimal.Decimal `json:"basicRateLimit"`  // width of the basic band
	HigherRateLimit    decimal.Decimal `json:"higherRateLimit"` // upper bound of the higher band (taxable)
	BasicRate          decimal.Decimal `json:"basicRate"`
	HigherRate         decimal.Decimal `json:"higherRate"`
	AdditionalRate     decimal.Decimal `json:"additionalRate"`

	// Class 4 National Insurance (percentage based)
	Class4LowerLimit     decimal.Decimal `json:"class4LowerLimit"`
	Class4UpperLimit     decimal.Decimal `json:"class4UpperLimit"`
	Class4MainRate       decimal.Decimal `json:"class4MainRate"`
	Class4AdditionalRate decimal.Decimal `json:"class4AdditionalRate"`

	// Class 2 National Insurance (flat weekly rate)
	Class2WeeklyRate           decimal.Decimal `json:"class2WeeklyRate"`
	Class2SmallProfitThreshold decimal.Decimal `json:"class2SmallProfitThreshold"`

	// Age at which Class 4 liability stops.
	StatePensionAge int `json:"statePensionAge"`
}

// Validate enforces the configuration sanity invariants: strictly ascending
// income-tax rates and thresholds, and Class 4 main rate above the additional
// rate with ascending limits.
func (r TaxYearRates) Validate() error {
	if r.PersonalAllowance.IsNegative() {
		return fmt.Errorf("tax year %d: personal allowance must not be negative", r.TaxYearStart)
	}
	if !r.BasicRate.LessThan(r.HigherRate) || !r.HigherRate.LessThan(r.AdditionalRate) {
		return fmt.Errorf("tax year %d: income tax rates must be strictly ascending (basic < higher < additional)", r.TaxYearStart)
	}
	if !r.BasicRateLimit.LessThan(r.HigherRateLimit) {
		return fmt.Errorf("tax year %d: basic rate limit must be below higher rate limit", r.TaxYearStart)
	}
	if !r.TaperThreshold.GreaterThan(r.PersonalAllowance) {
		return fmt.Errorf("tax year %d: taper threshold must exceed the personal allowance", r.TaxYearStart)
	}
	if !r.Class4LowerLimit.LessThan(r.Class4UpperLimit) {
		return fmt.Errorf("tax year %d: class 4 lower limit must be below the upper limit", r.TaxYearStart)
	}
	if !r.Class4AdditionalRate.LessThan(r.Class4MainRate) {
		return fmt.Errorf("tax year %d: class 4 main rate must exceed the additional rate", r.TaxYearStart)
	}
	if r.Class2WeeklyRate.IsNegative() || r.Class2SmallProfitThreshold.IsNegative() {
		return fmt.Errorf("tax year %d: class 2 amounts must not be negative", r.TaxYearStart)
	}
	if r.StatePensionAge <= 0 {
		return fmt.Errorf("tax year %d: state pension age must be positive", r.TaxYearStart)
	}
	return nil
}
