// Package tax implements the self-assessment liability calculators.
//
// Every function in this package is pure: it takes a profit figure plus a
// TaxYearRates value and returns an immutable result, so callers may invoke
// them concurrently without coordination.
package tax

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

// RateProvider resolves the TaxYearRates for a requested year. It is built
// once at start-up, validated, and never mutated afterwards, which makes it
// safe to share across goroutines.
type RateProvider struct {
	years  map[int]domain.TaxYearRates
	sorted []int // ascending tax year start years
}

// NewRateProvider validates every configured year and indexes them for lookup.
func NewRateProvider(rates []domain.TaxYearRates) (*RateProvider, error) {
	if len(rates) == 0 {
		return nil, fmt.Errorf("at least one tax year must be configured")
	}
	years := make(map[int]domain.TaxYearRates, len(rates))
	sorted := make([]int, 0, len(rates))
	for _, r := range rates {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("invalid rate configuration: %w", err)
		}
		if _, exists := years[r.TaxYearStart]; exists {
			return nil, fmt.Errorf("duplicate rate configuration for tax year %d", r.TaxYearStart)
		}
		years[r.TaxYearStart] = r
		sorted = append(sorted, r.TaxYearStart)
	}
	sort.Ints(sorted)
	return &RateProvider{years: years, sorted: sorted}, nil
}

// ForYear returns the rates for the requested year. An unconfigured year is a
// configuration gap, not an error: the provider substitutes the most recent
// configured year at or before the requested one, or the earliest known year
// when the request predates all configuration.
func (p *RateProvider) ForYear(taxYearStart int) domain.TaxYearRates {
	if r, ok := p.years[taxYearStart]; ok {
		return r
	}
	best := p.sorted[0]
	for _, y := range p.sorted {
		if y > taxYearStart {
			break
		}
		best = y
	}
	return p.years[best]
}

// Years returns the configured tax year start years in ascending order.
func (p *RateProvider) Years() []int {
	out := make([]int, len(p.sorted))
	copy(out, p.sorted)
	return out
}

// ratesFileEntry is the YAML shape of one tax year. Monetary values are kept
// as strings so nothing passes through binary floating point.
type ratesFileEntry struct {
	TaxYearStart               int    `mapstructure:"taxYearStart"`
	PersonalAllowance          string `mapstructure:"personalAllowance"`
	TaperThreshold             string `mapstructure:"taperThreshold"`
	BasicRateLimit             string `mapstructure:"basicRateLimit"`
	HigherRateLimit            string `mapstructure:"higherRateLimit"`
	BasicRate                  string `mapstructure:"basicRate"`
	HigherRate                 string `mapstructure:"higherRate"`
	AdditionalRate             string `mapstructure:"additionalRate"`
	Class4LowerLimit           string `mapstructure:"class4LowerLimit"`
	Class4UpperLimit           string `mapstructure:"class4UpperLimit"`
	Class4MainRate             string `mapstructure:"class4MainRate"`
	Class4AdditionalRate       string `mapstructure:"class4AdditionalRate"`
	Class2WeeklyRate           string `mapstructure:"class2WeeklyRate"`
	Class2SmallProfitThreshold string `mapstructure:"class2SmallProfitThreshold"`
	StatePensionAge            int    `mapstructure:"statePensionAge"`
}

// LoadRatesFile reads additional or overriding tax years from a YAML file.
// Years present in the file replace the built-in defaults for the same year.
func LoadRatesFile(path string) ([]domain.TaxYearRates, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read rates file %s: %w", path, err)
	}

	var entries []ratesFileEntry
	if err := v.UnmarshalKey("taxYears", &entries); err != nil {
		return nil, fmt.Errorf("failed to decode rates file %s: %w", path, err)
	}

	rates := make([]domain.TaxYearRates, 0, len(entries))
	for _, e := range entries {
		r, err := e.toRates()
		if err != nil {
			return nil, fmt.Errorf("rates file %s: %w", path, err)
		}
		rates = append(rates, r)
	}
	return rates, nil
}

func (e ratesFileEntry) toRates() (domain.TaxYearRates, error) {
	r := domain.TaxYearRates{TaxYearStart: e.TaxYearStart, StatePensionAge: e.StatePensionAge}

	fields := []struct {
		dst  *decimal.Decimal
		raw  string
		name string
	}{
		{&r.PersonalAllowance, e.PersonalAllowance, "personalAllowance"},
		{&r.TaperThreshold, e.TaperThreshold, "taperThreshold"},
		{&r.BasicRateLimit, e.BasicRateLimit, "basicRateLimit"},
		{&r.HigherRateLimit, e.HigherRateLimit, "higherRateLimit"},
		{&r.BasicRate, e.BasicRate, "basicRate"},
		{&r.HigherRate, e.HigherRate, "higherRate"},
		{&r.AdditionalRate, e.AdditionalRate, "additionalRate"},
		{&r.Class4LowerLimit, e.Class4LowerLimit, "class4LowerLimit"},
		{&r.Class4UpperLimit, e.Class4UpperLimit, "class4UpperLimit"},
		{&r.Class4MainRate, e.Class4MainRate, "class4MainRate"},
		{&r.Class4AdditionalRate, e.Class4AdditionalRate, "class4AdditionalRate"},
		{&r.Class2WeeklyRate, e.Class2WeeklyRate, "class2WeeklyRate"},
		{&r.Class2SmallProfitThreshold, e.Class2SmallProfitThreshold, "class2SmallProfitThreshold"},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return domain.TaxYearRates{}, fmt.Errorf("tax year %d: invalid %s %q", e.TaxYearStart, f.name, f.raw)
		}
		*f.dst = d
	}
	return r, nil
}

// MergeRates overlays overrides onto base, replacing any year present in both.
func MergeRates(base, overrides []domain.TaxYearRates) []domain.TaxYearRates {
	byYear := make(map[int]domain.TaxYearRates, len(base)+len(overrides))
	for _, r := range base {
		byYear[r.TaxYearStart] = r
	}
	for _, r := range overrides {
		byYear[r.TaxYearStart] = r
	}
	merged := make([]domain.TaxYearRates, 0, len(byYear))
	for _, r := range byYear {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].TaxYearStart < merged[j].TaxYearStart })
	return merged
}
