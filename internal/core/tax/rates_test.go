package tax

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

func TestDefaultRates_AllYearsValid(t *testing.T) {
	for _, r := range DefaultRates() {
		assert.NoError(t, r.Validate(), "tax year %d", r.TaxYearStart)
	}
}

func TestTaxYearRates_OrderingInvariants(t *testing.T) {
	// Configuration sanity: rates and thresholds strictly ascending per year.
	for _, r := range DefaultRates() {
		assert.True(t, r.BasicRate.LessThan(r.HigherRate), "tax year %d", r.TaxYearStart)
		assert.True(t, r.HigherRate.LessThan(r.AdditionalRate), "tax year %d", r.TaxYearStart)
		assert.True(t, r.BasicRateLimit.LessThan(r.HigherRateLimit), "tax year %d", r.TaxYearStart)
		assert.True(t, r.Class4AdditionalRate.LessThan(r.Class4MainRate), "tax year %d", r.TaxYearStart)
		assert.True(t, r.Class4LowerLimit.LessThan(r.Class4UpperLimit), "tax year %d", r.TaxYearStart)
	}
}

func TestNewRateProvider_RejectsInvalidConfiguration(t *testing.T) {
	bad := DefaultRates()[0]
	bad.HigherRate = bad.BasicRate // no longer strictly ascending

	_, err := NewRateProvider([]domain.TaxYearRates{bad})
	assert.Error(t, err)

	_, err = NewRateProvider(nil)
	assert.Error(t, err)
}

func TestNewRateProvider_RejectsDuplicateYears(t *testing.T) {
	r := DefaultRates()[0]
	_, err := NewRateProvider([]domain.TaxYearRates{r, r})
	assert.Error(t, err)
}

func TestRateProvider_ForYearFallback(t *testing.T) {
	p := DefaultRateProvider()

	// Exact hit.
	assert.Equal(t, 2023, p.ForYear(2023).TaxYearStart)

	// Future unconfigured year falls back to the most recent configured one.
	assert.Equal(t, 2024, p.ForYear(2030).TaxYearStart)

	// A year before all configuration uses the earliest known values.
	assert.Equal(t, 2022, p.ForYear(2019).TaxYearStart)
}

func TestLoadRatesFile_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.yaml")
	yaml := `taxYears:
  - taxYearStart: 2025
    personalAllowance: "12570"
    taperThreshold: "100000"
    basicRateLimit: "37700"
    higherRateLimit: "125140"
    basicRate: "0.20"
    higherRate: "0.40"
    additionalRate: "0.45"
    class4LowerLimit: "12570"
    class4UpperLimit: "50270"
    class4MainRate: "0.06"
    class4AdditionalRate: "0.02"
    class2WeeklyRate: "3.50"
    class2SmallProfitThreshold: "6845"
    statePensionAge: 66
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	loaded, err := LoadRatesFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 2025, loaded[0].TaxYearStart)
	assert.True(t, loaded[0].Class2WeeklyRate.Equal(decimal.RequireFromString("3.50")))

	merged := MergeRates(DefaultRates(), loaded)
	p, err := NewRateProvider(merged)
	require.NoError(t, err)
	assert.Equal(t, 2025, p.ForYear(2025).TaxYearStart)
	assert.Equal(t, []int{2022, 2023, 2024, 2025}, p.Years())
}

func TestLoadRatesFile_BadDecimal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.yaml")
	yaml := `taxYears:
  - taxYearStart: 2025
    personalAllowance: "not-a-number"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, err := LoadRatesFile(path)
	assert.Error(t, err)
}
