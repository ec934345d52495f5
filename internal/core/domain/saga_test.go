package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSagaState_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    SagaState
		to      SagaState
		allowed bool
	}{
		{SagaInitiated, SagaCalculating, true},
		{SagaCalculating, SagaCalculated, true},
		{SagaCalculated, SagaDeclaring, true},
		{SagaDeclaring, SagaCompleted, true},
		{SagaInitiated, SagaCalculated, false},
		{SagaCalculating, SagaDeclaring, false},
		{SagaCompleted, SagaDeclaring, false},
		{SagaCompleted, SagaFailed, false},
		{SagaInitiated, SagaFailed, true},
		{SagaDeclaring, SagaFailed, true},
		{SagaFailed, SagaCalculating, true},
		{SagaFailed, SagaCompleted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestSagaState_IsTerminal(t *testing.T) {
	assert.True(t, SagaCompleted.IsTerminal())
	assert.True(t, SagaFailed.IsTerminal())
	assert.False(t, SagaInitiated.IsTerminal())
	assert.False(t, SagaDeclaring.IsTerminal())
}

func TestTaxYear_Dates(t *testing.T) {
	ty := NewTaxYear(2023)

	assert.Equal(t, time.Date(2023, time.April, 6, 0, 0, 0, 0, time.UTC), ty.StartDate())
	assert.Equal(t, time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC), ty.EndDate())
	assert.Equal(t, "2023-24", ty.String())

	// Last day of the month nine months after the year ends: 31 January,
	// two calendar years after the start.
	assert.Equal(t, time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), ty.FilingDeadline())
}

func TestTaxYear_Contains(t *testing.T) {
	ty := NewTaxYear(2024)

	assert.True(t, ty.Contains(time.Date(2024, time.April, 6, 10, 0, 0, 0, time.UTC)))
	assert.True(t, ty.Contains(time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC)))
	assert.False(t, ty.Contains(time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC)))
	assert.False(t, ty.Contains(time.Date(2025, time.April, 6, 0, 0, 0, 0, time.UTC)))
}

func TestParseTaxYear(t *testing.T) {
	ty, err := ParseTaxYear("2024-25")
	assert.NoError(t, err)
	assert.Equal(t, 2024, ty.StartYear)

	ty, err = ParseTaxYear("2023")
	assert.NoError(t, err)
	assert.Equal(t, 2023, ty.StartYear)

	_, err = ParseTaxYear("not-a-year")
	assert.Error(t, err)
}
