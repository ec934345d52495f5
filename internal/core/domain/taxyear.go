package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TaxYear identifies a UK tax year by its starting calendar year.
// The year runs from 6 April of the start year to 5 April of the next.
type TaxYear struct {
	StartYear int `json:"startYear"`
}

// NewTaxYear creates a TaxYear for the given starting calendar year.
func NewTaxYear(startYear int) TaxYear {
	return TaxYear{StartYear: startYear}
}

// ParseTaxYear accepts either "2024" or the "2024-25" display form.
func ParseTaxYear(s string) (TaxYear, error) {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "-"); idx > 0 {
		s = s[:idx]
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return TaxYear{}, fmt.Errorf("invalid tax year %q: %w", s, err)
	}
	if year < 1900 || year > 2200 {
		return TaxYear{}, fmt.Errorf("tax year %d out of range", year)
	}
	return TaxYear{StartYear: year}, nil
}

// StartDate returns 6 April of the start year.
func (ty TaxYear) StartDate() time.Time {
	return time.Date(ty.StartYear, time.April, 6, 0, 0, 0, 0, time.UTC)
}

// EndDate returns 5 April of the following year.
func (ty TaxYear) EndDate() time.Time {
	return time.Date(ty.StartYear+1, time.April, 5, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether ts falls within the tax year, inclusive of both ends.
func (ty TaxYear) Contains(ts time.Time) bool {
	day := ts.Truncate(24 * time.Hour)
	return !day.Before(ty.StartDate()) && !day.After(ty.EndDate())
}

// FilingDeadline is the online filing deadline: the last day of the month
// nine months after the tax year ends (31 January, two calendar years after
// the start year).
func (ty TaxYear) FilingDeadline() time.Time {
	end := ty.EndDate()
	firstOfMonth := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	deadlineMonth := firstOfMonth.AddDate(0, 9, 0)
	// Last day of the deadline month.
	return deadlineMonth.AddDate(0, 1, -1)
}

// String renders the display form, e.g. "2024-25".
func (ty TaxYear) String() string {
	return fmt.Sprintf("%d-%02d", ty.StartYear, (ty.StartYear+1)%100)
}
