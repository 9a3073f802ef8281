package models

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMonthWithoutYear  = errors.New("month filter requires year")
	ErrMonthOutOfRange   = errors.New("month must be between 1 and 12")
	ErrYearOutOfRange    = errors.New("year must be between 1 and 9999")
	ErrInvertedDateRange = errors.New("start_date must not be after end_date")
)

// TransactionFilters contains filtering options for transaction queries.
// Month is only meaningful together with Year.
type TransactionFilters struct {
	Month     *int
	Year      *int
	StartDate *time.Time
	EndDate   *time.Time
}

// Condition is one parameterized WHERE fragment
type Condition struct {
	Clause string
	Args   []interface{}
}

// Validate rejects filter combinations that cannot be translated to a query
func (f TransactionFilters) Validate() error {
	if f.Month != nil {
		if f.Year == nil {
			return ErrMonthWithoutYear
		}
		if *f.Month < 1 || *f.Month > 12 {
			return ErrMonthOutOfRange
		}
	}

	if f.Year != nil && (*f.Year < 1 || *f.Year > 9999) {
		return ErrYearOutOfRange
	}

	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return ErrInvertedDateRange
	}

	return nil
}

// Conditions returns the WHERE fragments for all set filters, AND-combined by the caller.
// Upper bounds are exclusive on the day after the inclusive end.
func (f TransactionFilters) Conditions() ([]Condition, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	conditions := f.periodConditions()
	if f.StartDate != nil || f.EndDate != nil {
		conditions = append(conditions, dateRange(f.StartDate, f.EndDate)...)
	}

	return conditions, nil
}

// PeriodConditions returns only the month/year fragment, used by summaries
func (f TransactionFilters) PeriodConditions() ([]Condition, error) {
	period := TransactionFilters{Month: f.Month, Year: f.Year}
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return period.periodConditions(), nil
}

// month+year wins over year alone
func (f TransactionFilters) periodConditions() []Condition {
	switch {
	case f.Month != nil && f.Year != nil:
		first := time.Date(*f.Year, time.Month(*f.Month), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return dateRange(&first, &last)
	case f.Year != nil:
		first := time.Date(*f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(1, 0, -1)
		return dateRange(&first, &last)
	default:
		return nil
	}
}

// lastDate is the latest day a YYYY-MM-DD date can name. Nothing stored lies
// beyond it, and "10000-01-01" compares before every real date as text, so
// a range ending on it has no upper bound.
var lastDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// dateRange covers from..through inclusive; either end may be nil
func dateRange(from, through *time.Time) []Condition {
	var clauses []string
	var args []interface{}

	if from != nil {
		clauses = append(clauses, "date >= ?")
		args = append(args, formatDate(*from))
	}
	if through != nil && NormalizeDate(*through).Before(lastDate) {
		clauses = append(clauses, "date < ?")
		args = append(args, formatDate(nextDay(*through)))
	}

	if len(clauses) == 0 {
		return nil
	}
	return []Condition{{Clause: strings.Join(clauses, " AND "), Args: args}}
}

func nextDay(t time.Time) time.Time {
	return NormalizeDate(t).AddDate(0, 0, 1)
}

func formatDate(t time.Time) string {
	return NormalizeDate(t).Format(DateLayout)
}
