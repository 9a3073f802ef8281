package handlers

import (
	"fmt"
	"strconv"
	"time"

	"finance-ledger/internal/models"

	"github.com/labstack/echo/v4"
)

// queryParamError reports a query parameter that could not be parsed
type queryParamError struct {
	param  string
	reason string
	isDate bool
}

func (e *queryParamError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.param, e.reason)
}

// parseIDParam reads the :id path parameter as a positive integer
func parseIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid transaction id %q", c.Param("id"))
	}
	return id, nil
}

func getOptionalIntParam(c echo.Context, name string) (*int, error) {
	param := c.QueryParam(name)
	if param == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(param)
	if err != nil {
		return nil, &queryParamError{param: name, reason: "must be an integer"}
	}
	return &value, nil
}

func getOptionalDateParam(c echo.Context, name string) (*time.Time, error) {
	param := c.QueryParam(name)
	if param == "" {
		return nil, nil
	}

	value, err := models.ParseDate(param)
	if err != nil {
		return nil, &queryParamError{param: name, reason: "use YYYY-MM-DD", isDate: true}
	}
	return &value, nil
}

// parsePeriodFilters reads month and year
func parsePeriodFilters(c echo.Context) (models.TransactionFilters, error) {
	var filters models.TransactionFilters
	var err error

	if filters.Month, err = getOptionalIntParam(c, "month"); err != nil {
		return filters, err
	}
	if filters.Year, err = getOptionalIntParam(c, "year"); err != nil {
		return filters, err
	}
	return filters, nil
}

// parseTransactionFilters reads month, year, start_date and end_date
func parseTransactionFilters(c echo.Context) (models.TransactionFilters, error) {
	filters, err := parsePeriodFilters(c)
	if err != nil {
		return filters, err
	}

	if filters.StartDate, err = getOptionalDateParam(c, "start_date"); err != nil {
		return filters, err
	}
	if filters.EndDate, err = getOptionalDateParam(c, "end_date"); err != nil {
		return filters, err
	}
	return filters, nil
}
