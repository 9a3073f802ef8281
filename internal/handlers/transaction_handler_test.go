package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finance-ledger/internal/middleware"
	"finance-ledger/internal/models"
	"finance-ledger/internal/services"
	"finance-ledger/internal/services/service_mocks"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TransactionHandlerTestSuite struct {
	suite.Suite
	echo        *echo.Echo
	ctrl        *gomock.Controller
	mockService *service_mocks.MockTransactionServiceInterface
	handler     *TransactionHandler
}

func TestTransactionHandlerSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}

func (s *TransactionHandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = service_mocks.NewMockTransactionServiceInterface(s.ctrl)
	s.handler = NewTransactionHandler(s.mockService, nil)

	s.echo = echo.New()
	s.echo.Validator = NewValidator()
	s.echo.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	s.echo.GET("/transactions", s.handler.ListTransactions)
	s.echo.POST("/transactions", s.handler.CreateTransaction)
	s.echo.GET("/transactions/:id", s.handler.GetTransaction)
	s.echo.PUT("/transactions/:id", s.handler.UpdateTransaction)
	s.echo.DELETE("/transactions/:id", s.handler.DeleteTransaction)
	s.echo.GET("/summary", s.handler.GetSummary)
}

func (s *TransactionHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *TransactionHandlerTestSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *TransactionHandlerTestSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var resp ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Code
}

func sampleTransaction(id int64) *models.Transaction {
	category := "salary"
	return &models.Transaction{
		ID:          id,
		Description: gofakeit.Sentence(3),
		Amount:      decimal.RequireFromString("100"),
		Type:        models.TransactionTypeIncome,
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Category:    &category,
	}
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_Success() {
	txn := sampleTransaction(1)
	s.mockService.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, input services.TransactionInput) (*models.Transaction, error) {
			s.Equal("Salary", input.Description)
			s.Equal("100.00", input.Amount.StringFixed(2))
			s.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), input.Date)
			s.Require().NotNil(input.Category)
			return txn, nil
		})

	rec := s.do(http.MethodPost, "/transactions",
		`{"description":"Salary","amount":100,"type":"income","date":"2024-03-01","category":"salary"}`)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"amount":100.00`)
	s.Contains(rec.Body.String(), `"date":"2024-03-01"`)
	s.Contains(rec.Body.String(), `"id":1`)
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_AmountAsString() {
	s.mockService.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, input services.TransactionInput) (*models.Transaction, error) {
			s.Equal("12.34", input.Amount.StringFixed(2))
			return sampleTransaction(2), nil
		})

	rec := s.do(http.MethodPost, "/transactions",
		`{"description":"Lunch","amount":"12.34","type":"expense","date":"2024-03-01"}`)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_ValidationFailures() {
	testCases := []struct {
		name   string
		body   string
		code   string
		detail string
	}{
		{"missing description", `{"amount":1,"type":"income","date":"2024-03-01"}`, "VALIDATION_002", "description: is required"},
		{"missing amount", `{"description":"x","type":"income","date":"2024-03-01"}`, "VALIDATION_002", "amount: is required"},
		{"negative amount", `{"description":"x","amount":-5,"type":"income","date":"2024-03-01"}`, "TRANSACTION_002", "amount: must be a non-negative amount"},
		{"three decimals", `{"description":"x","amount":1.234,"type":"income","date":"2024-03-01"}`, "TRANSACTION_002", "amount: must be a non-negative amount"},
		{"bad type", `{"description":"x","amount":1,"type":"transfer","date":"2024-03-01"}`, "VALIDATION_001", "type: must be 'income' or 'expense'"},
		{"bad date", `{"description":"x","amount":1,"type":"income","date":"03/01/2024"}`, "VALIDATION_001", "date: must be a date in YYYY-MM-DD format"},
		{"long category", fmt.Sprintf(`{"description":"x","amount":1,"type":"income","date":"2024-03-01","category":"%s"}`, strings.Repeat("c", 51)), "VALIDATION_001", "category: must be at most 50 characters long"},
		{"long description", fmt.Sprintf(`{"description":"%s","amount":1,"type":"income","date":"2024-03-01"}`, strings.Repeat("d", 501)), "VALIDATION_001", "description: must be at most 500 characters long"},
		{"missing field and bad amount", `{"amount":-1,"type":"income","date":"2024-03-01"}`, "VALIDATION_001", "description: is required"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			rec := s.do(http.MethodPost, "/transactions", tc.body)

			s.Equal(http.StatusBadRequest, rec.Code)
			s.Equal(tc.code, s.errorCode(rec))
			s.Contains(rec.Body.String(), tc.detail)
		})
	}
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_MalformedBody() {
	rec := s.do(http.MethodPost, "/transactions", `{"description":`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_001", s.errorCode(rec))
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_StorageRejectsType() {
	s.mockService.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: %w", services.ErrInvalidTransaction, models.ErrInvalidTransactionType))

	rec := s.do(http.MethodPost, "/transactions",
		`{"description":"x","amount":1,"type":"income","date":"2024-03-01"}`)

	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("TRANSACTION_006", s.errorCode(rec))
}

func (s *TransactionHandlerTestSuite) TestListTransactions_ParsesFilters() {
	s.mockService.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, filters models.TransactionFilters) ([]models.Transaction, error) {
			s.Require().NotNil(filters.Month)
			s.Require().NotNil(filters.Year)
			s.Equal(3, *filters.Month)
			s.Equal(2024, *filters.Year)
			s.Require().NotNil(filters.StartDate)
			s.Equal("2024-03-10", filters.StartDate.Format(models.DateLayout))
			s.Nil(filters.EndDate)
			return []models.Transaction{*sampleTransaction(1), *sampleTransaction(2)}, nil
		})

	rec := s.do(http.MethodGet, "/transactions?month=3&year=2024&start_date=2024-03-10", "")

	s.Equal(http.StatusOK, rec.Code)
	var body []map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Len(body, 2)
}

func (s *TransactionHandlerTestSuite) TestListTransactions_EmptyIsArray() {
	s.mockService.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, nil)

	rec := s.do(http.MethodGet, "/transactions", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq("[]", rec.Body.String())
}

func (s *TransactionHandlerTestSuite) TestListTransactions_BadQueryParams() {
	rec := s.do(http.MethodGet, "/transactions?month=march&year=2024", "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_003", s.errorCode(rec))

	rec = s.do(http.MethodGet, "/transactions?start_date=2024-13-01", "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_007", s.errorCode(rec))
}

func (s *TransactionHandlerTestSuite) TestListTransactions_InvalidFilterCombination() {
	s.mockService.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: %w", services.ErrInvalidFilter, models.ErrMonthWithoutYear))

	rec := s.do(http.MethodGet, "/transactions?month=3", "")

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("TRANSACTION_007", s.errorCode(rec))
	s.Contains(rec.Body.String(), "month filter requires year")
}

func (s *TransactionHandlerTestSuite) TestListTransactions_PeriodOutOfRange() {
	s.mockService.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: %w", services.ErrInvalidFilter, models.ErrMonthOutOfRange))

	rec := s.do(http.MethodGet, "/transactions?month=13&year=2024", "")

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_004", s.errorCode(rec))
	s.Contains(rec.Body.String(), "month must be between 1 and 12")
}

func (s *TransactionHandlerTestSuite) TestListTransactions_QueryFailure() {
	s.mockService.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: %w", services.ErrQueryFailed, errors.New("pq: relation does not exist")))

	rec := s.do(http.MethodGet, "/transactions", "")

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("SYSTEM_002", s.errorCode(rec))
	s.Contains(rec.Body.String(), "Failed to retrieve transactions")
	s.NotContains(rec.Body.String(), "relation does not exist")
}

func (s *TransactionHandlerTestSuite) TestGetTransaction() {
	s.mockService.EXPECT().GetTransaction(gomock.Any(), int64(5)).Return(sampleTransaction(5), nil)
	rec := s.do(http.MethodGet, "/transactions/5", "")
	s.Equal(http.StatusOK, rec.Code)

	s.mockService.EXPECT().GetTransaction(gomock.Any(), int64(6)).Return(nil, services.ErrTransactionNotFound)
	rec = s.do(http.MethodGet, "/transactions/6", "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("TRANSACTION_001", s.errorCode(rec))
}

func (s *TransactionHandlerTestSuite) TestInvalidIDParam() {
	for _, id := range []string{"abc", "0", "-3"} {
		rec := s.do(http.MethodDelete, "/transactions/"+id, "")
		s.Equal(http.StatusBadRequest, rec.Code, id)
		s.Equal("VALIDATION_003", s.errorCode(rec), id)
	}
}

func (s *TransactionHandlerTestSuite) TestUpdateTransaction() {
	s.mockService.EXPECT().UpdateTransaction(gomock.Any(), int64(9), gomock.Any()).DoAndReturn(
		func(_ interface{}, _ int64, input services.TransactionInput) (*models.Transaction, error) {
			s.Nil(input.Category)
			txn := sampleTransaction(9)
			txn.Category = nil
			return txn, nil
		})

	rec := s.do(http.MethodPut, "/transactions/9",
		`{"description":"Rent","amount":"950.00","type":"expense","date":"2024-03-01"}`)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"category":null`)
}

func (s *TransactionHandlerTestSuite) TestUpdateTransaction_NotFound() {
	s.mockService.EXPECT().UpdateTransaction(gomock.Any(), int64(9), gomock.Any()).
		Return(nil, services.ErrTransactionNotFound)

	rec := s.do(http.MethodPut, "/transactions/9",
		`{"description":"Rent","amount":950,"type":"expense","date":"2024-03-01"}`)

	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("TRANSACTION_001", s.errorCode(rec))
}

func (s *TransactionHandlerTestSuite) TestDeleteTransaction() {
	s.mockService.EXPECT().DeleteTransaction(gomock.Any(), int64(3)).Return(nil)
	rec := s.do(http.MethodDelete, "/transactions/3", "")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"message":"Transaction deleted successfully"}`, rec.Body.String())

	s.mockService.EXPECT().DeleteTransaction(gomock.Any(), int64(4)).Return(services.ErrTransactionNotFound)
	rec = s.do(http.MethodDelete, "/transactions/4", "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *TransactionHandlerTestSuite) TestDeleteTransaction_UnexpectedError() {
	s.mockService.EXPECT().DeleteTransaction(gomock.Any(), int64(3)).Return(errors.New("boom"))

	rec := s.do(http.MethodDelete, "/transactions/3", "")

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("SYSTEM_001", s.errorCode(rec))
}

func (s *TransactionHandlerTestSuite) TestGetSummary() {
	s.mockService.EXPECT().GetSummary(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, filters models.TransactionFilters) (*models.Summary, error) {
			s.Require().NotNil(filters.Year)
			s.Nil(filters.StartDate)
			return models.NewSummary(decimal.NewFromInt(100), decimal.NewFromInt(40)), nil
		})

	rec := s.do(http.MethodGet, "/summary?year=2024&start_date=2024-01-01", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(`{"total_income":100.00,"total_expenses":40.00,"balance":60.00}`, strings.TrimSpace(rec.Body.String()))
}

func (s *TransactionHandlerTestSuite) TestGetSummary_QueryFailure() {
	s.mockService.EXPECT().GetSummary(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: timeout", services.ErrQueryFailed))

	rec := s.do(http.MethodGet, "/summary", "")

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("SYSTEM_002", s.errorCode(rec))
	s.Contains(rec.Body.String(), "Failed to calculate summary")
}
