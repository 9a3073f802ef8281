package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"finance-ledger/internal/dto"
	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/models"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

const deletedMessage = "Transaction deleted successfully"

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	service services.TransactionServiceInterface
	logger  *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service services.TransactionServiceInterface, logger *slog.Logger) *TransactionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionHandler{
		service: service,
		logger:  logger,
	}
}

// CreateTransaction records a new income or expense.
// POST /transactions -> 200 Transaction
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	input, ok, err := h.bindTransactionRequest(c)
	if !ok {
		return err
	}

	txn, err := h.service.CreateTransaction(c.Request().Context(), input)
	if err != nil {
		return h.handleServiceError(c, err, "Failed to create transaction")
	}

	return c.JSON(http.StatusOK, dto.NewTransactionResponse(txn))
}

// ListTransactions returns transactions, newest first.
// GET /transactions?month=&year=&start_date=&end_date=
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	filters, err := parseTransactionFilters(c)
	if err != nil {
		return sendQueryParamError(c, err)
	}

	transactions, err := h.service.ListTransactions(c.Request().Context(), filters)
	if err != nil {
		return h.handleServiceError(c, err, "Failed to retrieve transactions")
	}

	return c.JSON(http.StatusOK, dto.NewTransactionResponses(transactions))
}

// GetTransaction returns one transaction.
// GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return SendError(c, apierrors.ValidationInvalidFormat, apierrors.WithDetails(err.Error()))
	}

	txn, err := h.service.GetTransaction(c.Request().Context(), id)
	if err != nil {
		return h.handleServiceError(c, err, "Failed to retrieve transaction")
	}

	return c.JSON(http.StatusOK, dto.NewTransactionResponse(txn))
}

// UpdateTransaction replaces every field of a transaction.
// PUT /transactions/:id -> 200 Transaction, 404 when missing
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return SendError(c, apierrors.ValidationInvalidFormat, apierrors.WithDetails(err.Error()))
	}

	input, ok, err := h.bindTransactionRequest(c)
	if !ok {
		return err
	}

	txn, err := h.service.UpdateTransaction(c.Request().Context(), id, input)
	if err != nil {
		return h.handleServiceError(c, err, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, dto.NewTransactionResponse(txn))
}

// DeleteTransaction permanently removes a transaction.
// DELETE /transactions/:id -> 200 {"message": ...}, 404 when missing
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return SendError(c, apierrors.ValidationInvalidFormat, apierrors.WithDetails(err.Error()))
	}

	if err := h.service.DeleteTransaction(c.Request().Context(), id); err != nil {
		return h.handleServiceError(c, err, "Failed to delete transaction")
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: deletedMessage})
}

// GetSummary totals income and expenses.
// GET /summary?month=&year=
func (h *TransactionHandler) GetSummary(c echo.Context) error {
	filters, err := parsePeriodFilters(c)
	if err != nil {
		return sendQueryParamError(c, err)
	}

	summary, err := h.service.GetSummary(c.Request().Context(), filters)
	if err != nil {
		return h.handleServiceError(c, err, "Failed to calculate summary")
	}

	return c.JSON(http.StatusOK, dto.NewSummaryResponse(summary))
}

// bindTransactionRequest decodes and validates the body. When ok is false the
// response has been handled and err is what the handler returns.
func (h *TransactionHandler) bindTransactionRequest(c echo.Context) (input services.TransactionInput, ok bool, err error) {
	var req dto.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return input, false, SendError(c, apierrors.ValidationGeneral,
			apierrors.WithDetails("Invalid request body"))
	}

	// Unknown types stop here with 400. The storage CHECK constraint still
	// guards every write that bypasses this request path.
	if err := c.Validate(req); err != nil {
		// formatted by the HTTP error handler
		return input, false, err
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		return input, false, SendError(c, apierrors.ValidationInvalidDate,
			apierrors.WithDetails("date: must be a date in YYYY-MM-DD format"))
	}

	return services.TransactionInput{
		Description: req.Description,
		Amount:      *req.Amount,
		Type:        req.Type,
		Date:        date,
		Category:    req.Category,
	}, true, nil
}

func (h *TransactionHandler) handleServiceError(c echo.Context, err error, queryMessage string) error {
	switch {
	case errors.Is(err, services.ErrTransactionNotFound):
		return SendError(c, apierrors.TransactionNotFound)
	case errors.Is(err, models.ErrInvalidTransactionType):
		return SendError(c, apierrors.TransactionInvalidType)
	case errors.Is(err, services.ErrInvalidTransaction):
		return SendError(c, apierrors.TransactionValidationFailed, apierrors.WithDetails(err.Error()))
	case errors.Is(err, models.ErrMonthOutOfRange), errors.Is(err, models.ErrYearOutOfRange):
		return SendError(c, apierrors.ValidationOutOfRange, apierrors.WithDetails(err.Error()))
	case errors.Is(err, services.ErrInvalidFilter):
		return SendError(c, apierrors.TransactionInvalidFilter, apierrors.WithDetails(err.Error()))
	case errors.Is(err, services.ErrQueryFailed):
		h.logger.Error("query failed", "trace_id", getTraceID(c), "error", err)
		return SendQueryError(c, queryMessage)
	default:
		h.logger.Error("unexpected service error", "trace_id", getTraceID(c), "error", err)
		return SendSystemError(c)
	}
}

func sendQueryParamError(c echo.Context, err error) error {
	var paramErr *queryParamError
	if errors.As(err, &paramErr) && paramErr.isDate {
		return SendError(c, apierrors.ValidationInvalidDate, apierrors.WithDetails(err.Error()))
	}
	return SendError(c, apierrors.ValidationInvalidFormat, apierrors.WithDetails(err.Error()))
}
