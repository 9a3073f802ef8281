package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"

	"github.com/shopspring/decimal"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrInvalidFilter       = errors.New("invalid filter")
	ErrQueryFailed         = errors.New("query failed")
)

const (
	OperationCreate  = "create"
	OperationGet     = "get"
	OperationList    = "list"
	OperationUpdate  = "update"
	OperationDelete  = "delete"
	OperationSummary = "summary"
)

// TransactionInput carries the mutable fields of a transaction for create and full replace
type TransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Type        string
	Date        time.Time
	Category    *string
}

func (in TransactionInput) toModel(id int64) *models.Transaction {
	return &models.Transaction{
		ID:          id,
		Description: in.Description,
		Amount:      in.Amount,
		Type:        in.Type,
		Date:        models.NormalizeDate(in.Date),
		Category:    models.NormalizeCategory(in.Category),
	}
}

// transactionService implements TransactionServiceInterface
type transactionService struct {
	repo    repositories.TransactionRepositoryInterface
	metrics MetricsRecorderInterface
	logger  *slog.Logger
}

// NewTransactionService creates the ledger service. A nil metrics recorder discards metrics.
func NewTransactionService(
	repo repositories.TransactionRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) TransactionServiceInterface {
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &transactionService{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
	}
}

// CreateTransaction stores a new transaction. The type is checked by the storage constraint.
func (s *transactionService) CreateTransaction(ctx context.Context, input TransactionInput) (txn *models.Transaction, err error) {
	defer s.observe(OperationCreate, time.Now(), &err)

	txn = input.toModel(0)
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	if err := s.repo.Create(ctx, txn); err != nil {
		if errors.Is(err, models.ErrInvalidTransactionType) {
			s.logger.Warn("transaction rejected by storage", "type", input.Type, "error", err)
			return nil, fmt.Errorf("%w: %w", ErrInvalidTransaction, models.ErrInvalidTransactionType)
		}
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.logger.Info("transaction created", "transaction_id", txn.ID, "type", txn.Type, "category", txn.CategoryOrEmpty())
	return txn, nil
}

// GetTransaction returns a single transaction
func (s *transactionService) GetTransaction(ctx context.Context, id int64) (txn *models.Transaction, err error) {
	defer s.observe(OperationGet, time.Now(), &err)

	txn, err = s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions returns all transactions matching filters, newest first
func (s *transactionService) ListTransactions(ctx context.Context, filters models.TransactionFilters) (transactions []models.Transaction, err error) {
	defer s.observe(OperationList, time.Now(), &err)

	if err := filters.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	transactions, err = s.repo.List(ctx, filters)
	if err != nil {
		return nil, s.queryError("failed to list transactions", err)
	}
	return transactions, nil
}

// UpdateTransaction replaces all mutable fields of transaction id
func (s *transactionService) UpdateTransaction(ctx context.Context, id int64, input TransactionInput) (txn *models.Transaction, err error) {
	defer s.observe(OperationUpdate, time.Now(), &err)

	txn = input.toModel(id)
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	if err := s.repo.Update(ctx, txn); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTransactionNotFound):
			return nil, ErrTransactionNotFound
		case errors.Is(err, models.ErrInvalidTransactionType):
			s.logger.Warn("transaction update rejected by storage", "transaction_id", id, "type", input.Type, "error", err)
			return nil, fmt.Errorf("%w: %w", ErrInvalidTransaction, models.ErrInvalidTransactionType)
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.logger.Info("transaction updated", "transaction_id", id)
	return txn, nil
}

// DeleteTransaction permanently removes transaction id
func (s *transactionService) DeleteTransaction(ctx context.Context, id int64) (err error) {
	defer s.observe(OperationDelete, time.Now(), &err)

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.logger.Info("transaction deleted", "transaction_id", id)
	return nil
}

// GetSummary returns income, expenses and balance. Only month and year are applied.
func (s *transactionService) GetSummary(ctx context.Context, filters models.TransactionFilters) (summary *models.Summary, err error) {
	defer s.observe(OperationSummary, time.Now(), &err)

	period := models.TransactionFilters{Month: filters.Month, Year: filters.Year}
	if err := period.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	income, expenses, err := s.repo.SumByType(ctx, filters)
	if err != nil {
		return nil, s.queryError("failed to summarize transactions", err)
	}

	return models.NewSummary(income, expenses), nil
}

func (s *transactionService) queryError(msg string, err error) error {
	if errors.Is(err, repositories.ErrInvalidFilter) {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	s.logger.Error(msg, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrQueryFailed, msg, err)
}

func (s *transactionService) observe(operation string, start time.Time, errp *error) {
	status := "success"
	if *errp != nil {
		status = outcome(*errp)
	}

	s.metrics.IncrementCounter(MetricOperation, map[string]string{
		"operation": operation,
		"status":    status,
	})
	s.metrics.RecordProcessingTime(MetricOperationDuration+"."+operation, time.Since(start))
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrTransactionNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidTransaction), errors.Is(err, ErrInvalidFilter):
		return "invalid"
	default:
		return "error"
	}
}
