package services

import (
	"context"
	"time"

	"finance-ledger/internal/models"
)

// TransactionServiceInterface defines the ledger operations exposed over HTTP
type TransactionServiceInterface interface {
	CreateTransaction(ctx context.Context, input TransactionInput) (*models.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, input TransactionInput) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error

	// GetSummary totals income and expenses under the month/year filters and derives the balance
	GetSummary(ctx context.Context, filters models.TransactionFilters) (*models.Summary, error)
}

// MetricsRecorderInterface records operation outcomes
type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
}
