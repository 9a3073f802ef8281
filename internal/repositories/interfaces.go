package repositories

import (
	"context"

	"finance-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	GetByID(ctx context.Context, id int64) (*models.Transaction, error)
	List(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, error)
	Update(ctx context.Context, transaction *models.Transaction) error
	Delete(ctx context.Context, id int64) error

	// SumByType totals income and expense amounts under the month/year part of filters
	SumByType(ctx context.Context, filters models.TransactionFilters) (income, expenses decimal.Decimal, err error)
}
