package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finance-ledger/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SQLSTATE check_violation
const pgCheckViolation = "23514"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidFilter       = errors.New("invalid transaction filter")
)

type typeTotals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// Create inserts a transaction; the generated id is written back to it
func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return translateWriteError("failed to create transaction", err)
	}
	return nil
}

// GetByID retrieves a transaction by ID
func (r *transactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.WithContext(ctx).First(&transaction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// List retrieves all transactions matching filters, newest date first
func (r *transactionRepository) List(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, error) {
	conditions, err := filters.Conditions()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	query := applyConditions(r.db.WithContext(ctx).Model(&models.Transaction{}), conditions)

	transactions := make([]models.Transaction, 0)
	if err := query.Order("date DESC").Order("id DESC").Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// Update replaces every mutable field of the stored row with transaction's values
// and reloads it. A nil category clears the stored one.
func (r *transactionRepository) Update(ctx context.Context, transaction *models.Transaction) error {
	db := r.db.WithContext(ctx)

	result := db.Model(&models.Transaction{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]interface{}{
			"description": transaction.Description,
			"amount":      transaction.Amount,
			"type":        transaction.Type,
			"date":        transaction.Date,
			"category":    transaction.Category,
		})

	if result.Error != nil {
		return translateWriteError("failed to update transaction", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}

	if err := db.First(transaction, transaction.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to reload transaction: %w", err)
	}
	return nil
}

// Delete permanently removes a transaction
func (r *transactionRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Transaction{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// SumByType returns income and expense totals. Date bounds in filters are ignored.
func (r *transactionRepository) SumByType(ctx context.Context, filters models.TransactionFilters) (decimal.Decimal, decimal.Decimal, error) {
	conditions, err := filters.PeriodConditions()
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	var totals typeTotals
	query := applyConditions(r.db.WithContext(ctx).Model(&models.Transaction{}), conditions).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS income, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS expenses",
			models.TransactionTypeIncome, models.TransactionTypeExpense,
		)

	if err := query.Scan(&totals).Error; err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}

	return totals.Income, totals.Expenses, nil
}

func applyConditions(query *gorm.DB, conditions []models.Condition) *gorm.DB {
	for _, c := range conditions {
		query = query.Where(c.Clause, c.Args...)
	}
	return query
}

// translateWriteError maps a rejected type CHECK to models.ErrInvalidTransactionType
func translateWriteError(msg string, err error) error {
	if isCheckViolation(err) {
		return fmt.Errorf("%s: %w", msg, models.ErrInvalidTransactionType)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func isCheckViolation(err error) bool {
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCheckViolation
	}

	// sqlite reports constraint failures by message only
	return strings.Contains(err.Error(), "CHECK constraint failed")
}
