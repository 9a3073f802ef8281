package models

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"

	// DateLayout is the wire and query format of a ledger date
	DateLayout = "2006-01-02"

	MaxDescriptionLength = 500
	MaxCategoryLength    = 50
	AmountScale          = 2
)

var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrDescriptionRequired    = errors.New("transaction description is required")
	ErrDescriptionTooLong     = errors.New("transaction description too long")
	ErrNegativeAmount         = errors.New("transaction amount must not be negative")
	ErrAmountPrecision        = errors.New("transaction amount must have at most 2 decimal places")
	ErrAmountTooLarge         = errors.New("transaction amount exceeds storage precision")
	ErrCategoryTooLong        = errors.New("category code too long")
)

// MaxAmount is the largest value a decimal(10,2) column holds
var MaxAmount = decimal.RequireFromString("99999999.99")

// Transaction is one ledger entry, either income or expense.
// The type invariant is owned by the CHECK constraint on the table.
type Transaction struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Type        string          `gorm:"type:varchar(10);not null;check:chk_transactions_type,type IN ('income','expense')" json:"type"`
	Date        time.Time       `gorm:"type:date;not null" json:"date"`
	Category    *string         `gorm:"type:varchar(50)" json:"category"`
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// Validate checks the fields the storage layer does not constrain.
// Type is left to the CHECK constraint.
func (t *Transaction) Validate() error {
	if t.Description == "" {
		return ErrDescriptionRequired
	}

	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}

	if t.Category != nil && utf8.RuneCountInString(*t.Category) > MaxCategoryLength {
		return ErrCategoryTooLong
	}

	return nil
}

// CategoryOrEmpty returns the category or "" when unset
func (t *Transaction) CategoryOrEmpty() string {
	if t.Category == nil {
		return ""
	}
	return *t.Category
}

// Helper functions

// ValidateAmount checks that amount fits a non-negative decimal(10,2)
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	if !amount.Equal(amount.Truncate(AmountScale)) {
		return ErrAmountPrecision
	}

	if amount.GreaterThan(MaxAmount) {
		return ErrAmountTooLarge
	}

	return nil
}

// IsValidTransactionType checks if the transaction type is valid
func IsValidTransactionType(transactionType string) bool {
	switch transactionType {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	default:
		return false
	}
}

// NormalizeDate keeps the calendar day of t and drops clock and location
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar date
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// NormalizeCategory maps an empty category to nil
func NormalizeCategory(category *string) *string {
	if category == nil || *category == "" {
		return nil
	}
	c := *category
	return &c
}
