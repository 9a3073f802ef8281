package models

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string {
	return &s
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name        string
		transaction Transaction
		wantErr     error
	}{
		{
			name: "valid income transaction",
			transaction: Transaction{
				Description: "Salary",
				Amount:      decimal.NewFromFloat(2500.00),
				Type:        TransactionTypeIncome,
				Category:    stringPtr("work"),
			},
		},
		{
			name: "valid expense without category",
			transaction: Transaction{
				Description: "Groceries",
				Amount:      decimal.RequireFromString("40.25"),
				Type:        TransactionTypeExpense,
			},
		},
		{
			name: "zero amount is allowed",
			transaction: Transaction{
				Description: "Adjustment",
				Amount:      decimal.Zero,
				Type:        TransactionTypeExpense,
			},
		},
		{
			name: "unknown type is not checked here",
			transaction: Transaction{
				Description: "Left to the database",
				Amount:      decimal.NewFromInt(1),
				Type:        "invalid",
			},
		},
		{
			name: "missing description",
			transaction: Transaction{
				Amount: decimal.NewFromInt(10),
				Type:   TransactionTypeIncome,
			},
			wantErr: ErrDescriptionRequired,
		},
		{
			name: "description too long",
			transaction: Transaction{
				Description: strings.Repeat("a", MaxDescriptionLength+1),
				Amount:      decimal.NewFromInt(10),
				Type:        TransactionTypeIncome,
			},
			wantErr: ErrDescriptionTooLong,
		},
		{
			name: "negative amount",
			transaction: Transaction{
				Description: "Refund",
				Amount:      decimal.NewFromFloat(-5),
				Type:        TransactionTypeExpense,
			},
			wantErr: ErrNegativeAmount,
		},
		{
			name: "three decimal places",
			transaction: Transaction{
				Description: "Fuel",
				Amount:      decimal.RequireFromString("10.125"),
				Type:        TransactionTypeExpense,
			},
			wantErr: ErrAmountPrecision,
		},
		{
			name: "amount beyond decimal(10,2)",
			transaction: Transaction{
				Description: "Lottery",
				Amount:      decimal.RequireFromString("100000000.00"),
				Type:        TransactionTypeIncome,
			},
			wantErr: ErrAmountTooLarge,
		},
		{
			name: "category too long",
			transaction: Transaction{
				Description: "Rent",
				Amount:      decimal.NewFromInt(900),
				Type:        TransactionTypeExpense,
				Category:    stringPtr(strings.Repeat("c", MaxCategoryLength+1)),
			},
			wantErr: ErrCategoryTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.transaction.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTransaction_TypeHelpers(t *testing.T) {
	assert.True(t, IsValidTransactionType(TransactionTypeIncome))
	assert.True(t, IsValidTransactionType(TransactionTypeExpense))
	assert.False(t, IsValidTransactionType("credit"))
	assert.False(t, IsValidTransactionType(""))
}

func TestTransaction_TableName(t *testing.T) {
	txn := &Transaction{}
	assert.Equal(t, "transactions", txn.TableName())
}

func TestTransaction_CategoryOrEmpty(t *testing.T) {
	assert.Equal(t, "", (&Transaction{}).CategoryOrEmpty())
	assert.Equal(t, "food", (&Transaction{Category: stringPtr("food")}).CategoryOrEmpty())
}

func TestNormalizeCategory(t *testing.T) {
	assert.Nil(t, NormalizeCategory(nil))
	assert.Nil(t, NormalizeCategory(stringPtr("")))

	original := stringPtr("travel")
	normalized := NormalizeCategory(original)
	require.NotNil(t, normalized)
	assert.Equal(t, "travel", *normalized)
	assert.NotSame(t, original, normalized)
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), date)

	_, err = ParseDate("15/03/2024")
	assert.Error(t, err)
}

func TestNormalizeDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	input := time.Date(2024, time.March, 15, 22, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), NormalizeDate(input))
}

func TestNewSummary(t *testing.T) {
	summary := NewSummary(decimal.RequireFromString("100.00"), decimal.RequireFromString("40.00"))

	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(100)))
	assert.True(t, summary.TotalExpenses.Equal(decimal.NewFromInt(40)))
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(60)))

	empty := NewSummary(decimal.Zero, decimal.Zero)
	assert.True(t, empty.Balance.IsZero())
}
