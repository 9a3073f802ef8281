package dto

import (
	"finance-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// TransactionRequest is the body of create and full-replace requests.
// Amount accepts a JSON number or a numeric string.
type TransactionRequest struct {
	Description string           `json:"description" validate:"required,max=500"`
	Amount      *decimal.Decimal `json:"amount" validate:"required,ledger_amount"`
	Type        string           `json:"type" validate:"required,transaction_type"`
	Date        string           `json:"date" validate:"required,datetime=2006-01-02"`
	Category    *string          `json:"category" validate:"omitempty,max=50"`
}

// Money renders a decimal as a JSON number with two fractional digits
type Money decimal.Decimal

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(models.AmountScale)), nil
}

// TransactionResponse is the wire form of a stored transaction
type TransactionResponse struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Amount      Money   `json:"amount"`
	Type        string  `json:"type"`
	Date        string  `json:"date"`
	Category    *string `json:"category"`
}

// SummaryResponse is the aggregate over a period
type SummaryResponse struct {
	TotalIncome   Money `json:"total_income"`
	TotalExpenses Money `json:"total_expenses"`
	Balance       Money `json:"balance"`
}

// MessageResponse carries a confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// NewTransactionResponse converts a stored transaction to its wire form
func NewTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Description: t.Description,
		Amount:      Money(t.Amount),
		Type:        t.Type,
		Date:        t.Date.Format(models.DateLayout),
		Category:    models.NormalizeCategory(t.Category),
	}
}

// NewTransactionResponses converts a list, never returning nil
func NewTransactionResponses(transactions []models.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(transactions))
	for i := range transactions {
		responses = append(responses, NewTransactionResponse(&transactions[i]))
	}
	return responses
}

// NewSummaryResponse converts a summary to its wire form
func NewSummaryResponse(s *models.Summary) SummaryResponse {
	return SummaryResponse{
		TotalIncome:   Money(s.TotalIncome),
		TotalExpenses: Money(s.TotalExpenses),
		Balance:       Money(s.Balance),
	}
}
