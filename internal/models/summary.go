package models

import "github.com/shopspring/decimal"

// Summary holds income and expense totals over an optional date filter
type Summary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Balance       decimal.Decimal `json:"balance"`
}

// NewSummary builds a summary and derives the balance
func NewSummary(income, expenses decimal.Decimal) *Summary {
	return &Summary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income.Sub(expenses),
	}
}
