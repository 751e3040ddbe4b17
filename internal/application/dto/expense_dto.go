package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseRequest body para POST/PUT /api/expenses. expense_date YYYY-MM-DD.
type ExpenseRequest struct {
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	ExpenseDate   string          `json:"expense_date"`
	ReceiptURL    string          `json:"receipt_url,omitempty"`
	IsBillable    bool            `json:"is_billable"`
	ClientID      string          `json:"client_id,omitempty"`
	ProjectName   string          `json:"project_name,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// ExpenseResponse gasto en respuestas.
type ExpenseResponse struct {
	ID            string          `json:"id"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	ExpenseDate   string          `json:"expense_date"`
	ReceiptURL    string          `json:"receipt_url,omitempty"`
	IsBillable    bool            `json:"is_billable"`
	ClientID      string          `json:"client_id,omitempty"`
	ProjectName   string          `json:"project_name,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ExpenseCategoryResponse categoría con su color.
type ExpenseCategoryResponse struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ExpenseSummaryResponse totales de GET /api/expenses/summary.
type ExpenseSummaryResponse struct {
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
	Billable  decimal.Decimal `json:"billable"`
	ThisMonth decimal.Decimal `json:"this_month"`
}
