package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense gasto registrado por el usuario.
type Expense struct {
	ID            string
	UserID        string
	Category      string
	Description   string
	Amount        decimal.Decimal
	Currency      string
	ExpenseDate   time.Time
	ReceiptURL    string
	IsBillable    bool
	ClientID      string
	ProjectName   string
	PaymentMethod string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ExpenseCategory categoría de gasto con su color de presentación.
type ExpenseCategory struct {
	Name  string
	Color string
}

// DefaultExpenseCategories categorías disponibles para todos los usuarios.
var DefaultExpenseCategories = []ExpenseCategory{
	{Name: "Office Supplies", Color: "#3B82F6"},
	{Name: "Travel & Transportation", Color: "#10B981"},
	{Name: "Meals & Entertainment", Color: "#F59E0B"},
	{Name: "Software & Subscriptions", Color: "#8B5CF6"},
	{Name: "Marketing & Advertising", Color: "#EF4444"},
	{Name: "Equipment & Hardware", Color: "#6B7280"},
	{Name: "Professional Services", Color: "#EC4899"},
	{Name: "Utilities & Internet", Color: "#14B8A6"},
	{Name: "Other", Color: "#64748B"},
}
