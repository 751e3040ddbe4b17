package repository

import (
	"context"
	"time"

	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
)

// ExpenseFilter filtros opcionales del listado de gastos.
type ExpenseFilter struct {
	UserID   string
	Category string
	From     *time.Time
	To       *time.Time
}

// ExpenseRepository define el puerto de persistencia para Expense.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id string) (*entity.Expense, error)
	// List ordena por expense_date desc.
	List(ctx context.Context, filter ExpenseFilter) ([]*entity.Expense, error)
	Update(ctx context.Context, expense *entity.Expense) error
	Delete(ctx context.Context, id string) error
}
