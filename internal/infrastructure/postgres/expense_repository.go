package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

const expenseColumns = `id, user_id, category, description, amount, currency, expense_date, receipt_url,
	is_billable, COALESCE(client_id, ''), project_name, payment_method, notes, created_at, updated_at`

// ExpenseRepo implementación de ExpenseRepository.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador.
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// Create persiste un gasto.
func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO expenses (id, user_id, category, description, amount, currency, expense_date, receipt_url,
			is_billable, client_id, project_name, payment_method, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.UserID, e.Category, e.Description, e.Amount, e.Currency, e.ExpenseDate, e.ReceiptURL,
		e.IsBillable, nullIfEmpty(e.ClientID), e.ProjectName, e.PaymentMethod, e.Notes, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert expense", err)
	}
	return nil
}

// GetByID obtiene un gasto por ID.
func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	e, err := scanExpense(r.q.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistErr("get expense", err)
	}
	return e, nil
}

// List gastos del usuario con filtros opcionales de categoría y rango de fechas.
func (r *ExpenseRepo) List(ctx context.Context, f repository.ExpenseFilter) ([]*entity.Expense, error) {
	conds := []string{"user_id = $1"}
	args := []any{f.UserID}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("expense_date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("expense_date <= $%d", len(args)))
	}
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY expense_date DESC, created_at DESC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, persistErr("list expenses", err)
	}
	defer rows.Close()
	var list []*entity.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, persistErr("scan expense", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list expenses", err)
	}
	return list, nil
}

// Update reescribe los campos editables del gasto.
func (r *ExpenseRepo) Update(ctx context.Context, e *entity.Expense) error {
	query := `
		UPDATE expenses SET category = $2, description = $3, amount = $4, currency = $5, expense_date = $6,
			receipt_url = $7, is_billable = $8, client_id = $9, project_name = $10, payment_method = $11,
			notes = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		e.ID, e.Category, e.Description, e.Amount, e.Currency, e.ExpenseDate, e.ReceiptURL, e.IsBillable,
		nullIfEmpty(e.ClientID), e.ProjectName, e.PaymentMethod, e.Notes, e.UpdatedAt,
	)
	if err != nil {
		return writeErr("update expense", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un gasto.
func (r *ExpenseRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return persistErr("delete expense", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanExpense(row rowScanner) (*entity.Expense, error) {
	var e entity.Expense
	err := row.Scan(&e.ID, &e.UserID, &e.Category, &e.Description, &e.Amount, &e.Currency, &e.ExpenseDate,
		&e.ReceiptURL, &e.IsBillable, &e.ClientID, &e.ProjectName, &e.PaymentMethod, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
