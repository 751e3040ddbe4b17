// Package expenses casos de uso de gastos del usuario.
package expenses

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

// ListFilter filtros de GET /api/expenses. Fechas YYYY-MM-DD opcionales.
type ListFilter struct {
	Category string
	From     string
	To       string
}

// UseCase CRUD, categorías y resumen de gastos.
type UseCase struct {
	repo       repository.ExpenseRepository
	clientRepo repository.ClientRepository
	now        func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ExpenseRepository, clientRepo repository.ClientRepository) *UseCase {
	return &UseCase{repo: repo, clientRepo: clientRepo, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Create registra un gasto.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	e, err := uc.parse(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	e.ID = uuid.New().String()
	e.UserID = userID
	e.CreatedAt, e.UpdatedAt = now, now
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("crear gasto: %w", err)
	}
	out := ToExpenseResponse(e)
	return &out, nil
}

// List gastos del usuario, más recientes primero.
func (uc *UseCase) List(ctx context.Context, userID string, f ListFilter) ([]dto.ExpenseResponse, error) {
	filter := repository.ExpenseFilter{UserID: userID, Category: strings.TrimSpace(f.Category)}
	var err error
	if filter.From, err = optionalDate(f.From, "from"); err != nil {
		return nil, err
	}
	if filter.To, err = optionalDate(f.To, "to"); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: el rango de fechas está invertido", domain.ErrInvalidInput)
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		out = append(out, ToExpenseResponse(e))
	}
	return out, nil
}

// Update reemplaza los datos del gasto.
func (uc *UseCase) Update(ctx context.Context, userID, id string, in dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	current, err := uc.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	e, err := uc.parse(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	e.ID, e.UserID, e.CreatedAt = current.ID, current.UserID, current.CreatedAt
	e.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("actualizar gasto: %w", err)
	}
	out := ToExpenseResponse(e)
	return &out, nil
}

// Delete elimina el gasto.
func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.load(ctx, userID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// Categories categorías predeterminadas.
func (uc *UseCase) Categories() []dto.ExpenseCategoryResponse {
	out := make([]dto.ExpenseCategoryResponse, 0, len(entity.DefaultExpenseCategories))
	for _, c := range entity.DefaultExpenseCategories {
		out = append(out, dto.ExpenseCategoryResponse{Name: c.Name, Color: c.Color})
	}
	return out
}

// Summary total, facturables y gastos del mes en curso.
func (uc *UseCase) Summary(ctx context.Context, userID string) (*dto.ExpenseSummaryResponse, error) {
	list, err := uc.repo.List(ctx, repository.ExpenseFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	t := Totals(list, uc.now())
	return &dto.ExpenseSummaryResponse{
		Count:     len(list),
		Total:     t.Total,
		Billable:  t.Billable,
		ThisMonth: t.ThisMonth,
	}, nil
}

// Sums sumas de una lista de gastos.
type Sums struct {
	Total     decimal.Decimal
	Billable  decimal.Decimal
	ThisMonth decimal.Decimal
}

// Totals suma los gastos; ThisMonth cuenta los de mismo año y mes que now.
func Totals(list []*entity.Expense, now time.Time) Sums {
	t := Sums{Total: decimal.Zero, Billable: decimal.Zero, ThisMonth: decimal.Zero}
	for _, e := range list {
		t.Total = t.Total.Add(e.Amount)
		if e.IsBillable {
			t.Billable = t.Billable.Add(e.Amount)
		}
		if sameMonth(e.ExpenseDate, now) {
			t.ThisMonth = t.ThisMonth.Add(e.Amount)
		}
	}
	return t
}

// ToExpenseResponse convierte a DTO.
func ToExpenseResponse(e *entity.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:            e.ID,
		Category:      e.Category,
		Description:   e.Description,
		Amount:        e.Amount,
		Currency:      e.Currency,
		ExpenseDate:   e.ExpenseDate.Format(time.DateOnly),
		ReceiptURL:    e.ReceiptURL,
		IsBillable:    e.IsBillable,
		ClientID:      e.ClientID,
		ProjectName:   e.ProjectName,
		PaymentMethod: e.PaymentMethod,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func (uc *UseCase) load(ctx context.Context, userID, id string) (*entity.Expense, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil || e.UserID != userID {
		return nil, fmt.Errorf("%w: gasto %s", domain.ErrNotFound, id)
	}
	return e, nil
}

func (uc *UseCase) parse(ctx context.Context, userID string, in dto.ExpenseRequest) (*entity.Expense, error) {
	invalid := func(msg string) error { return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg) }
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return nil, invalid("la categoría es obligatoria")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, invalid("la descripción es obligatoria")
	}
	if !in.Amount.IsPositive() {
		return nil, invalid("el monto debe ser mayor que cero")
	}
	date := uc.now()
	if s := strings.TrimSpace(in.ExpenseDate); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return nil, invalid("fecha de gasto inválida")
		}
		date = d
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	clientID := strings.TrimSpace(in.ClientID)
	if clientID != "" {
		c, err := uc.clientRepo.GetByID(ctx, clientID)
		if err != nil {
			return nil, err
		}
		if c == nil || c.UserID != userID {
			return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, clientID)
		}
	}
	return &entity.Expense{
		Category:      category,
		Description:   strings.TrimSpace(in.Description),
		Amount:        in.Amount,
		Currency:      currency,
		ExpenseDate:   entity.DateOf(date),
		ReceiptURL:    strings.TrimSpace(in.ReceiptURL),
		IsBillable:    in.IsBillable,
		ClientID:      clientID,
		ProjectName:   strings.TrimSpace(in.ProjectName),
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Notes:         in.Notes,
	}, nil
}

func optionalDate(s, name string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s inválido %q", domain.ErrInvalidInput, name, s)
	}
	return &d, nil
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
