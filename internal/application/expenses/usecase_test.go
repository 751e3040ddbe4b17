package expenses_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/application/expenses"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/infrastructure/memory"
)

var feb10 = time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T) *expenses.UseCase {
	t.Helper()
	s, err := memory.NewSeeded()
	require.NoError(t, err)
	return expenses.NewUseCase(s.Expenses(), s.Clients()).WithClock(func() time.Time { return feb10 })
}

func TestSummary_DatosDeDemostracion(t *testing.T) {
	got, err := newUseCase(t).Summary(context.Background(), memory.DemoUserID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Count)
	assert.True(t, decimal.RequireFromString("1598.48").Equal(got.Total), "total %s", got.Total)
	assert.True(t, decimal.RequireFromString("245.50").Equal(got.Billable), "facturable %s", got.Billable)
	assert.True(t, decimal.RequireFromString("52.99").Equal(got.ThisMonth), "febrero %s", got.ThisMonth)
}

func TestList_FiltrosYOrden(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	all, err := uc.List(ctx, memory.DemoUserID, expenses.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "exp_3", all[0].ID, "más reciente primero")

	travel, err := uc.List(ctx, memory.DemoUserID, expenses.ListFilter{Category: "Travel & Transportation"})
	require.NoError(t, err)
	require.Len(t, travel, 1)
	assert.Equal(t, "exp_2", travel[0].ID)

	jan, err := uc.List(ctx, memory.DemoUserID, expenses.ListFilter{From: "2024-01-16", To: "2024-01-31"})
	require.NoError(t, err)
	require.Len(t, jan, 1)
	assert.Equal(t, "exp_2", jan[0].ID)

	_, err = uc.List(ctx, memory.DemoUserID, expenses.ListFilter{From: "2024-02-01", To: "2024-01-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ValidacionYValoresPorDefecto(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, memory.DemoUserID, dto.ExpenseRequest{Category: "Other", Description: "x", Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto cero")

	_, err = uc.Create(ctx, memory.DemoUserID, dto.ExpenseRequest{Description: "x", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin categoría")

	_, err = uc.Create(ctx, memory.DemoUserID, dto.ExpenseRequest{
		Category: "Other", Description: "x", Amount: decimal.NewFromInt(1), ClientID: "client_999",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := uc.Create(ctx, memory.DemoUserID, dto.ExpenseRequest{
		Category: "Other", Description: "Café", Amount: decimal.RequireFromString("4.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "2024-02-10", got.ExpenseDate, "sin fecha usa hoy")
}

func TestUpdateDelete_OtroUsuarioEsNotFound(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	req := dto.ExpenseRequest{Category: "Other", Description: "x", Amount: decimal.NewFromInt(1)}

	_, err := uc.Update(ctx, "user_2", "exp_1", req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, "user_2", "exp_1"), domain.ErrNotFound)

	updated, err := uc.Update(ctx, memory.DemoUserID, "exp_1", req)
	require.NoError(t, err)
	assert.Equal(t, "exp_1", updated.ID)
	require.NoError(t, uc.Delete(ctx, memory.DemoUserID, "exp_1"))
}

func TestCategories(t *testing.T) {
	cats := newUseCase(t).Categories()
	require.NotEmpty(t, cats)
	assert.Equal(t, "Office Supplies", cats[0].Name)
	assert.Equal(t, "Other", cats[len(cats)-1].Name)
}
