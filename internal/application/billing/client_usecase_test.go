package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
)

func TestClient_CrearYListar(t *testing.T) {
	s := seeded(t)
	uc := billing.NewClientUseCase(s.Clients())
	ctx := context.Background()

	out, err := uc.Create(ctx, user, dto.ClientRequest{Name: " Ana Pérez ", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", out.Name, "el nombre se recorta")

	list, err := uc.List(ctx, user)
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func TestClient_Validaciones(t *testing.T) {
	uc := billing.NewClientUseCase(seeded(t).Clients())
	ctx := context.Background()

	_, err := uc.Create(ctx, user, dto.ClientRequest{Email: "x@example.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "nombre obligatorio")
	_, err = uc.Create(ctx, user, dto.ClientRequest{Name: "X", Email: "no-es-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_AjenoNoVisible(t *testing.T) {
	uc := billing.NewClientUseCase(seeded(t).Clients())
	_, err := uc.Get(context.Background(), "user_2", "client_1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Update(context.Background(), "user_2", "client_1", dto.ClientRequest{Name: "X", Email: "x@example.com"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
