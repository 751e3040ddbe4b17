package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
	"github.com/jhoicas/invoice-builder-api/internal/infrastructure/memory"
)

func seeded(t *testing.T) *memory.Store {
	t.Helper()
	s, err := memory.NewSeeded()
	require.NoError(t, err)
	return s
}

func getInvoice(t *testing.T, s *memory.Store, id string) *entity.Invoice {
	t.Helper()
	inv, err := s.Invoices().GetByID(context.Background(), id)
	require.NoError(t, err)
	return inv
}

func itemCount(t *testing.T, s *memory.Store, id string) int {
	t.Helper()
	items, err := s.Invoices().GetItemsByInvoiceID(context.Background(), id)
	require.NoError(t, err)
	return len(items)
}

// ──────────────────────────────────────────────────────────────────────────────
// RunInvoice
// ──────────────────────────────────────────────────────────────────────────────

func TestRunInvoice_ErrorRevierteSoloLoTocado(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	boom := errors.New("fallo")

	err := s.RunInvoice(ctx, func(repo repository.InvoiceRepository) error {
		draft := getInvoice(t, s, "invoice_4")
		draft.Title = "Cambiado en la transacción"
		require.NoError(t, repo.Update(ctx, draft, entity.InvoiceStatusDraft))
		require.NoError(t, repo.DeleteItemsByInvoiceID(ctx, "invoice_4"))
		require.NoError(t, repo.Create(ctx, &entity.Invoice{
			ID: "tx_new", UserID: memory.DemoUserID, InvoiceNumber: "INV-TX-1", Status: entity.InvoiceStatusDraft,
		}))

		// escritura fuera de la transacción mientras fn corre
		other := getInvoice(t, s, "invoice_2")
		other.Title = "Cambiado fuera"
		require.NoError(t, s.Invoices().Update(ctx, other, entity.InvoiceStatusSent))
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, "SEO Optimization Services", getInvoice(t, s, "invoice_4").Title, "la cabecera vuelve a su estado previo")
	assert.Equal(t, 2, itemCount(t, s, "invoice_4"), "las líneas borradas se restauran")
	assert.Nil(t, getInvoice(t, s, "tx_new"), "la factura creada en la transacción desaparece")
	assert.Equal(t, "Cambiado fuera", getInvoice(t, s, "invoice_2").Title, "la escritura ajena no se pierde")
}

func TestRunInvoice_ContextoCanceladoNoConfirma(t *testing.T) {
	s := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := s.RunInvoice(ctx, func(repo repository.InvoiceRepository) error {
		inv := &entity.Invoice{ID: "tx_cancel", UserID: memory.DemoUserID, InvoiceNumber: "INV-TX-2", Status: entity.InvoiceStatusDraft}
		require.NoError(t, repo.Create(ctx, inv))
		require.NoError(t, repo.CreateItem(ctx, &entity.LineItem{InvoiceID: inv.ID, Description: "x", Quantity: 1}))
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, getInvoice(t, s, "tx_cancel"), "con el contexto cancelado nada queda guardado")
	assert.Equal(t, 0, itemCount(t, s, "tx_cancel"))
}

func TestRunInvoice_ExitoConfirma(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	err := s.RunInvoice(ctx, func(repo repository.InvoiceRepository) error {
		return repo.Create(ctx, &entity.Invoice{ID: "tx_ok", UserID: memory.DemoUserID, InvoiceNumber: "INV-TX-3", Status: entity.InvoiceStatusDraft})
	})
	require.NoError(t, err)
	assert.NotNil(t, getInvoice(t, s, "tx_ok"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Update condicional
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceUpdate_EstadoDistintoEsConflicto(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	inv := getInvoice(t, s, "invoice_1")
	inv.Status = entity.InvoiceStatusCancelled

	err := s.Invoices().Update(ctx, inv, entity.InvoiceStatusSent)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.InvoiceStatusPaid, getInvoice(t, s, "invoice_1").Status, "una factura pagada no cambia")

	err = s.Invoices().Update(ctx, &entity.Invoice{ID: "nope"}, entity.InvoiceStatusDraft)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
