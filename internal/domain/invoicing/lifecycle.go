package invoicing

import (
	"fmt"
	"time"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
)

// NewDraft inicializa el estado de una factura nueva: siempre draft.
func NewDraft(inv *entity.Invoice, now time.Time) {
	inv.Status = entity.InvoiceStatusDraft
	inv.SentAt = nil
	inv.PaidAt = nil
	inv.CreatedAt = now
	inv.UpdatedAt = now
}

// Send draft → sent.
func Send(inv *entity.Invoice, now time.Time) error {
	if inv.Status != entity.InvoiceStatusDraft {
		return transitionError(inv.Status, entity.InvoiceStatusSent)
	}
	inv.Status = entity.InvoiceStatusSent
	inv.SentAt = &now
	inv.UpdatedAt = now
	return nil
}

// MarkPaid sent (incluida la vencida derivada) → paid.
func MarkPaid(inv *entity.Invoice, now time.Time) error {
	if inv.Status != entity.InvoiceStatusSent {
		return transitionError(inv.Status, entity.InvoiceStatusPaid)
	}
	inv.Status = entity.InvoiceStatusPaid
	inv.PaidAt = &now
	inv.UpdatedAt = now
	return nil
}

// Cancel draft | sent → cancelled.
func Cancel(inv *entity.Invoice, now time.Time) error {
	if inv.Status != entity.InvoiceStatusDraft && inv.Status != entity.InvoiceStatusSent {
		return transitionError(inv.Status, entity.InvoiceStatusCancelled)
	}
	inv.Status = entity.InvoiceStatusCancelled
	inv.UpdatedAt = now
	return nil
}

func transitionError(from, to entity.InvoiceStatus) error {
	return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, from, to)
}
