package repository

import (
	"context"

	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
// GetByID y GetByUserAndNumber devuelven (nil, nil) cuando no existe.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update reescribe la factura solo si su estado guardado sigue siendo expected.
	// ErrNotFound si no existe; ErrConflict si otro cambio de estado se adelantó.
	Update(ctx context.Context, invoice *entity.Invoice, expected entity.InvoiceStatus) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByUserAndNumber(ctx context.Context, userID, number string) (*entity.Invoice, error)
	// ListByUser devuelve las facturas del usuario ordenadas por created_at desc.
	ListByUser(ctx context.Context, userID string) ([]*entity.Invoice, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	// Delete elimina la factura y sus líneas. ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error

	CreateItem(ctx context.Context, item *entity.LineItem) error
	DeleteItemsByInvoiceID(ctx context.Context, invoiceID string) error
	GetItemsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.LineItem, error)
}
