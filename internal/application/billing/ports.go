package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

// InvoiceTxRunner ejecuta fn dentro de una transacción: cabecera y líneas se escriben juntas.
type InvoiceTxRunner interface {
	RunInvoice(ctx context.Context, fn func(invoices repository.InvoiceRepository) error) error
}

// InvoicePDFData todo lo necesario para dibujar una factura.
type InvoicePDFData struct {
	Invoice     *entity.Invoice
	Items       []*entity.LineItem
	Client      *entity.Client
	CompanyName string
	Status      entity.InvoiceStatus // estado efectivo al momento de generar
}

// InvoicePDFGenerator puerto de salida para la representación gráfica de la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, data InvoicePDFData) ([]byte, error)
}

// PaymentLinkRequest datos para crear un enlace de pago en la pasarela.
type PaymentLinkRequest struct {
	InvoiceID     string
	InvoiceNumber string
	Title         string
	Currency      string
	Amount        decimal.Decimal
	Config        map[string]string // configuración guardada de la pasarela del usuario
}

// PaymentLinkProvider crea un enlace de pago alojado por la pasarela.
type PaymentLinkProvider interface {
	CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (string, error)
}
