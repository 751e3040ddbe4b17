package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ClientRequest body para POST/PUT /api/clients.
type ClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	TaxID     string    `json:"tax_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceRequest body para POST /api/invoices y PUT /api/invoices/:id.
// Fechas en formato YYYY-MM-DD. Si invoice_number va vacío se genera INV-<año>-<NNN>.
type InvoiceRequest struct {
	ClientID       string               `json:"client_id"`
	InvoiceNumber  string               `json:"invoice_number,omitempty"`
	Title          string               `json:"title,omitempty"`
	Description    string               `json:"description,omitempty"`
	Currency       string               `json:"currency,omitempty"`
	TaxRate        decimal.Decimal      `json:"tax_rate"`
	IssueDate      string               `json:"issue_date"`
	DueDate        string               `json:"due_date,omitempty"`
	PaymentGateway string               `json:"payment_gateway,omitempty"`
	Notes          string               `json:"notes,omitempty"`
	Terms          string               `json:"terms,omitempty"`
	CustomFields   []CustomFieldDTO     `json:"custom_fields,omitempty"`
	Items          []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest línea de factura. Cantidad y precio llegan crudos y los normaliza el
// libro de líneas: cantidad < 1 o no numérica pasa a 1, precio < 0 o no numérico a 0.
type InvoiceItemRequest struct {
	Description string    `json:"description"`
	Quantity    LooseText `json:"quantity"`
	UnitPrice   LooseText `json:"unit_price"`
}

// LooseText acepta un número o un string JSON y conserva el texto tal cual.
// null queda vacío; cualquier otro valor se guarda como su JSON literal.
type LooseText string

// UnmarshalJSON nunca falla: el valor se valida al normalizar la línea.
func (v *LooseText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = LooseText(s)
		return nil
	}
	raw := bytes.TrimSpace(b)
	if bytes.Equal(raw, []byte("null")) {
		*v = ""
		return nil
	}
	*v = LooseText(raw)
	return nil
}

// CustomFieldDTO campo libre de la factura.
type CustomFieldDTO struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Type     string `json:"type,omitempty"`     // text | number | date | select
	Position string `json:"position,omitempty"` // header | items | footer
}

// InvoiceResponse factura para GET /api/invoices/:id. Status es el estado efectivo
// (overdue derivado); Items solo se incluye en el detalle.
type InvoiceResponse struct {
	ID             string                `json:"id"`
	ClientID       string                `json:"client_id"`
	ClientName     string                `json:"client_name,omitempty"`
	InvoiceNumber  string                `json:"invoice_number"`
	Title          string                `json:"title,omitempty"`
	Description    string                `json:"description,omitempty"`
	Currency       string                `json:"currency"`
	TaxRate        decimal.Decimal       `json:"tax_rate"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	Status         string                `json:"status"`
	DaysOverdue    int                   `json:"days_overdue,omitempty"`
	IssueDate      string                `json:"issue_date"`
	DueDate        string                `json:"due_date,omitempty"`
	PaymentGateway string                `json:"payment_gateway,omitempty"`
	PaymentLink    string                `json:"payment_link,omitempty"`
	Notes          string                `json:"notes,omitempty"`
	Terms          string                `json:"terms,omitempty"`
	CustomFields   []CustomFieldDTO      `json:"custom_fields,omitempty"`
	SentAt         *time.Time            `json:"sent_at,omitempty"`
	PaidAt         *time.Time            `json:"paid_at,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Items          []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceItemResponse línea en la respuesta.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceListResponse página de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ReminderEventResponse fecha calculada de un recordatorio.
type ReminderEventResponse struct {
	InvoiceID       string `json:"invoice_id"`
	InvoiceNumber   string `json:"invoice_number"`
	Kind            string `json:"kind"`
	Date            string `json:"date"`
	DaysOffset      int    `json:"days_offset"`
	EmailTemplateID string `json:"email_template_id,omitempty"`
}

// PaymentLinkResponse enlace de pago generado para la factura.
type PaymentLinkResponse struct {
	InvoiceID   string `json:"invoice_id"`
	Gateway     string `json:"gateway"`
	PaymentLink string `json:"payment_link"`
}
