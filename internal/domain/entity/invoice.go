package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de una factura. Solo draft, sent, paid y cancelled se persisten;
// overdue se deriva al leer (ver EffectiveStatus).
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// ParseInvoiceStatus convierte el valor almacenado en un estado persistible.
// Un "overdue" heredado se lee como sent: el vencimiento siempre se calcula.
func ParseInvoiceStatus(s string) (InvoiceStatus, bool) {
	switch InvoiceStatus(s) {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusCancelled:
		return InvoiceStatus(s), true
	case InvoiceStatusOverdue:
		return InvoiceStatusSent, true
	default:
		return "", false
	}
}

// IsTerminal indica si el estado no admite más transiciones.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// Valid indica si s es un estado conocido (incluido el derivado overdue).
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// CustomField campo adicional libre de la factura (cabecera, ítems o pie).
type CustomField struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Type     string `json:"type"`     // text | number | date | select
	Position string `json:"position"` // header | items | footer
}

// Invoice representa la cabecera de una factura.
type Invoice struct {
	ID             string
	UserID         string
	ClientID       string
	InvoiceNumber  string
	Title          string
	Description    string
	Currency       string
	TaxRate        decimal.Decimal // porcentaje 0–100
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	Status         InvoiceStatus
	IssueDate      time.Time
	DueDate        *time.Time
	PaymentGateway string
	PaymentLink    string
	Notes          string
	Terms          string
	CustomFields   []CustomField
	SentAt         *time.Time
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOverdue es el único predicado de vencimiento: una factura enviada cuya fecha de
// vencimiento ya pasó (el mismo día de vencimiento todavía no cuenta).
func (inv *Invoice) IsOverdue(now time.Time) bool {
	if inv.Status != InvoiceStatusSent || inv.DueDate == nil {
		return false
	}
	return DateOf(*inv.DueDate).Before(DateOf(now))
}

// EffectiveStatus devuelve el estado para mostrar y filtrar, con overdue derivado.
func (inv *Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if inv.IsOverdue(now) {
		return InvoiceStatusOverdue
	}
	return inv.Status
}

// DaysOverdue días transcurridos desde el vencimiento (0 si no está vencida).
func (inv *Invoice) DaysOverdue(now time.Time) int {
	if !inv.IsOverdue(now) {
		return 0
	}
	return int(DateOf(now).Sub(DateOf(*inv.DueDate)).Hours() / 24)
}

// DateOf trunca t a la fecha calendario (UTC, 00:00).
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
