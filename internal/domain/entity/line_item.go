package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem representa una línea de una factura. Total = Quantity * UnitPrice, siempre recalculado.
type LineItem struct {
	ID          string
	InvoiceID   string
	Position    int // orden dentro de la factura
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	CreatedAt   time.Time
}
