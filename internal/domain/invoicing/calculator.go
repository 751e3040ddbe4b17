// Package invoicing contiene las reglas de dominio de la factura: libro de líneas,
// cálculo de totales, ciclo de vida del estado y resolución de recordatorios.
package invoicing

import (
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Subtotal = Σ item.Total. Lista vacía → 0.
func Subtotal(items []entity.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Total)
	}
	return sum
}

// TaxAmount = Subtotal * taxRate / 100, sin redondeo intermedio.
func TaxAmount(items []entity.LineItem, taxRate decimal.Decimal) decimal.Decimal {
	if taxRate.IsZero() {
		return decimal.Zero
	}
	return Subtotal(items).Mul(taxRate).Div(hundred)
}

// Total = Subtotal + TaxAmount.
func Total(items []entity.LineItem, taxRate decimal.Decimal) decimal.Decimal {
	return Subtotal(items).Add(TaxAmount(items, taxRate))
}

// Totals calcula los tres montos de una vez y los asigna a la factura.
// La precisión completa se conserva; el redondeo a 2 decimales es solo de presentación.
func Totals(inv *entity.Invoice, items []entity.LineItem) {
	inv.Subtotal = Subtotal(items)
	inv.TaxAmount = TaxAmount(items, inv.TaxRate)
	inv.TotalAmount = inv.Subtotal.Add(inv.TaxAmount)
}

// ValidTaxRate indica si la tasa está en [0, 100].
func ValidTaxRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(hundred)
}

// LineTotal = quantity * unitPrice.
func LineTotal(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}
