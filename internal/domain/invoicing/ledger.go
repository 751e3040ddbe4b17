package invoicing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ItemField campo editable de una línea.
type ItemField string

const (
	FieldDescription ItemField = "description"
	FieldQuantity    ItemField = "quantity"
	FieldUnitPrice   ItemField = "unit_price"
)

// Ledger secuencia ordenada de líneas de un borrador de factura en memoria.
// Siempre tiene al menos una línea. No es seguro para uso concurrente.
type Ledger struct {
	items []entity.LineItem
}

// NewLedger crea un libro con una línea vacía.
func NewLedger() *Ledger {
	l := &Ledger{}
	l.AddItem()
	return l
}

// AddItem agrega una línea vacía (cantidad 1, precio 0).
func (l *Ledger) AddItem() {
	l.items = append(l.items, entity.LineItem{
		Quantity:  1,
		UnitPrice: decimal.Zero,
		Total:     decimal.Zero,
	})
}

// RemoveItem elimina la línea index. Si es la única línea no hace nada y devuelve false.
func (l *Ledger) RemoveItem(index int) (bool, error) {
	if index < 0 || index >= len(l.items) {
		return false, fmt.Errorf("%w: %d", domain.ErrOutOfRange, index)
	}
	if len(l.items) == 1 {
		return false, nil
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
	return true, nil
}

// UpdateItem cambia un campo de la línea index. Cantidad y precio se normalizan
// (mínimo 1 y 0 respectivamente, también ante texto no numérico) y el total se recalcula.
func (l *Ledger) UpdateItem(index int, field ItemField, value string) error {
	if index < 0 || index >= len(l.items) {
		return fmt.Errorf("%w: %d", domain.ErrOutOfRange, index)
	}
	it := &l.items[index]
	switch field {
	case FieldDescription:
		it.Description = value
		return nil
	case FieldQuantity:
		it.Quantity = parseQuantity(value)
	case FieldUnitPrice:
		it.UnitPrice = parseUnitPrice(value)
	default:
		return fmt.Errorf("%w: campo %q", domain.ErrInvalidInput, field)
	}
	it.Total = LineTotal(it.Quantity, it.UnitPrice)
	return nil
}

// Items devuelve una copia de las líneas con su posición asignada.
func (l *Ledger) Items() []entity.LineItem {
	out := make([]entity.LineItem, len(l.items))
	copy(out, l.items)
	for i := range out {
		out[i].Position = i
	}
	return out
}

// Len número de líneas.
func (l *Ledger) Len() int { return len(l.items) }

// ItemInput valores crudos de una línea tal como llegan del editor.
type ItemInput struct {
	Description string
	Quantity    string
	UnitPrice   string
}

// LedgerFrom construye un libro aplicando a cada línea las mismas normalizaciones
// que UpdateItem. Una lista vacía produce una línea vacía.
func LedgerFrom(inputs []ItemInput) *Ledger {
	l := NewLedger()
	for i, in := range inputs {
		if i > 0 {
			l.AddItem()
		}
		// los índices son siempre válidos: la línea i acaba de agregarse
		_ = l.UpdateItem(i, FieldDescription, in.Description)
		_ = l.UpdateItem(i, FieldQuantity, in.Quantity)
		_ = l.UpdateItem(i, FieldUnitPrice, in.UnitPrice)
	}
	return l
}

func parseQuantity(v string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func parseUnitPrice(v string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
