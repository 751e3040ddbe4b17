package invoicing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoicing"
)

func TestLedger_NuevoTieneUnaLineaVacia(t *testing.T) {
	l := invoicing.NewLedger()
	require.Equal(t, 1, l.Len())

	it := l.Items()[0]
	assert.Equal(t, "", it.Description)
	assert.Equal(t, int64(1), it.Quantity)
	assert.True(t, it.UnitPrice.IsZero())
	assert.True(t, it.Total.IsZero())
}

func TestLedger_AddItemAgregaAlFinal(t *testing.T) {
	l := invoicing.NewLedger()
	require.NoError(t, l.UpdateItem(0, invoicing.FieldDescription, "Diseño"))
	l.AddItem()

	items := l.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Diseño", items[0].Description)
	assert.Equal(t, 1, items[1].Position)
}

func TestLedger_RemoveItemUltimaLineaNoHaceNada(t *testing.T) {
	l := invoicing.NewLedger()
	removed, err := l.RemoveItem(0)
	require.NoError(t, err)
	assert.False(t, removed, "la última línea no se elimina")
	assert.Equal(t, 1, l.Len(), "el libro nunca queda vacío")
}

func TestLedger_RemoveItemConservaOrden(t *testing.T) {
	l := invoicing.LedgerFrom([]invoicing.ItemInput{
		{Description: "a", Quantity: "1", UnitPrice: "1"},
		{Description: "b", Quantity: "1", UnitPrice: "1"},
		{Description: "c", Quantity: "1", UnitPrice: "1"},
	})
	removed, err := l.RemoveItem(1)
	require.NoError(t, err)
	assert.True(t, removed)

	items := l.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Description)
	assert.Equal(t, "c", items[1].Description)
}

func TestLedger_RemoveItemFueraDeRango(t *testing.T) {
	l := invoicing.NewLedger()
	l.AddItem()
	_, err := l.RemoveItem(5)
	assert.ErrorIs(t, err, domain.ErrOutOfRange)
	_, err = l.RemoveItem(-1)
	assert.ErrorIs(t, err, domain.ErrOutOfRange)
	assert.Equal(t, 2, l.Len())
}

func TestLedger_UpdateItemFueraDeRango(t *testing.T) {
	l := invoicing.NewLedger()
	err := l.UpdateItem(1, invoicing.FieldQuantity, "3")
	assert.ErrorIs(t, err, domain.ErrOutOfRange)
}

func TestLedger_UpdateItemRecalculaTotal(t *testing.T) {
	l := invoicing.NewLedger()
	require.NoError(t, l.UpdateItem(0, invoicing.FieldQuantity, "40"))
	require.NoError(t, l.UpdateItem(0, invoicing.FieldUnitPrice, "15"))

	it := l.Items()[0]
	assert.Equal(t, int64(40), it.Quantity)
	assert.True(t, it.Total.Equal(decimal.NewFromInt(600)))
}

func TestLedger_UpdateItemNormalizaEntradasInvalidas(t *testing.T) {
	tests := []struct {
		name      string
		field     invoicing.ItemField
		value     string
		wantQty   int64
		wantPrice string
	}{
		{"cantidad no numérica", invoicing.FieldQuantity, "abc", 1, "10"},
		{"cantidad cero", invoicing.FieldQuantity, "0", 1, "10"},
		{"cantidad negativa", invoicing.FieldQuantity, "-4", 1, "10"},
		{"precio no numérico", invoicing.FieldUnitPrice, "n/a", 2, "0"},
		{"precio negativo", invoicing.FieldUnitPrice, "-5", 2, "0"},
		{"precio con espacios", invoicing.FieldUnitPrice, " 12.5 ", 2, "12.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := invoicing.NewLedger()
			require.NoError(t, l.UpdateItem(0, invoicing.FieldQuantity, "2"))
			require.NoError(t, l.UpdateItem(0, invoicing.FieldUnitPrice, "10"))
			require.NoError(t, l.UpdateItem(0, tt.field, tt.value))

			it := l.Items()[0]
			assert.Equal(t, tt.wantQty, it.Quantity)
			assert.True(t, it.UnitPrice.Equal(decimal.RequireFromString(tt.wantPrice)))
			assert.True(t, it.Total.Equal(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))),
				"el total siempre es cantidad × precio")
		})
	}
}

func TestLedger_UpdateItemCampoDesconocido(t *testing.T) {
	l := invoicing.NewLedger()
	err := l.UpdateItem(0, invoicing.ItemField("total"), "100")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el total no se edita directamente")
}

func TestLedgerFrom_ListaVaciaProduceUnaLinea(t *testing.T) {
	l := invoicing.LedgerFrom(nil)
	assert.Equal(t, 1, l.Len())
}
