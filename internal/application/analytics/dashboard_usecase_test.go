package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder-api/internal/application/analytics"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/infrastructure/memory"
)

// 10 de febrero de 2024: invoice_3 (vence el 30 de enero) ya está vencida.
var feb10 = time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)

func newDashboard(t *testing.T) *analytics.DashboardUseCase {
	t.Helper()
	s, err := memory.NewSeeded()
	require.NoError(t, err)
	return analytics.NewDashboardUseCase(s.Invoices(), s.Clients(), s.Expenses(), s.ReminderSettings()).
		WithClock(func() time.Time { return feb10 })
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ─── Summary ─────────────────────────────────────────────────────────────────

func TestSummary_DatosDeDemostracion(t *testing.T) {
	got, err := newDashboard(t).Summary(context.Background(), memory.DemoUserID)
	require.NoError(t, err)

	assert.Equal(t, 4, got.TotalInvoices)
	assert.Equal(t, 3, got.TotalClients)
	assert.True(t, dec("2712.5").Equal(got.TotalRevenue), "ingresos %s", got.TotalRevenue)
	assert.True(t, dec("5425").Equal(got.PendingAmount), "pendiente %s", got.PendingAmount)
	assert.Equal(t, 1, got.OverdueCount)
	assert.Equal(t, map[string]int{"draft": 1, "sent": 1, "paid": 1, "overdue": 1}, got.StatusCounts)

	require.Len(t, got.RecentInvoices, 4)
	assert.Equal(t, "INV-2024-004", got.RecentInvoices[0].InvoiceNumber, "más reciente primero")
	assert.Equal(t, "Draft", got.RecentInvoices[0].StatusLabel)
	assert.Equal(t, "John Smith", got.RecentInvoices[0].ClientName)
	assert.Equal(t, "overdue", got.RecentInvoices[3].Status)
	assert.Equal(t, "Overdue", got.RecentInvoices[3].StatusLabel)
}

func TestSummary_UsuarioSinDatos(t *testing.T) {
	got, err := newDashboard(t).Summary(context.Background(), "user_vacio")
	require.NoError(t, err)
	assert.Zero(t, got.TotalInvoices)
	assert.True(t, got.TotalRevenue.IsZero())
	assert.Empty(t, got.RecentInvoices)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Cancelled", analytics.StatusLabel(entity.InvoiceStatusCancelled))
	assert.Equal(t, "Sent", analytics.StatusLabel(entity.InvoiceStatusSent))
}

// ─── Financial ───────────────────────────────────────────────────────────────

func TestFinancial_Totales(t *testing.T) {
	got, err := newDashboard(t).Financial(context.Background(), memory.DemoUserID)
	require.NoError(t, err)

	assert.True(t, dec("2712.5").Equal(got.TotalRevenue))
	assert.True(t, got.MonthlyRevenue.IsZero(), "la pagada se emitió en enero")
	assert.True(t, dec("1598.48").Equal(got.TotalExpenses))
	assert.True(t, dec("52.99").Equal(got.MonthlyExpenses))
	assert.True(t, dec("245.50").Equal(got.BillableExpenses))
	assert.True(t, dec("1114.02").Equal(got.NetProfit), "utilidad %s", got.NetProfit)
	assert.True(t, dec("5425").Equal(got.PendingAmount))
	assert.True(t, dec("1302").Equal(got.OverdueAmount), "vencido %s", got.OverdueAmount)
	assert.Equal(t, "February 2024", got.MonthLabel)
	assert.Len(t, got.RecentExpenses, 3)
}

func TestFinancial_Calendario(t *testing.T) {
	got, err := newDashboard(t).Financial(context.Background(), memory.DemoUserID)
	require.NoError(t, err)

	type ev struct{ date, kind, id string }
	var events []ev
	for _, e := range got.CalendarEvents {
		events = append(events, ev{e.EventDate, e.EventType, e.ID})
	}
	assert.Equal(t, []ev{
		{"2024-01-27", "reminder", "reminder_invoice_3_before_due"},
		{"2024-01-30", "payment_due", "event_invoice_3"},
		{"2024-01-31", "reminder", "reminder_invoice_3_after_due"},
		{"2024-02-27", "reminder", "reminder_invoice_2_before_due"},
		{"2024-03-01", "payment_due", "event_invoice_2"},
		{"2024-03-02", "reminder", "reminder_invoice_2_after_due"},
	}, events)
	assert.Equal(t, "Payment Due: INV-2024-003", got.CalendarEvents[1].Title)
	assert.Equal(t, "Michael Brown - 1302.00 USD", got.CalendarEvents[1].Description)
}
