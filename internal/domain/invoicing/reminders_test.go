package invoicing_test

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoicing"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func setting(kind entity.ReminderKind, days int, active bool) *entity.ReminderSetting {
	return &entity.ReminderSetting{Kind: kind, DaysOffset: days, IsActive: active}
}

func sentInvoice(issue time.Time, due *time.Time) *entity.Invoice {
	return &entity.Invoice{
		ID:            "invoice_2",
		InvoiceNumber: "INV-2024-002",
		Status:        entity.InvoiceStatusSent,
		IssueDate:     issue,
		DueDate:       due,
	}
}

func TestResolveReminders_BeforeDue(t *testing.T) {
	due := date(2024, 2, 15)
	inv := sentInvoice(date(2024, 1, 15), &due)

	events := slices.Collect(invoicing.ResolveReminders(inv, []*entity.ReminderSetting{
		setting(entity.ReminderBeforeDue, 3, true),
	}))
	require.Len(t, events, 1)
	assert.Equal(t, date(2024, 2, 12), events[0].Date)
	assert.Equal(t, entity.ReminderBeforeDue, events[0].Kind)
	assert.Equal(t, "invoice_2", events[0].InvoiceID)
}

func TestResolveReminders_BeforeDueAnteriorALaEmisionSeOmite(t *testing.T) {
	due := date(2024, 2, 15)
	inv := sentInvoice(date(2024, 2, 14), &due)

	events := slices.Collect(invoicing.ResolveReminders(inv, []*entity.ReminderSetting{
		setting(entity.ReminderBeforeDue, 3, true),
	}))
	assert.Empty(t, events, "12-feb es anterior a la emisión del 14-feb")
}

func TestResolveReminders_AfterDue(t *testing.T) {
	due := date(2024, 2, 15)
	inv := sentInvoice(date(2024, 1, 15), &due)

	events := slices.Collect(invoicing.ResolveReminders(inv, []*entity.ReminderSetting{
		setting(entity.ReminderAfterDue, 1, true),
	}))
	require.Len(t, events, 1)
	assert.Equal(t, date(2024, 2, 16), events[0].Date)
}

func TestResolveReminders_SinVencimientoNoHayBeforeNiAfter(t *testing.T) {
	inv := sentInvoice(date(2024, 1, 15), nil)
	events := slices.Collect(invoicing.ResolveReminders(inv, []*entity.ReminderSetting{
		setting(entity.ReminderBeforeDue, 3, true),
		setting(entity.ReminderAfterDue, 1, true),
	}))
	assert.Empty(t, events)
}

func TestResolveReminders_InactivosSeIgnoran(t *testing.T) {
	due := date(2024, 2, 15)
	inv := sentInvoice(date(2024, 1, 15), &due)
	events := slices.Collect(invoicing.ResolveReminders(inv, []*entity.ReminderSetting{
		setting(entity.ReminderBeforeDue, 3, false),
		setting(entity.ReminderAfterDue, 1, false),
	}))
	assert.Empty(t, events)
}

func TestResolveReminders_SoloFacturasEnviadas(t *testing.T) {
	due := date(2024, 2, 15)
	for _, st := range []entity.InvoiceStatus{entity.InvoiceStatusDraft, entity.InvoiceStatusCancelled, entity.InvoiceStatusPaid} {
		inv := sentInvoice(date(2024, 1, 15), &due)
		inv.Status = st
		events := slices.Collect(invoicing.ResolveReminders(inv, []*entity.ReminderSetting{
			setting(entity.ReminderBeforeDue, 3, true),
			setting(entity.ReminderAfterDue, 1, true),
		}))
		assert.Empty(t, events, "estado %s no genera recordatorios de cobro", st)
	}
}

func TestResolveReminders_ThankYouTrasPago(t *testing.T) {
	due := date(2024, 2, 15)
	paidAt := time.Date(2024, 2, 10, 16, 30, 0, 0, time.UTC)
	inv := sentInvoice(date(2024, 1, 15), &due)
	inv.Status = entity.InvoiceStatusPaid
	inv.PaidAt = &paidAt

	events := slices.Collect(invoicing.ResolveReminders(inv, []*entity.ReminderSetting{
		setting(entity.ReminderBeforeDue, 3, true),
		setting(entity.ReminderThankYou, 0, true),
	}))
	require.Len(t, events, 1)
	assert.Equal(t, entity.ReminderThankYou, events[0].Kind)
	assert.Equal(t, date(2024, 2, 10), events[0].Date)

	inv.Status = entity.InvoiceStatusSent
	events = slices.Collect(invoicing.ResolveReminders(inv, []*entity.ReminderSetting{
		setting(entity.ReminderThankYou, 0, true),
	}))
	assert.Empty(t, events, "sin pago no hay agradecimiento")
}

func TestResolveReminders_SecuenciaPerezosaSeDetiene(t *testing.T) {
	due := date(2024, 2, 15)
	inv := sentInvoice(date(2024, 1, 1), &due)
	seq := invoicing.ResolveReminders(inv, []*entity.ReminderSetting{
		setting(entity.ReminderBeforeDue, 3, true),
		setting(entity.ReminderAfterDue, 1, true),
	})

	n := 0
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestRemindersBetween_FiltraPorVentana(t *testing.T) {
	due := date(2024, 2, 15)
	inv := sentInvoice(date(2024, 1, 1), &due)
	seq := invoicing.ResolveReminders(inv, []*entity.ReminderSetting{
		setting(entity.ReminderBeforeDue, 3, true), // 12-feb
		setting(entity.ReminderAfterDue, 5, true),  // 20-feb
	})

	got := invoicing.RemindersBetween(seq, date(2024, 2, 1), time.Date(2024, 2, 12, 18, 0, 0, 0, time.UTC))
	require.Len(t, got, 1)
	assert.Equal(t, entity.ReminderBeforeDue, got[0].Kind)
}
