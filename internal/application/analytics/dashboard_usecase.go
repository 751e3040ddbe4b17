// Package analytics contiene los casos de uso de los tableros: resumen de facturación
// y tablero financiero con calendario.
package analytics

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/application/expenses"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoicing"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

const (
	dashboardRecentInvoices = 5 // filas del widget de facturas recientes
	dashboardRecentExpenses = 5
)

// DashboardUseCase arma los tableros a partir de los repositorios (solo lectura).
type DashboardUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	clientRepo   repository.ClientRepository
	expenseRepo  repository.ExpenseRepository
	reminderRepo repository.ReminderSettingRepository
	now          func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	expenseRepo repository.ExpenseRepository,
	reminderRepo repository.ReminderSettingRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		invoiceRepo:  invoiceRepo,
		clientRepo:   clientRepo,
		expenseRepo:  expenseRepo,
		reminderRepo: reminderRepo,
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// snapshot datos del usuario leídos en paralelo.
type snapshot struct {
	invoices []*entity.Invoice
	clients  map[string]string // id → nombre
	expenses []*entity.Expense
	settings []*entity.ReminderSetting
}

// load lanza las cuatro lecturas en paralelo y espera todas.
func (uc *DashboardUseCase) load(ctx context.Context, userID string) (*snapshot, error) {
	type invoicesResult struct {
		list []*entity.Invoice
		err  error
	}
	type clientsResult struct {
		list []*entity.Client
		err  error
	}
	type expensesResult struct {
		list []*entity.Expense
		err  error
	}
	type settingsResult struct {
		list []*entity.ReminderSetting
		err  error
	}

	invCh := make(chan invoicesResult, 1)
	cliCh := make(chan clientsResult, 1)
	expCh := make(chan expensesResult, 1)
	setCh := make(chan settingsResult, 1)

	go func() {
		list, err := uc.invoiceRepo.ListByUser(ctx, userID)
		invCh <- invoicesResult{list, err}
	}()
	go func() {
		list, err := uc.clientRepo.ListByUser(ctx, userID)
		cliCh <- clientsResult{list, err}
	}()
	go func() {
		list, err := uc.expenseRepo.List(ctx, repository.ExpenseFilter{UserID: userID})
		expCh <- expensesResult{list, err}
	}()
	go func() {
		list, err := uc.reminderRepo.ListByUser(ctx, userID)
		setCh <- settingsResult{list, err}
	}()

	inv, cli, exp, set := <-invCh, <-cliCh, <-expCh, <-setCh

	if inv.err != nil {
		return nil, fmt.Errorf("dashboard: facturas: %w", inv.err)
	}
	if cli.err != nil {
		return nil, fmt.Errorf("dashboard: clientes: %w", cli.err)
	}
	if exp.err != nil {
		return nil, fmt.Errorf("dashboard: gastos: %w", exp.err)
	}
	if set.err != nil {
		return nil, fmt.Errorf("dashboard: recordatorios: %w", set.err)
	}

	names := make(map[string]string, len(cli.list))
	for _, c := range cli.list {
		names[c.ID] = c.Name
	}
	return &snapshot{invoices: inv.list, clients: names, expenses: exp.list, settings: set.list}, nil
}

// Summary tablero principal: conteos, ingresos cobrados, pendiente y facturas recientes.
func (uc *DashboardUseCase) Summary(ctx context.Context, userID string) (*dto.DashboardSummaryDTO, error) {
	snap, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	out := &dto.DashboardSummaryDTO{
		TotalInvoices:  len(snap.invoices),
		TotalClients:   len(snap.clients),
		TotalRevenue:   decimal.Zero,
		PendingAmount:  decimal.Zero,
		StatusCounts:   map[string]int{},
		RecentInvoices: []dto.RecentInvoiceDTO{},
	}
	for _, inv := range snap.invoices {
		status := inv.EffectiveStatus(now)
		out.StatusCounts[string(status)]++
		switch status {
		case entity.InvoiceStatusPaid:
			out.TotalRevenue = out.TotalRevenue.Add(inv.TotalAmount)
		case entity.InvoiceStatusSent:
			out.PendingAmount = out.PendingAmount.Add(inv.TotalAmount)
		case entity.InvoiceStatusOverdue:
			out.OverdueCount++
		}
	}

	// ListByUser ya viene ordenado por created_at desc.
	for _, inv := range snap.invoices[:min(dashboardRecentInvoices, len(snap.invoices))] {
		status := inv.EffectiveStatus(now)
		row := dto.RecentInvoiceDTO{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			ClientName:    snap.clients[inv.ClientID],
			TotalAmount:   inv.TotalAmount,
			Currency:      inv.Currency,
			Status:        string(status),
			StatusLabel:   StatusLabel(status),
		}
		if inv.DueDate != nil {
			row.DueDate = inv.DueDate.Format(time.DateOnly)
		}
		out.RecentInvoices = append(out.RecentInvoices, row)
	}
	return out, nil
}

// Financial tablero financiero: ingresos, gastos, utilidad y calendario de cobros y
// recordatorios.
func (uc *DashboardUseCase) Financial(ctx context.Context, userID string) (*dto.FinancialDashboardDTO, error) {
	snap, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	out := &dto.FinancialDashboardDTO{
		TotalRevenue:   decimal.Zero,
		MonthlyRevenue: decimal.Zero,
		PendingAmount:  decimal.Zero,
		OverdueAmount:  decimal.Zero,
		RecentExpenses: []dto.ExpenseResponse{},
		CalendarEvents: []dto.CalendarEventDTO{},
		MonthLabel:     monthLabel(now),
	}
	for _, inv := range snap.invoices {
		switch inv.EffectiveStatus(now) {
		case entity.InvoiceStatusPaid:
			out.TotalRevenue = out.TotalRevenue.Add(inv.TotalAmount)
			if sameMonth(inv.IssueDate, now) {
				out.MonthlyRevenue = out.MonthlyRevenue.Add(inv.TotalAmount)
			}
		case entity.InvoiceStatusSent:
			out.PendingAmount = out.PendingAmount.Add(inv.TotalAmount)
		case entity.InvoiceStatusOverdue:
			out.OverdueAmount = out.OverdueAmount.Add(inv.TotalAmount)
		}
	}

	sums := expenses.Totals(snap.expenses, now)
	out.TotalExpenses = sums.Total
	out.MonthlyExpenses = sums.ThisMonth
	out.BillableExpenses = sums.Billable
	out.NetProfit = out.TotalRevenue.Sub(out.TotalExpenses)
	for _, e := range snap.expenses[:min(dashboardRecentExpenses, len(snap.expenses))] {
		out.RecentExpenses = append(out.RecentExpenses, expenses.ToExpenseResponse(e))
	}

	out.CalendarEvents = calendarEvents(snap)
	return out, nil
}

// StatusLabel etiqueta para mostrar. Ej: overdue → "Overdue".
// Un Caser guarda estado: se crea uno por llamada.
func StatusLabel(s entity.InvoiceStatus) string {
	return cases.Title(language.English).String(string(s))
}

// calendarEvents vencimientos de facturas enviadas más los recordatorios resueltos con la
// configuración del usuario, ordenados por fecha.
func calendarEvents(snap *snapshot) []dto.CalendarEventDTO {
	events := []dto.CalendarEventDTO{}
	for _, inv := range snap.invoices {
		client := snap.clients[inv.ClientID]
		if client == "" {
			client = "Unknown Client"
		}
		if inv.Status == entity.InvoiceStatusSent && inv.DueDate != nil {
			events = append(events, dto.CalendarEventDTO{
				ID:          "event_" + inv.ID,
				Title:       "Payment Due: " + inv.InvoiceNumber,
				Description: fmt.Sprintf("%s - %s %s", client, inv.TotalAmount.StringFixed(2), inv.Currency),
				EventType:   "payment_due",
				EventDate:   inv.DueDate.Format(time.DateOnly),
				RelatedID:   inv.ID,
				RelatedType: "invoice",
			})
		}
		for ev := range invoicing.ResolveReminders(inv, snap.settings) {
			events = append(events, dto.CalendarEventDTO{
				ID:          fmt.Sprintf("reminder_%s_%s", inv.ID, ev.Kind),
				Title:       "Send Reminder: " + inv.InvoiceNumber,
				Description: fmt.Sprintf("%s reminder for %s", ev.Kind, client),
				EventType:   "reminder",
				EventDate:   ev.Date.Format(time.DateOnly),
				RelatedID:   inv.ID,
				RelatedType: "invoice",
			})
		}
	}
	slices.SortStableFunc(events, func(a, b dto.CalendarEventDTO) int {
		return cmp.Compare(a.EventDate, b.EventDate)
	})
	return events
}

// monthLabel etiqueta legible del mes, ej: "February 2024".
func monthLabel(t time.Time) string {
	return t.Format("January 2006")
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
