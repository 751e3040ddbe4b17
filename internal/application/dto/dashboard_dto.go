package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalInvoices  int                `json:"total_invoices"`
	TotalClients   int                `json:"total_clients"`
	TotalRevenue   decimal.Decimal    `json:"total_revenue"`  // facturas pagadas
	PendingAmount  decimal.Decimal    `json:"pending_amount"` // enviadas, aún no vencidas
	OverdueCount   int                `json:"overdue_count"`
	StatusCounts   map[string]int     `json:"status_counts"` // por estado efectivo
	RecentInvoices []RecentInvoiceDTO `json:"recent_invoices"`
}

// RecentInvoiceDTO fila del widget de facturas recientes.
type RecentInvoiceDTO struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientName    string          `json:"client_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	StatusLabel   string          `json:"status_label"`
	DueDate       string          `json:"due_date,omitempty"`
}

// FinancialDashboardDTO respuesta de GET /api/dashboard/financial.
type FinancialDashboardDTO struct {
	TotalRevenue     decimal.Decimal    `json:"total_revenue"`
	MonthlyRevenue   decimal.Decimal    `json:"monthly_revenue"`
	TotalExpenses    decimal.Decimal    `json:"total_expenses"`
	MonthlyExpenses  decimal.Decimal    `json:"monthly_expenses"`
	NetProfit        decimal.Decimal    `json:"net_profit"`
	PendingAmount    decimal.Decimal    `json:"pending_amount"`
	OverdueAmount    decimal.Decimal    `json:"overdue_amount"`
	BillableExpenses decimal.Decimal    `json:"billable_expenses"`
	RecentExpenses   []ExpenseResponse  `json:"recent_expenses"`
	CalendarEvents   []CalendarEventDTO `json:"calendar_events"`
	MonthLabel       string             `json:"month_label"`
}

// CalendarEventDTO evento del calendario financiero (payment_due | reminder).
type CalendarEventDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EventType   string `json:"event_type"`
	EventDate   string `json:"event_date"`
	RelatedID   string `json:"related_id"`
	RelatedType string `json:"related_type"`
}
