package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/invoice-builder-api/internal/application/analytics"
	"github.com/jhoicas/invoice-builder-api/internal/application/auth"
	"github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/application/expenses"
	"github.com/jhoicas/invoice-builder-api/internal/application/settings"
	"github.com/jhoicas/invoice-builder-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ClientUC    *billing.ClientUseCase
	InvoiceUC   *billing.InvoiceUseCase
	InvoicePDF  *billing.PDFUseCase
	ReminderUC  *settings.ReminderUseCase
	TemplateUC  *settings.TemplateUseCase
	GatewayUC   *settings.GatewayUseCase
	ExpenseUC   *expenses.UseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
	AuthLimit   RateLimit // login y registro, por IP
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth", RateLimitMiddleware(deps.AuthLimit, deps.Log))
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.Get)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/send", invoiceHandler.Send)
	invoices.Post("/:id/pay", invoiceHandler.MarkPaid)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)
	invoices.Post("/:id/payment-link", invoiceHandler.PaymentLink)
	invoices.Get("/:id/reminders", invoiceHandler.Reminders)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	protected.Get("/reminders", invoiceHandler.Upcoming)

	settingsGroup := protected.Group("/settings")
	settingsHandler := NewSettingsHandler(deps.ReminderUC, deps.TemplateUC, deps.GatewayUC)
	settingsGroup.Get("/reminders", settingsHandler.ListReminders)
	settingsGroup.Put("/reminders/:kind", settingsHandler.SaveReminder)
	settingsGroup.Get("/email-templates", settingsHandler.ListTemplates)
	settingsGroup.Put("/email-templates/:type", settingsHandler.SaveTemplate)
	settingsGroup.Delete("/email-templates/:type", settingsHandler.DeleteTemplate)
	settingsGroup.Post("/email-templates/:type/reset", settingsHandler.ResetTemplate)
	settingsGroup.Get("/email-templates/:type/preview", settingsHandler.PreviewTemplate)
	settingsGroup.Get("/payment-gateways", settingsHandler.ListGateways)
	settingsGroup.Put("/payment-gateways/:type", settingsHandler.SaveGateway)

	expensesGroup := protected.Group("/expenses")
	expenseHandler := NewExpenseHandler(deps.ExpenseUC)
	expensesGroup.Get("/", expenseHandler.List)
	expensesGroup.Post("/", expenseHandler.Create)
	expensesGroup.Get("/categories", expenseHandler.Categories)
	expensesGroup.Get("/summary", expenseHandler.Summary)
	expensesGroup.Put("/:id", expenseHandler.Update)
	expensesGroup.Delete("/:id", expenseHandler.Delete)

	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
	dashboard.Get("/financial", dashboardHandler.GetFinancial)
}
