package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/invoice-builder-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints de los tableros.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary conteos, ingresos cobrados, pendiente y facturas recientes.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (total_invoices, total_clients, total_revenue,
// pending_amount, overdue_count, status_counts, recent_invoices[5]).
// El estado vencido se calcula en el servidor con la fecha del día.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	summary, err := h.uc.Summary(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GetFinancial ingresos, gastos, utilidad y calendario.
// GET /api/dashboard/financial
func (h *DashboardHandler) GetFinancial(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Financial(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
