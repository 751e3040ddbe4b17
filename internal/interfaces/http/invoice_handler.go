package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
)

// upcomingWindowDays ventana por defecto de GET /api/reminders.
const upcomingWindowDays = 30

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	uc    *billing.InvoiceUseCase
	pdfUC *billing.PDFUseCase
	now   func() time.Time
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdfUC *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdfUC: pdfUC, now: time.Now}
}

// Create crea una factura en borrador.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/invoices?status=&limit=&offset=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.UserContext(), userID, c.Query("status"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID detalle con líneas.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update solo en borrador.
// PUT /api/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), userID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.UserContext(), userID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Send POST /api/invoices/:id/send
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Send)
}

// MarkPaid POST /api/invoices/:id/pay
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	return h.transition(c, h.uc.MarkPaid)
}

// Cancel POST /api/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Cancel)
}

type transitionFunc func(ctx context.Context, userID, id string) (*dto.InvoiceResponse, error)

func (h *InvoiceHandler) transition(c *fiber.Ctx, apply transitionFunc) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := apply(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PaymentLink genera el enlace de pago con la pasarela de la factura.
// POST /api/invoices/:id/payment-link
func (h *InvoiceHandler) PaymentLink(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.CreatePaymentLink(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reminders fechas de recordatorio de la factura.
// GET /api/invoices/:id/reminders
func (h *InvoiceHandler) Reminders(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Reminders(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Upcoming recordatorios de todas las facturas en [from, to] (por defecto hoy + 30 días).
// GET /api/reminders?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *InvoiceHandler) Upcoming(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	today := h.now()
	from, err := queryDate(c, "from", today)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	to, err := queryDate(c, "to", from.AddDate(0, 0, upcomingWindowDays))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.UpcomingReminders(c.UserContext(), userID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PDF descarga la representación gráfica.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	data, filename, err := h.pdfUC.DownloadInvoicePDF(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}

func queryDate(c *fiber.Ctx, key string, def time.Time) (time.Time, error) {
	s := c.Query(key)
	if s == "" {
		return def, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s debe tener formato YYYY-MM-DD", key)
	}
	return t, nil
}
