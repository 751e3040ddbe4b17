package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/application/settings"
)

// SettingsHandler recordatorios, plantillas de correo y pasarelas de pago (protegido).
type SettingsHandler struct {
	reminders *settings.ReminderUseCase
	templates *settings.TemplateUseCase
	gateways  *settings.GatewayUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(reminders *settings.ReminderUseCase, templates *settings.TemplateUseCase, gateways *settings.GatewayUseCase) *SettingsHandler {
	return &SettingsHandler{reminders: reminders, templates: templates, gateways: gateways}
}

// ListReminders GET /api/settings/reminders
func (h *SettingsHandler) ListReminders(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.reminders.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SaveReminder PUT /api/settings/reminders/:kind
func (h *SettingsHandler) SaveReminder(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ReminderSettingRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.reminders.Save(c.UserContext(), userID, c.Params("kind"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListTemplates GET /api/settings/email-templates
func (h *SettingsHandler) ListTemplates(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.templates.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SaveTemplate PUT /api/settings/email-templates/:type
func (h *SettingsHandler) SaveTemplate(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.EmailTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.templates.Save(c.UserContext(), userID, c.Params("type"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ResetTemplate POST /api/settings/email-templates/:type/reset
func (h *SettingsHandler) ResetTemplate(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.templates.ResetToDefault(c.UserContext(), userID, c.Params("type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteTemplate DELETE /api/settings/email-templates/:type
func (h *SettingsHandler) DeleteTemplate(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	if err := h.templates.Delete(c.UserContext(), userID, c.Params("type")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PreviewTemplate GET /api/settings/email-templates/:type/preview
func (h *SettingsHandler) PreviewTemplate(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.templates.Preview(c.UserContext(), userID, c.Params("type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListGateways GET /api/settings/payment-gateways
func (h *SettingsHandler) ListGateways(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.gateways.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SaveGateway PUT /api/settings/payment-gateways/:type
func (h *SettingsHandler) SaveGateway(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.PaymentGatewayRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.gateways.Save(c.UserContext(), userID, c.Params("type"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
