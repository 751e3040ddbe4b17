package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/application/expenses"
)

// ExpenseHandler gastos del usuario (protegido).
type ExpenseHandler struct {
	uc *expenses.UseCase
}

// NewExpenseHandler construye el handler.
func NewExpenseHandler(uc *expenses.UseCase) *ExpenseHandler {
	return &ExpenseHandler{uc: uc}
}

// List GET /api/expenses?category=&from=&to=
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.List(c.UserContext(), userID, expenses.ListFilter{
		Category: c.Query("category"),
		From:     c.Query("from"),
		To:       c.Query("to"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create POST /api/expenses
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/expenses/:id
func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), userID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/expenses/:id
func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.UserContext(), userID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Categories GET /api/expenses/categories
func (h *ExpenseHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(h.uc.Categories())
}

// Summary GET /api/expenses/summary
func (h *ExpenseHandler) Summary(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Summary(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
