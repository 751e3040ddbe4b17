package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
)

// errorMapping traducción de un error de dominio a respuesta HTTP.
type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: un error de persistencia puede envolver además un duplicado.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrOutOfRange, fiber.StatusBadRequest, "OUT_OF_RANGE"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrPersistence, fiber.StatusServiceUnavailable, "PERSISTENCE_FAILURE"},
}

// respondError escribe {code, message} según el error de dominio.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := err.Error()
		switch m.code {
		case "UNAUTHORIZED":
			msg = "credenciales inválidas"
		case "PERSISTENCE_FAILURE":
			log.Error().Err(err).Str("path", c.Path()).Msg("fallo de almacenamiento")
			msg = "no se pudo guardar el cambio; el almacenamiento no está disponible, intente de nuevo"
		}
		return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}
