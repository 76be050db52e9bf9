package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/domain"
)

// respondError traduce los errores de dominio a códigos HTTP. Cada familia de
// error tiene un status fijo; lo no reconocido cae en 500.
func respondError(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	var authErr *domain.AuthorizationError
	var upErr *domain.UploadError
	var perErr *domain.PersistError
	var storeErr *domain.StoreUnavailableError

	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: vErr.Error()})
	case errors.As(err, &authErr), errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	case errors.Is(err, domain.ErrLockHeld):
		return c.Status(fiber.StatusLocked).JSON(dto.ErrorResponse{Code: "LOCK_HELD", Message: err.Error()})
	case errors.As(err, &upErr):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPLOAD_FAILED", Message: upErr.Error()})
	case errors.As(err, &perErr):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "PERSIST_FAILED", Message: perErr.Error()})
	case errors.As(err, &storeErr):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "record store no disponible"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
