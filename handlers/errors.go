// handlers/errors.go
package handlers

import (
	"errors"

	"codex/models"

	"github.com/gofiber/fiber/v2"
)

// respondError owns the translation of core failure kinds into HTTP
// responses. The stores themselves never see a status code.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredential):
		status = fiber.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrDuplicateAccount):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrInvalidFormat):
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
