package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/saeid-a/TheraConsole/internal/payment"
	"github.com/saeid-a/TheraConsole/internal/services"
)

// mapServiceError turns validation problems into inline 400s and relays the
// API's own message for upstream failures, falling back to a generic one.
func mapServiceError(c *fiber.Ctx, err error, fallback string) error {
	var validation *services.ValidationError
	var apiErr *apiclient.APIError

	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validation.Message})
	case errors.Is(err, payment.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.As(err, &apiErr):
		status := fiber.StatusBadGateway
		if apiErr.Status >= fiber.StatusBadRequest && apiErr.Status < fiber.StatusInternalServerError {
			status = apiErr.Status
		}
		return c.Status(status).JSON(fiber.Map{"error": apiclient.ErrorMessage(err, fallback)})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": fallback})
	}
}
