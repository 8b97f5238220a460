package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/TheraConsole/internal/roles"
)

// ListViews tells the console which screens to offer the caller.
func ListViews(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	return c.JSON(fiber.Map{
		"role":  who.Role.String(),
		"views": roles.AllowedViews(who.Role),
	})
}
