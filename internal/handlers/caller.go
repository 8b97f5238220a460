package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/saeid-a/TheraConsole/internal/roles"
)

var errNoCaller = errors.New("request has no authenticated caller")

// ClientFactory builds the API capability for one caller's token.
type ClientFactory func(token string) *apiclient.Client

type caller struct {
	UserID string
	Role   roles.Role
	Token  string
}

func callerFrom(c *fiber.Ctx) (caller, error) {
	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(roles.Role)
	token, _ := c.Locals("token").(string)
	if strings.TrimSpace(userID) == "" || role == 0 || token == "" {
		return caller{}, errNoCaller
	}
	return caller{UserID: userID, Role: role, Token: token}, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
}

func wantsJSON(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}
