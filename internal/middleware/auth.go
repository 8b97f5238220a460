package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/TheraConsole/internal/roles"
	"github.com/saeid-a/TheraConsole/pkg/utils"
)

// TokenCookie carries the bearer token on the gateway's redirect back to the
// console, a full-page navigation where no header can be set.
const TokenCookie = "access_token"

// AuthRequired accepts only the Authorization header.
func AuthRequired(secret string) fiber.Handler {
	return authRequired(secret, false)
}

// AuthRequiredWithCookie also accepts TokenCookie. Mount it on the GET routes
// the payment gateway returns to and nowhere else.
func AuthRequiredWithCookie(secret string) fiber.Handler {
	return authRequired(secret, true)
}

func authRequired(secret string, allowCookie bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, message := bearerToken(c, allowCookie)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": message,
			})
		}

		claims, err := utils.ValidateToken(tokenString, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		role, err := roles.ParseRole(claims.Role)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Unsupported role",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("role", role)
		c.Locals("token", tokenString)

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx, allowCookie bool) (string, string) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		if !allowCookie {
			return "", "Missing authorization header"
		}
		if cookie := strings.TrimSpace(c.Cookies(TokenCookie)); cookie != "" && c.Method() == fiber.MethodGet {
			return cookie, ""
		}
		return "", "Missing authorization header"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "Invalid authorization header format"
	}
	return parts[1], ""
}

// RequireView lets the request through if the caller's role may open any of
// the given views.
func RequireView(views ...roles.View) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(roles.Role)
		if ok {
			for _, view := range views {
				if roles.Can(role, view) {
					return c.Next()
				}
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}
}
