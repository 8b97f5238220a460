package handlers

import (
	"errors"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/TheraConsole/internal/roles"
	walletws "github.com/saeid-a/TheraConsole/internal/websocket"
	"github.com/saeid-a/TheraConsole/pkg/utils"
)

// WalletSocketHandler streams wallet notifications (balance changes and failed
// payments) to the caller's open consoles.
type WalletSocketHandler struct {
	hub       *walletws.Hub
	jwtSecret string
}

func NewWalletSocketHandler(hub *walletws.Hub, jwtSecret string) *WalletSocketHandler {
	return &WalletSocketHandler{hub: hub, jwtSecret: jwtSecret}
}

func (h *WalletSocketHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}
	role, err := roles.ParseRole(claims.Role)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unsupported role"})
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("role", role)
	return c.Next()
}

func (h *WalletSocketHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	client := walletws.NewClient(h.hub, conn, userID)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}

func (h *WalletSocketHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}
