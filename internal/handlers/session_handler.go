package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/saeid-a/TheraConsole/internal/roles"
	"github.com/saeid-a/TheraConsole/internal/services"
)

type sessionApplicationService interface {
	ListSessions(ctx context.Context, client services.SessionGateway, filter services.SessionListFilter) ([]apiclient.Session, error)
	Respond(ctx context.Context, client services.SessionGateway, role roles.Role, sessionID, action string) (*apiclient.Session, error)
	Review(ctx context.Context, client services.SessionGateway, role roles.Role, sessionID string, review apiclient.Review) error
}

type SessionHandler struct {
	service   sessionApplicationService
	newClient ClientFactory
}

type reviewSessionRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func NewSessionHandler(service sessionApplicationService, newClient ClientFactory) *SessionHandler {
	return &SessionHandler{service: service, newClient: newClient}
}

func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	sessions, err := h.service.ListSessions(c.Context(), h.newClient(who.Token), services.SessionListFilter{
		Status:    c.Query("status"),
		Timeframe: strings.ToLower(c.Query("timeframe")),
	})
	if err != nil {
		return mapServiceError(c, err, "Failed to load sessions")
	}

	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *SessionHandler) AcceptSession(c *fiber.Ctx) error {
	return h.respond(c, "accept")
}

func (h *SessionHandler) RejectSession(c *fiber.Ctx) error {
	return h.respond(c, "reject")
}

func (h *SessionHandler) respond(c *fiber.Ctx, action string) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	session, err := h.service.Respond(c.Context(), h.newClient(who.Token), who.Role, c.Params("id"), action)
	if err != nil {
		return mapServiceError(c, err, "Failed to update session")
	}

	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) ReviewSession(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	var req reviewSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	review := apiclient.Review{Rating: req.Rating, Comment: req.Comment}
	if err := h.service.Review(c.Context(), h.newClient(who.Token), who.Role, c.Params("id"), review); err != nil {
		return mapServiceError(c, err, "Failed to submit review")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Review submitted"})
}
