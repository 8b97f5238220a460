package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/saeid-a/TheraConsole/internal/roles"
	"github.com/saeid-a/TheraConsole/internal/services"
	"github.com/shopspring/decimal"
)

type profileApplicationService interface {
	GetProfile(ctx context.Context, client services.ProfileGateway) (*apiclient.Profile, error)
	UpdateProfile(ctx context.Context, client services.ProfileGateway, role roles.Role, update apiclient.ProfileUpdate) (*apiclient.Profile, error)
	GetReview(ctx context.Context, client services.ProfileGateway, reviewID string) (*apiclient.ProfileReview, error)
	UpdateReview(ctx context.Context, client services.ProfileGateway, reviewID string, update apiclient.ProfileReviewUpdate) (*apiclient.ProfileReview, error)
}

type ProfileHandler struct {
	service   profileApplicationService
	newClient ClientFactory
}

type updateProfileRequest struct {
	Name        *string          `json:"name"`
	Phone       *string          `json:"phone"`
	Bio         *string          `json:"bio"`
	Languages   *[]string        `json:"languages"`
	SessionRate *decimal.Decimal `json:"session_rate"`
}

type updateReviewRequest struct {
	Reply  *string `json:"reply"`
	Hidden *bool   `json:"hidden"`
}

func NewProfileHandler(service profileApplicationService, newClient ClientFactory) *ProfileHandler {
	return &ProfileHandler{service: service, newClient: newClient}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	profile, err := h.service.GetProfile(c.Context(), h.newClient(who.Token))
	if err != nil {
		return mapServiceError(c, err, "Failed to load profile")
	}
	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	profile, err := h.service.UpdateProfile(c.Context(), h.newClient(who.Token), who.Role, apiclient.ProfileUpdate{
		Name:        req.Name,
		Phone:       req.Phone,
		Bio:         req.Bio,
		Languages:   req.Languages,
		SessionRate: req.SessionRate,
	})
	if err != nil {
		return mapServiceError(c, err, "Failed to update profile")
	}
	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) GetReview(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	review, err := h.service.GetReview(c.Context(), h.newClient(who.Token), c.Params("id"))
	if err != nil {
		return mapServiceError(c, err, "Failed to load review")
	}
	return c.JSON(fiber.Map{"review": review})
}

func (h *ProfileHandler) UpdateReview(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	var req updateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	review, err := h.service.UpdateReview(c.Context(), h.newClient(who.Token), c.Params("id"), apiclient.ProfileReviewUpdate{
		Reply:  req.Reply,
		Hidden: req.Hidden,
	})
	if err != nil {
		return mapServiceError(c, err, "Failed to update review")
	}
	return c.JSON(fiber.Map{"review": review})
}
