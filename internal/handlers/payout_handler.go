package handlers

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/saeid-a/TheraConsole/internal/services"
	"github.com/shopspring/decimal"
)

type payoutApplicationService interface {
	ListMethods(ctx context.Context, client services.PayoutGateway) ([]apiclient.PayoutMethod, error)
	AddMethod(ctx context.Context, client services.PayoutGateway, method apiclient.PayoutMethod) (*apiclient.PayoutMethod, error)
	DeleteMethod(ctx context.Context, client services.PayoutGateway, methodID string) error
	RequestWithdrawal(ctx context.Context, client services.PayoutGateway, amount decimal.Decimal, payoutMethodID string) (*apiclient.WithdrawalRequest, error)
}

type PayoutHandler struct {
	service   payoutApplicationService
	newClient ClientFactory
	validate  *validator.Validate
}

type addPayoutMethodRequest struct {
	Type          string `json:"type" validate:"required"`
	Provider      string `json:"provider"`
	AccountName   string `json:"account_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	IsDefault     bool   `json:"is_default"`
}

type withdrawalRequest struct {
	Amount         string `json:"amount" validate:"required,numeric"`
	PayoutMethodID string `json:"payout_method_id" validate:"required"`
}

func NewPayoutHandler(service payoutApplicationService, newClient ClientFactory, validate *validator.Validate) *PayoutHandler {
	return &PayoutHandler{service: service, newClient: newClient, validate: validate}
}

func (h *PayoutHandler) ListMethods(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	methods, err := h.service.ListMethods(c.Context(), h.newClient(who.Token))
	if err != nil {
		return mapServiceError(c, err, "Failed to load payout methods")
	}
	return c.JSON(fiber.Map{"payout_methods": methods})
}

func (h *PayoutHandler) AddMethod(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	var req addPayoutMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "type, account_name and account_number are required"})
	}

	method, err := h.service.AddMethod(c.Context(), h.newClient(who.Token), apiclient.PayoutMethod{
		Type:          req.Type,
		Provider:      req.Provider,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		IsDefault:     req.IsDefault,
	})
	if err != nil {
		return mapServiceError(c, err, "Failed to add payout method")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"payout_method": method})
}

func (h *PayoutHandler) DeleteMethod(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.service.DeleteMethod(c.Context(), h.newClient(who.Token), c.Params("id")); err != nil {
		return mapServiceError(c, err, "Failed to remove payout method")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PayoutHandler) RequestWithdrawal(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	var req withdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.Amount = strings.TrimSpace(req.Amount)
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amount and payout_method_id are required"})
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amount must be a number"})
	}

	withdrawal, err := h.service.RequestWithdrawal(c.Context(), h.newClient(who.Token), amount, req.PayoutMethodID)
	if err != nil {
		return mapServiceError(c, err, "Failed to request withdrawal")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"withdrawal": withdrawal})
}
