package handlers

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/saeid-a/TheraConsole/internal/middleware"
	"github.com/saeid-a/TheraConsole/internal/models"
	"github.com/saeid-a/TheraConsole/internal/payment"
	"github.com/saeid-a/TheraConsole/internal/roles"
	"github.com/saeid-a/TheraConsole/internal/services"
	"github.com/shopspring/decimal"
)

const (
	redirectCookie    = "esewa_redirect"
	returnCookieTTL   = 30 * time.Minute
	returnCookiePath  = "/api/v1/wallet/esewa"
	statementDateForm = "2006-01-02"
)

type paymentRelay interface {
	Initiate(ctx context.Context, gw payment.Gateway, userID string, amount decimal.Decimal) (*payment.Descriptor, error)
	OnReturn(ctx context.Context, gw payment.Gateway, userID, payload, redirect string) payment.Outcome
	OnFailure(ctx context.Context, userID string) payment.Outcome
}

type statementLoader interface {
	Load(ctx context.Context, from, to time.Time) (*services.Statement, error)
}

type paymentEventLister interface {
	List(ctx context.Context, userID string, limit int) ([]models.PaymentEvent, error)
}

type WalletHandler struct {
	relay        paymentRelay
	events       paymentEventLister
	newClient    ClientFactory
	newStatement func(client *apiclient.Client, role roles.Role) statementLoader
	validate     *validator.Validate
	secureCookie bool
}

func NewWalletHandler(
	relay *payment.Relay,
	events *services.PaymentLog,
	newClient ClientFactory,
	validate *validator.Validate,
	secureCookie bool,
) *WalletHandler {
	return &WalletHandler{
		relay:     relay,
		events:    events,
		newClient: newClient,
		newStatement: func(client *apiclient.Client, role roles.Role) statementLoader {
			return services.NewStatementView(client, role)
		},
		validate:     validate,
		secureCookie: secureCookie,
	}
}

type addFundsRequest struct {
	Amount   string `json:"amount" form:"amount" validate:"required,numeric"`
	Redirect string `json:"redirect" form:"redirect" validate:"omitempty,max=2048"`
}

func (h *WalletHandler) AddFunds(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	var req addFundsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.Amount = strings.TrimSpace(req.Amount)
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amount must be a number"})
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amount must be a number"})
	}

	descriptor, err := h.relay.Initiate(c.Context(), h.newClient(who.Token), who.UserID, amount)
	if err != nil {
		return mapServiceError(c, err, "Failed to start payment")
	}

	// The gateway comes back with a plain navigation, so the token and the
	// optional deep link ride along in cookies.
	h.setReturnCookie(c, middleware.TokenCookie, who.Token)
	if redirect := strings.TrimSpace(req.Redirect); redirect != "" {
		h.setReturnCookie(c, redirectCookie, redirect)
	}

	if wantsJSON(c) {
		return c.JSON(descriptor)
	}

	var page bytes.Buffer
	if err := payment.RenderForm(&page, descriptor); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start payment"})
	}
	c.Type("html", "utf-8")
	return c.Send(page.Bytes())
}

func (h *WalletHandler) EsewaSuccess(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	redirect := strings.TrimSpace(c.Query("redirect"))
	if redirect == "" {
		redirect = c.Cookies(redirectCookie)
	}
	h.clearCookie(c, redirectCookie)

	outcome := h.relay.OnReturn(c.Context(), h.newClient(who.Token), who.UserID, c.Query("data"), redirect)
	return h.respondOutcome(c, outcome)
}

func (h *WalletHandler) EsewaFailure(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}
	h.clearCookie(c, redirectCookie)

	return h.respondOutcome(c, h.relay.OnFailure(c.Context(), who.UserID))
}

func (h *WalletHandler) respondOutcome(c *fiber.Ctx, outcome payment.Outcome) error {
	status := fiber.StatusOK
	if outcome.State != payment.StateVerified {
		status = fiber.StatusUnprocessableEntity
	}

	if wantsJSON(c) {
		return c.Status(status).JSON(fiber.Map{"outcome": outcome})
	}

	var page bytes.Buffer
	if err := payment.RenderOutcome(&page, outcome); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to render payment result"})
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(page.Bytes())
}

func (h *WalletHandler) Balance(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	balance, err := h.newClient(who.Token).WalletBalance(c.Context())
	if err != nil {
		return mapServiceError(c, err, "Failed to load balance")
	}
	return c.JSON(fiber.Map{"balance": balance})
}

func (h *WalletHandler) Statement(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	from, err := parseStatementDate(c.Query("from"), false)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from must be a YYYY-MM-DD date"})
	}
	to, err := parseStatementDate(c.Query("to"), true)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to must be a YYYY-MM-DD date"})
	}

	statement, err := h.newStatement(h.newClient(who.Token), who.Role).Load(c.Context(), from, to)
	if err != nil {
		return mapServiceError(c, err, "Failed to load statement")
	}
	return c.JSON(fiber.Map{"statement": statement})
}

func (h *WalletHandler) PaymentEvents(c *fiber.Ctx) error {
	who, err := callerFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	events, err := h.events.List(c.Context(), who.UserID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load payment history"})
	}
	return c.JSON(fiber.Map{"events": events})
}

func (h *WalletHandler) setReturnCookie(c *fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     returnCookiePath,
		Expires:  time.Now().Add(returnCookieTTL),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *WalletHandler) clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     returnCookiePath,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// parseStatementDate reads a calendar day. An end bound covers the whole day.
func parseStatementDate(value string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse(statementDateForm, value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return day.Add(24*time.Hour - time.Nanosecond), nil
	}
	return day, nil
}
