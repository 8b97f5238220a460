package routes

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/saeid-a/TheraConsole/internal/config"
	"github.com/saeid-a/TheraConsole/internal/handlers"
	"github.com/saeid-a/TheraConsole/internal/middleware"
	"github.com/saeid-a/TheraConsole/internal/payment"
	"github.com/saeid-a/TheraConsole/internal/repository"
	"github.com/saeid-a/TheraConsole/internal/roles"
	"github.com/saeid-a/TheraConsole/internal/services"
	walletws "github.com/saeid-a/TheraConsole/internal/websocket"
	"go.uber.org/zap"
)

// RegisterRoutes mounts the console API. The wallet hub lives until ctx is done.
func RegisterRoutes(ctx context.Context, app *fiber.App, cfg *config.Config, db repository.DBTX, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := &http.Client{Timeout: cfg.APITimeout}
	newClient := handlers.ClientFactory(func(token string) *apiclient.Client {
		return apiclient.New(cfg.APIBaseURL, token, httpClient)
	})
	validate := validator.New()

	paymentLog := services.NewPaymentLog(repository.NewPaymentEventRepository(db))
	walletHub := walletws.NewHub(logger.Named("wallet_hub"))
	go walletHub.Run(ctx)

	relay := payment.NewRelay(paymentLog, walletHub, logger.Named("payment"), payment.Options{
		RedirectDelay:           cfg.EsewaRedirectDelay,
		AllowedRedirectPrefixes: cfg.AllowedRedirectPrefixes,
	})

	walletHandler := handlers.NewWalletHandler(relay, paymentLog, newClient, validate, !cfg.IsDevelopment())
	sessionHandler := handlers.NewSessionHandler(services.NewSessionService(), newClient)
	payoutHandler := handlers.NewPayoutHandler(services.NewPayoutService(), newClient, validate)
	profileHandler := handlers.NewProfileHandler(services.NewProfileService(), newClient)
	socketHandler := handlers.NewWalletSocketHandler(walletHub, cfg.JWTSecret)

	api := app.Group("/api")

	// Mounted ahead of the /v1 group: these authenticate from the query token
	// or the return cookie, which the header-only group would reject.
	api.Use("/v1/ws", socketHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(socketHandler.HandleWebSocket))

	esewaReturns := api.Group("/v1/wallet/esewa",
		middleware.AuthRequiredWithCookie(cfg.JWTSecret),
		middleware.RequireView(roles.ViewAddFunds),
	)
	esewaReturns.Get("/success", walletHandler.EsewaSuccess)
	esewaReturns.Get("/failure", walletHandler.EsewaFailure)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	authProtected.Get("/views", handlers.ListViews)

	wallet := authProtected.Group("/wallet")
	wallet.Get("/balance", middleware.RequireView(roles.ViewWallet, roles.ViewEarnings), walletHandler.Balance)
	wallet.Post("/add-funds", middleware.RequireView(roles.ViewAddFunds), walletHandler.AddFunds)
	wallet.Get("/statement", middleware.RequireView(roles.ViewStatement), walletHandler.Statement)
	wallet.Get("/payment-events", middleware.RequireView(roles.ViewWallet, roles.ViewEarnings), walletHandler.PaymentEvents)

	sessions := authProtected.Group("/sessions", middleware.RequireView(roles.ViewSessions))
	sessions.Get("", sessionHandler.ListSessions)
	sessions.Post("/:id/accept", sessionHandler.AcceptSession)
	sessions.Post("/:id/reject", sessionHandler.RejectSession)
	sessions.Post("/:id/review", sessionHandler.ReviewSession)

	payouts := authProtected.Group("/payout-methods", middleware.RequireView(roles.ViewPayoutMethods))
	payouts.Get("", payoutHandler.ListMethods)
	payouts.Post("", payoutHandler.AddMethod)
	payouts.Delete("/:id", payoutHandler.DeleteMethod)
	authProtected.Post("/withdrawal-requests", middleware.RequireView(roles.ViewWithdrawals), payoutHandler.RequestWithdrawal)

	profile := authProtected.Group("/profile", middleware.RequireView(roles.ViewProfile))
	profile.Get("", profileHandler.GetProfile)
	profile.Patch("", profileHandler.UpdateProfile)
	profile.Get("/reviews/:id", middleware.RequireView(roles.ViewReviews), profileHandler.GetReview)
	profile.Patch("/reviews/:id", middleware.RequireView(roles.ViewReviews), profileHandler.UpdateReview)
}
