package routes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/saeid-a/TheraConsole/internal/config"
	"github.com/saeid-a/TheraConsole/internal/middleware"
	"github.com/saeid-a/TheraConsole/pkg/utils"
)

const routesTestSecret = "routes-test-secret"

var errNoDatabase = errors.New("no database in routes tests")

// offlineDB fails every statement so the payment log degrades to logging.
type offlineDB struct{}

func (offlineDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errNoDatabase
}

func (offlineDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errNoDatabase
}

func (offlineDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return offlineRow{}
}

type offlineRow struct{}

func (offlineRow) Scan(...any) error { return errNoDatabase }

func newTestApp(t *testing.T, apiBaseURL string) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:               routesTestSecret,
		APIBaseURL:              apiBaseURL,
		APITimeout:              time.Second,
		AppEnv:                  "test",
		EsewaRedirectDelay:      time.Second,
		AllowedRedirectPrefixes: []string{"theralink://"},
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app := fiber.New()
	RegisterRoutes(ctx, app, cfg, offlineDB{}, nil)
	return app
}

func signedToken(t *testing.T, role string) string {
	t.Helper()
	token, err := utils.GenerateToken("42", role, routesTestSecret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	return "Bearer " + signedToken(t, role)
}

func TestRoutesGateViewsByRole(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/payout-methods":
			_, _ = w.Write([]byte(`[]`))
		case "/wallet/balance":
			_, _ = w.Write([]byte(`{"balance":"10"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer backend.Close()

	app := newTestApp(t, backend.URL)

	cases := []struct {
		name   string
		method string
		path   string
		role   string
		want   int
	}{
		{"patient cannot list payout methods", http.MethodGet, "/api/v1/payout-methods", "patient", http.StatusForbidden},
		{"psychologist lists payout methods", http.MethodGet, "/api/v1/payout-methods", "psychologist", http.StatusOK},
		{"psychologist cannot add funds", http.MethodPost, "/api/v1/wallet/add-funds", "psychologist", http.StatusForbidden},
		{"patient cannot request withdrawal", http.MethodPost, "/api/v1/withdrawal-requests", "patient", http.StatusForbidden},
		{"patient cannot moderate reviews", http.MethodGet, "/api/v1/profile/reviews/r-1", "patient", http.StatusForbidden},
		{"both roles read balance", http.MethodGet, "/api/v1/wallet/balance", "coach", http.StatusOK},
		{"legacy user alias maps to patient", http.MethodGet, "/api/v1/wallet/balance", "user", http.StatusOK},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", bearer(t, tc.role))

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: app.Test: %v", tc.name, err)
		}
		resp.Body.Close()

		if resp.StatusCode != tc.want {
			t.Fatalf("%s: expected status %d, got %d", tc.name, tc.want, resp.StatusCode)
		}
	}
}

func TestRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, "http://api.invalid")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/views", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.StatusCode)
	}
}

func TestRoutesWalletSocketAcceptsQueryToken(t *testing.T) {
	app := newTestApp(t, "http://api.invalid")

	upgrade := func(role string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ws?token="+signedToken(t, role), nil)
		req.Header.Set("Connection", "Upgrade")
		req.Header.Set("Upgrade", "websocket")
		return req
	}

	// The socket's own auth decides the role, not the header-only group.
	resp, err := app.Test(upgrade("admin"))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden || !strings.Contains(string(body), "Unsupported role") {
		t.Fatalf("expected 403 Unsupported role, got %d %s", resp.StatusCode, body)
	}

	resp, err = app.Test(upgrade("patient"))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		t.Fatalf("query token was rejected: %d %s", resp.StatusCode, body)
	}
}

func TestRoutesAcceptTokenCookieOnlyOnEsewaReturns(t *testing.T) {
	app := newTestApp(t, "http://api.invalid")
	cookie := &http.Cookie{Name: middleware.TokenCookie, Value: signedToken(t, "patient")}

	cases := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"failure return reads the cookie", http.MethodGet, "/api/v1/wallet/esewa/failure", http.StatusUnprocessableEntity},
		{"success return reads the cookie", http.MethodGet, "/api/v1/wallet/esewa/success", http.StatusUnprocessableEntity},
		{"add funds ignores the cookie", http.MethodPost, "/api/v1/wallet/add-funds", http.StatusUnauthorized},
		{"balance ignores the cookie", http.MethodGet, "/api/v1/wallet/balance", http.StatusUnauthorized},
		{"views ignore the cookie", http.MethodGet, "/api/v1/views", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{"amount":"100"}`))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(cookie)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: app.Test: %v", tc.name, err)
		}
		resp.Body.Close()

		if resp.StatusCode != tc.want {
			t.Fatalf("%s: expected status %d, got %d", tc.name, tc.want, resp.StatusCode)
		}
	}
}
