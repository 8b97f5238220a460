package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/saeid-a/TheraConsole/internal/roles"
	"github.com/saeid-a/TheraConsole/internal/services"
)

type stubProfileService struct {
	profile      *apiclient.Profile
	review       *apiclient.ProfileReview
	err          error
	lastRole     roles.Role
	lastUpdate   apiclient.ProfileUpdate
	lastReviewID string
	lastReview   apiclient.ProfileReviewUpdate
}

func (s *stubProfileService) GetProfile(context.Context, services.ProfileGateway) (*apiclient.Profile, error) {
	return s.profile, s.err
}

func (s *stubProfileService) UpdateProfile(
	_ context.Context,
	_ services.ProfileGateway,
	role roles.Role,
	update apiclient.ProfileUpdate,
) (*apiclient.Profile, error) {
	s.lastRole = role
	s.lastUpdate = update
	return s.profile, s.err
}

func (s *stubProfileService) GetReview(_ context.Context, _ services.ProfileGateway, reviewID string) (*apiclient.ProfileReview, error) {
	s.lastReviewID = reviewID
	return s.review, s.err
}

func (s *stubProfileService) UpdateReview(
	_ context.Context,
	_ services.ProfileGateway,
	reviewID string,
	update apiclient.ProfileReviewUpdate,
) (*apiclient.ProfileReview, error) {
	s.lastReviewID = reviewID
	s.lastReview = update
	return s.review, s.err
}

func TestUpdateProfilePassesOnlyProvidedFields(t *testing.T) {
	service := &stubProfileService{profile: &apiclient.Profile{ID: "42", Name: "Dr. Rai"}}
	handler := NewProfileHandler(service, unusedClient)

	app := fiber.New()
	app.Use(withCaller(roles.Psychologist))
	app.Patch("/api/v1/profile", handler.UpdateProfile)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/profile", strings.NewReader(`{"bio":"CBT","session_rate":"1500"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if service.lastRole != roles.Psychologist {
		t.Fatalf("expected psychologist role, got %s", service.lastRole)
	}
	if service.lastUpdate.Name != nil || service.lastUpdate.Bio == nil || *service.lastUpdate.Bio != "CBT" {
		t.Fatalf("unexpected update: %+v", service.lastUpdate)
	}
	if service.lastUpdate.SessionRate == nil || service.lastUpdate.SessionRate.String() != "1500" {
		t.Fatalf("expected session rate 1500, got %v", service.lastUpdate.SessionRate)
	}
}

func TestUpdateProfileForbiddenForPatientRate(t *testing.T) {
	handler := NewProfileHandler(&stubProfileService{err: services.ErrForbidden}, unusedClient)

	app := fiber.New()
	app.Use(withCaller(roles.Patient))
	app.Patch("/api/v1/profile", handler.UpdateProfile)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/profile", strings.NewReader(`{"session_rate":"10"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.StatusCode)
	}
}

func TestUpdateReviewUsesRouteID(t *testing.T) {
	service := &stubProfileService{review: &apiclient.ProfileReview{ID: "r-5", Hidden: true}}
	handler := NewProfileHandler(service, unusedClient)

	app := fiber.New()
	app.Use(withCaller(roles.Psychologist))
	app.Patch("/api/v1/profile/reviews/:id", handler.UpdateReview)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/profile/reviews/r-5", strings.NewReader(`{"hidden":true}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if service.lastReviewID != "r-5" || service.lastReview.Hidden == nil || !*service.lastReview.Hidden {
		t.Fatalf("unexpected review update: id=%s %+v", service.lastReviewID, service.lastReview)
	}

	var payload struct {
		Review apiclient.ProfileReview `json:"review"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Review.ID != "r-5" {
		t.Fatalf("unexpected review: %+v", payload.Review)
	}
}

func TestGetProfileUpstreamFailure(t *testing.T) {
	handler := NewProfileHandler(&stubProfileService{err: &apiclient.APIError{Status: http.StatusInternalServerError}}, unusedClient)

	app := fiber.New()
	app.Use(withCaller(roles.Patient))
	app.Get("/api/v1/profile", handler.GetProfile)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", resp.StatusCode)
	}
	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["error"] != "Failed to load profile" {
		t.Fatalf("expected fallback message, got %q", payload["error"])
	}
}
