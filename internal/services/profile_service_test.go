package services

import (
	"context"
	"errors"
	"testing"

	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/saeid-a/TheraConsole/internal/roles"
	"github.com/shopspring/decimal"
)

type stubProfileGateway struct {
	updates      int
	lastUpdate   apiclient.ProfileUpdate
	reviewUpdate apiclient.ProfileReviewUpdate
}

func (g *stubProfileGateway) GetProfile(_ context.Context) (*apiclient.Profile, error) {
	return &apiclient.Profile{ID: "1"}, nil
}

func (g *stubProfileGateway) UpdateProfile(_ context.Context, update apiclient.ProfileUpdate) (*apiclient.Profile, error) {
	g.updates++
	g.lastUpdate = update
	return &apiclient.Profile{ID: "1"}, nil
}

func (g *stubProfileGateway) GetReview(_ context.Context, reviewID string) (*apiclient.ProfileReview, error) {
	return &apiclient.ProfileReview{ID: reviewID}, nil
}

func (g *stubProfileGateway) UpdateReview(_ context.Context, reviewID string, update apiclient.ProfileReviewUpdate) (*apiclient.ProfileReview, error) {
	g.reviewUpdate = update
	return &apiclient.ProfileReview{ID: reviewID}, nil
}

func TestUpdateProfileRoleRules(t *testing.T) {
	gateway := &stubProfileGateway{}
	service := NewProfileService()
	rate := decimal.NewFromInt(1500)
	bio := "CBT practitioner"

	if _, err := service.UpdateProfile(context.Background(), gateway, roles.Patient, apiclient.ProfileUpdate{SessionRate: &rate}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for patient rate, got %v", err)
	}
	if _, err := service.UpdateProfile(context.Background(), gateway, roles.Patient, apiclient.ProfileUpdate{Bio: &bio}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for patient bio, got %v", err)
	}

	zero := decimal.Zero
	if _, err := service.UpdateProfile(context.Background(), gateway, roles.Psychologist, apiclient.ProfileUpdate{SessionRate: &zero}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero rate, got %v", err)
	}
	if gateway.updates != 0 {
		t.Fatalf("rejected updates reached the API")
	}

	if _, err := service.UpdateProfile(context.Background(), gateway, roles.Psychologist, apiclient.ProfileUpdate{SessionRate: &rate, Bio: &bio}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if gateway.updates != 1 {
		t.Fatalf("expected one update, got %d", gateway.updates)
	}
}

func TestUpdateReviewRequiresChange(t *testing.T) {
	gateway := &stubProfileGateway{}
	service := NewProfileService()

	if _, err := service.UpdateReview(context.Background(), gateway, "r1", apiclient.ProfileReviewUpdate{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	reply := "  Thank you for the kind words.  "
	if _, err := service.UpdateReview(context.Background(), gateway, "r1", apiclient.ProfileReviewUpdate{Reply: &reply}); err != nil {
		t.Fatalf("UpdateReview: %v", err)
	}
	if *gateway.reviewUpdate.Reply != "Thank you for the kind words." {
		t.Fatalf("expected trimmed reply, got %q", *gateway.reviewUpdate.Reply)
	}
}
