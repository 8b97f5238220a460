package services

import (
	"context"
	"strings"

	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/saeid-a/TheraConsole/internal/roles"
)

type ProfileGateway interface {
	GetProfile(ctx context.Context) (*apiclient.Profile, error)
	UpdateProfile(ctx context.Context, update apiclient.ProfileUpdate) (*apiclient.Profile, error)
	GetReview(ctx context.Context, reviewID string) (*apiclient.ProfileReview, error)
	UpdateReview(ctx context.Context, reviewID string, update apiclient.ProfileReviewUpdate) (*apiclient.ProfileReview, error)
}

type ProfileService struct{}

func NewProfileService() *ProfileService {
	return &ProfileService{}
}

func (s *ProfileService) GetProfile(ctx context.Context, client ProfileGateway) (*apiclient.Profile, error) {
	return client.GetProfile(ctx)
}

func (s *ProfileService) UpdateProfile(
	ctx context.Context,
	client ProfileGateway,
	role roles.Role,
	update apiclient.ProfileUpdate,
) (*apiclient.Profile, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, invalid("name must not be empty")
	}
	if update.Languages != nil {
		for _, language := range *update.Languages {
			if strings.TrimSpace(language) == "" {
				return nil, invalid("languages must not contain empty values")
			}
		}
	}
	if update.SessionRate != nil {
		if role != roles.Psychologist {
			return nil, ErrForbidden
		}
		if !update.SessionRate.IsPositive() {
			return nil, invalid("session_rate must be greater than 0")
		}
	}
	if update.Bio != nil && role != roles.Psychologist {
		return nil, ErrForbidden
	}
	return client.UpdateProfile(ctx, update)
}

func (s *ProfileService) GetReview(ctx context.Context, client ProfileGateway, reviewID string) (*apiclient.ProfileReview, error) {
	if strings.TrimSpace(reviewID) == "" {
		return nil, invalid("review id is required")
	}
	return client.GetReview(ctx, reviewID)
}

func (s *ProfileService) UpdateReview(
	ctx context.Context,
	client ProfileGateway,
	reviewID string,
	update apiclient.ProfileReviewUpdate,
) (*apiclient.ProfileReview, error) {
	if strings.TrimSpace(reviewID) == "" {
		return nil, invalid("review id is required")
	}
	if update.Reply == nil && update.Hidden == nil {
		return nil, invalid("nothing to update")
	}
	if update.Reply != nil {
		trimmed := strings.TrimSpace(*update.Reply)
		if len(trimmed) > maxReviewCommentLength {
			return nil, invalid("reply must be at most 1000 characters")
		}
		update.Reply = &trimmed
	}
	return client.UpdateReview(ctx, reviewID, update)
}
