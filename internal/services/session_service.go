package services

import (
	"context"
	"strings"
	"time"

	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/saeid-a/TheraConsole/internal/roles"
)

const maxReviewCommentLength = 1000

type SessionGateway interface {
	ListSessions(ctx context.Context) ([]apiclient.Session, error)
	AcceptSession(ctx context.Context, sessionID string) (*apiclient.Session, error)
	RejectSession(ctx context.Context, sessionID string) (*apiclient.Session, error)
	ReviewSession(ctx context.Context, sessionID string, review apiclient.Review) error
}

type SessionListFilter struct {
	Status    string
	Timeframe string
}

type SessionService struct {
	now func() time.Time
}

func NewSessionService() *SessionService {
	return &SessionService{now: time.Now}
}

// ListSessions narrows the caller's sessions by status and by whether they
// have ended yet.
func (s *SessionService) ListSessions(
	ctx context.Context,
	client SessionGateway,
	filter SessionListFilter,
) ([]apiclient.Session, error) {
	timeframe := strings.TrimSpace(filter.Timeframe)
	if timeframe != "" && timeframe != "upcoming" && timeframe != "past" {
		return nil, invalid("timeframe must be upcoming or past")
	}

	sessions, err := client.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	status := apiclient.SessionStatus(filter.Status).Normalize()
	now := s.now().UTC()
	out := make([]apiclient.Session, 0, len(sessions))
	for _, session := range sessions {
		if status != "" && session.Status.Normalize() != status {
			continue
		}
		switch timeframe {
		case "upcoming":
			if !session.EndTime.After(now) {
				continue
			}
		case "past":
			if session.EndTime.After(now) {
				continue
			}
		}
		out = append(out, session)
	}
	return out, nil
}

// Respond accepts or rejects a pending booking. Only psychologists answer
// booking requests.
func (s *SessionService) Respond(
	ctx context.Context,
	client SessionGateway,
	role roles.Role,
	sessionID string,
	action string,
) (*apiclient.Session, error) {
	if role != roles.Psychologist {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, invalid("session id is required")
	}

	switch strings.ToLower(strings.TrimSpace(action)) {
	case "accept":
		return client.AcceptSession(ctx, sessionID)
	case "reject":
		return client.RejectSession(ctx, sessionID)
	default:
		return nil, invalid("action must be accept or reject")
	}
}

func (s *SessionService) Review(
	ctx context.Context,
	client SessionGateway,
	role roles.Role,
	sessionID string,
	review apiclient.Review,
) error {
	if role != roles.Patient {
		return ErrForbidden
	}
	if strings.TrimSpace(sessionID) == "" {
		return invalid("session id is required")
	}
	if review.Rating < 1 || review.Rating > 5 {
		return invalid("rating must be between 1 and 5")
	}
	review.Comment = strings.TrimSpace(review.Comment)
	if len(review.Comment) > maxReviewCommentLength {
		return invalid("comment must be at most 1000 characters")
	}
	return client.ReviewSession(ctx, sessionID, review)
}
