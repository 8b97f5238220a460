// Package roles maps a caller's role to the fixed set of console views it may
// open. The set is closed: a role is either a patient or a psychologist.
package roles

import (
	"errors"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

type Role int

const (
	Patient Role = iota + 1
	Psychologist
)

type View string

const (
	ViewDashboard     View = "dashboard"
	ViewSessions      View = "sessions"
	ViewWallet        View = "wallet"
	ViewAddFunds      View = "add-funds"
	ViewStatement     View = "statement"
	ViewEarnings      View = "earnings"
	ViewPayoutMethods View = "payout-methods"
	ViewWithdrawals   View = "withdrawals"
	ViewReviews       View = "reviews"
	ViewProfile       View = "profile"
)

var patientViews = []View{
	ViewDashboard,
	ViewSessions,
	ViewWallet,
	ViewAddFunds,
	ViewStatement,
	ViewProfile,
}

var psychologistViews = []View{
	ViewDashboard,
	ViewSessions,
	ViewEarnings,
	ViewStatement,
	ViewPayoutMethods,
	ViewWithdrawals,
	ViewReviews,
	ViewProfile,
}

// ParseRole accepts the marketplace's role names along with the legacy
// user/coach aliases still present in older tokens.
func ParseRole(value string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "patient", "user":
		return Patient, nil
	case "psychologist", "coach":
		return Psychologist, nil
	default:
		return 0, ErrUnknownRole
	}
}

func (r Role) String() string {
	switch r {
	case Patient:
		return "patient"
	case Psychologist:
		return "psychologist"
	default:
		return "unknown"
	}
}

// AllowedViews returns a copy so callers cannot widen a role's view set.
func AllowedViews(role Role) []View {
	var views []View
	switch role {
	case Patient:
		views = patientViews
	case Psychologist:
		views = psychologistViews
	default:
		return nil
	}
	out := make([]View, len(views))
	copy(out, views)
	return out
}

func Can(role Role, view View) bool {
	for _, allowed := range AllowedViews(role) {
		if allowed == view {
			return true
		}
	}
	return false
}
