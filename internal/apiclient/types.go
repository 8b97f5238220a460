package apiclient

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type SessionStatus string

const (
	SessionPending   SessionStatus = "PENDING"
	SessionScheduled SessionStatus = "SCHEDULED"
	SessionLive      SessionStatus = "LIVE"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionCancelled SessionStatus = "CANCELLED"
)

// Normalize upper-cases the status so "completed" and "COMPLETED" compare equal.
func (s SessionStatus) Normalize() SessionStatus {
	return SessionStatus(strings.ToUpper(strings.TrimSpace(string(s))))
}

type Session struct {
	ID               string          `json:"id"`
	PatientID        string          `json:"patientId"`
	PatientName      string          `json:"patientName,omitempty"`
	PsychologistID   string          `json:"psychologistId"`
	PsychologistName string          `json:"psychologistName,omitempty"`
	StartTime        time.Time       `json:"startTime"`
	EndTime          time.Time       `json:"endTime"`
	Price            decimal.Decimal `json:"price"`
	Status           SessionStatus   `json:"status"`
}

// FormParams is the signed field set the gateway expects. Values arrive as
// JSON strings or numbers and are passed through untouched as text.
type FormParams map[string]string

func (p *FormParams) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(FormParams, len(raw))
	for key, value := range raw {
		var text string
		if err := json.Unmarshal(value, &text); err == nil {
			out[key] = text
			continue
		}
		trimmed := strings.TrimSpace(string(value))
		if trimmed == "null" {
			out[key] = ""
			continue
		}
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			return fmt.Errorf("param %q must be a scalar", key)
		}
		out[key] = trimmed
	}
	*p = out
	return nil
}

// Keys returns the param names in a stable order.
func (p FormParams) Keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type PaymentDescriptor struct {
	ActionURL string     `json:"actionUrl"`
	Params    FormParams `json:"params"`
}

type VerifyResult struct {
	Success *bool            `json:"success,omitempty"`
	Message string           `json:"message,omitempty"`
	Balance *decimal.Decimal `json:"balance,omitempty"`
}

// Verified treats a 2xx answer without an explicit success flag as verified.
func (r *VerifyResult) Verified() bool {
	return r != nil && (r.Success == nil || *r.Success)
}

type Review struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

type PayoutMethod struct {
	ID            string `json:"id,omitempty"`
	Type          string `json:"type"`
	Provider      string `json:"provider,omitempty"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	IsDefault     bool   `json:"isDefault,omitempty"`
}

type WithdrawalRequest struct {
	ID             string          `json:"id"`
	Amount         decimal.Decimal `json:"amount"`
	PayoutMethodID string          `json:"payoutMethodId"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type Profile struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone,omitempty"`
	Role        string           `json:"role"`
	Bio         string           `json:"bio,omitempty"`
	Languages   []string         `json:"languages,omitempty"`
	SessionRate *decimal.Decimal `json:"sessionRate,omitempty"`
	AvatarURL   string           `json:"avatarUrl,omitempty"`
}

type ProfileUpdate struct {
	Name        *string          `json:"name,omitempty"`
	Phone       *string          `json:"phone,omitempty"`
	Bio         *string          `json:"bio,omitempty"`
	Languages   *[]string        `json:"languages,omitempty"`
	SessionRate *decimal.Decimal `json:"sessionRate,omitempty"`
}

type ProfileReview struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId"`
	PatientName string    `json:"patientName,omitempty"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	Reply       string    `json:"reply,omitempty"`
	Hidden      bool      `json:"hidden"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ProfileReviewUpdate struct {
	Reply  *string `json:"reply,omitempty"`
	Hidden *bool   `json:"hidden,omitempty"`
}
