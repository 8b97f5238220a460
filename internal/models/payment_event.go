package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentEvent struct {
	ID        uuid.UUID           `json:"id"`
	UserID    string              `json:"user_id"`
	Kind      string              `json:"kind"`
	Amount    decimal.NullDecimal `json:"amount"`
	Balance   decimal.NullDecimal `json:"balance"`
	Message   string              `json:"message"`
	CreatedAt time.Time           `json:"created_at"`
}
