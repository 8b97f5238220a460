package services

import (
	"context"

	"github.com/saeid-a/TheraConsole/internal/models"
	"github.com/saeid-a/TheraConsole/internal/payment"
	"github.com/saeid-a/TheraConsole/internal/repository"
	"github.com/shopspring/decimal"
)

type paymentEventStore interface {
	Create(ctx context.Context, input repository.CreatePaymentEventInput) (*models.PaymentEvent, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.PaymentEvent, error)
}

// PaymentLog keeps the audit trail of handshake outcomes per user.
type PaymentLog struct {
	store paymentEventStore
}

func NewPaymentLog(store paymentEventStore) *PaymentLog {
	return &PaymentLog{store: store}
}

func (l *PaymentLog) Record(ctx context.Context, event payment.Event) error {
	_, err := l.store.Create(ctx, repository.CreatePaymentEventInput{
		UserID:  event.UserID,
		Kind:    string(event.Kind),
		Amount:  nullDecimal(event.Amount),
		Balance: nullDecimal(event.Balance),
		Message: event.Message,
	})
	return err
}

func (l *PaymentLog) List(ctx context.Context, userID string, limit int) ([]models.PaymentEvent, error) {
	if limit > 100 {
		limit = 100
	}
	return l.store.ListByUser(ctx, userID, limit)
}

func nullDecimal(value *decimal.Decimal) decimal.NullDecimal {
	if value == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *value, Valid: true}
}
