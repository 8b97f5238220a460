package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saeid-a/TheraConsole/internal/models"
	"github.com/shopspring/decimal"
)

const defaultPaymentEventLimit = 20

type CreatePaymentEventInput struct {
	UserID  string
	Kind    string
	Amount  decimal.NullDecimal
	Balance decimal.NullDecimal
	Message string
}

type PaymentEventRepository struct {
	db  DBTX
	now func() time.Time
}

func NewPaymentEventRepository(db DBTX) *PaymentEventRepository {
	return &PaymentEventRepository{db: db, now: time.Now}
}

func (r *PaymentEventRepository) Create(ctx context.Context, input CreatePaymentEventInput) (*models.PaymentEvent, error) {
	query := `
		INSERT INTO payment_events (id, user_id, kind, amount, balance, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, kind, amount, balance, message, created_at
	`

	var event models.PaymentEvent
	err := r.db.QueryRow(
		ctx,
		query,
		uuid.New(),
		input.UserID,
		input.Kind,
		input.Amount,
		input.Balance,
		input.Message,
		r.now().UTC(),
	).Scan(
		&event.ID,
		&event.UserID,
		&event.Kind,
		&event.Amount,
		&event.Balance,
		&event.Message,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *PaymentEventRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.PaymentEvent, error) {
	if limit <= 0 {
		limit = defaultPaymentEventLimit
	}

	query := `
		SELECT id, user_id, kind, amount, balance, message, created_at
		FROM payment_events
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.PaymentEvent, 0)
	for rows.Next() {
		var event models.PaymentEvent
		if err := rows.Scan(
			&event.ID,
			&event.UserID,
			&event.Kind,
			&event.Amount,
			&event.Balance,
			&event.Message,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
