package services

import (
	"context"
	"fmt"
	"time"

	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/saeid-a/TheraConsole/internal/ledger"
	"github.com/saeid-a/TheraConsole/internal/roles"
	"github.com/shopspring/decimal"
)

type statementSource interface {
	WalletBalance(ctx context.Context) (decimal.Decimal, error)
	ListSessions(ctx context.Context) ([]apiclient.Session, error)
}

type Statement struct {
	Role           string          `json:"role"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	From           *time.Time      `json:"from,omitempty"`
	To             *time.Time      `json:"to,omitempty"`
	Entries        []ledger.Entry  `json:"entries"`
	ledger.Totals
}

// StatementView is built for one caller and loaded on demand by the handler.
type StatementView struct {
	source statementSource
	role   roles.Role
}

func NewStatementView(source statementSource, role roles.Role) *StatementView {
	return &StatementView{source: source, role: role}
}

// Load reads the balance and then the sessions. The two reads are not
// atomic: a session booked in between shows up with a balance that does not
// yet reflect it.
func (v *StatementView) Load(ctx context.Context, from, to time.Time) (*Statement, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, invalid("from must not be after to")
	}

	balance, err := v.source.WalletBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("load wallet balance: %w", err)
	}
	sessions, err := v.source.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	entries := ledger.Filter(ledger.Build(balance, sessions, v.role), from, to)
	statement := &Statement{
		Role:           v.role.String(),
		CurrentBalance: balance,
		Entries:        entries,
		Totals:         ledger.Summarize(entries),
	}
	if !from.IsZero() {
		statement.From = &from
	}
	if !to.IsZero() {
		statement.To = &to
	}
	return statement, nil
}
