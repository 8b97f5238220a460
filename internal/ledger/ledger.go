// Package ledger rebuilds a running-balance statement from session records.
//
// The result approximates the wallet history: only session payments and
// earnings appear. Admin adjustments, withdrawal fees and other
// non-session movements live only in the backend ledger, so the balances
// derived for older entries drift from the real ones by their sum.
package ledger

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/saeid-a/TheraConsole/internal/roles"
	"github.com/shopspring/decimal"
)

// PlatformFeeRate is the share of each session price the platform keeps.
var PlatformFeeRate = decimal.RequireFromString("0.10")

type Entry struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"session_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Credit      decimal.Decimal `json:"credit"`
	Debit       decimal.Decimal `json:"debit"`
	Balance     decimal.Decimal `json:"balance"`
}

// Eligible reports whether a session moves money in the statement.
func Eligible(status apiclient.SessionStatus) bool {
	switch status.Normalize() {
	case apiclient.SessionCompleted, apiclient.SessionScheduled, apiclient.SessionLive:
		return true
	default:
		return false
	}
}

// Earning is what a psychologist keeps from a session price.
func Earning(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(1).Sub(PlatformFeeRate)).Round(2)
}

// Build derives one entry per eligible session, newest first. The newest
// entry carries the current balance; every older entry carries the balance
// as it stood right after that entry applied, found by undoing the newer
// entry: older = newer - newer.Credit + newer.Debit.
func Build(balance decimal.Decimal, sessions []apiclient.Session, role roles.Role) []Entry {
	entries := make([]Entry, 0, len(sessions))
	for _, session := range sessions {
		if !Eligible(session.Status) {
			continue
		}
		entries = append(entries, entryFor(session, role))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.After(entries[j].Date)
		}
		return idGreater(entries[i].SessionID, entries[j].SessionID)
	})

	running := balance
	for i := range entries {
		entries[i].Balance = running
		running = running.Sub(entries[i].Credit).Add(entries[i].Debit)
	}
	return entries
}

func entryFor(session apiclient.Session, role roles.Role) Entry {
	entry := Entry{
		ID:        "session-" + session.ID,
		SessionID: session.ID,
		Date:      session.StartTime,
		Credit:    decimal.Zero,
		Debit:     decimal.Zero,
	}

	switch role {
	case roles.Psychologist:
		entry.Credit = Earning(session.Price)
		entry.Description = describe("Session earnings", session.PatientName, session.Status)
	default:
		entry.Debit = session.Price
		entry.Description = describe("Session payment", session.PsychologistName, session.Status)
	}
	return entry
}

func describe(prefix, counterpart string, status apiclient.SessionStatus) string {
	text := prefix
	if name := strings.TrimSpace(counterpart); name != "" {
		text = fmt.Sprintf("%s - %s", prefix, name)
	}
	if status.Normalize() != apiclient.SessionCompleted {
		text = fmt.Sprintf("%s (%s)", text, strings.ToLower(string(status.Normalize())))
	}
	return text
}

// idGreater orders numeric ids numerically and everything else lexically.
func idGreater(a, b string) bool {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	if aErr == nil && bErr == nil {
		return ai > bi
	}
	return a > b
}

// Filter keeps the entries dated within [from, to]. A zero bound is open.
// Balances are left exactly as Build computed them.
func Filter(entries []Entry, from, to time.Time) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if !from.IsZero() && entry.Date.Before(from) {
			continue
		}
		if !to.IsZero() && entry.Date.After(to) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// Oldest returns a reversed copy for oldest-first display.
func Oldest(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, entry := range entries {
		out[len(entries)-1-i] = entry
	}
	return out
}

type Totals struct {
	Credit decimal.Decimal `json:"total_credit"`
	Debit  decimal.Decimal `json:"total_debit"`
}

func Summarize(entries []Entry) Totals {
	totals := Totals{Credit: decimal.Zero, Debit: decimal.Zero}
	for _, entry := range entries {
		totals.Credit = totals.Credit.Add(entry.Credit)
		totals.Debit = totals.Debit.Add(entry.Debit)
	}
	return totals
}
