package ledger

import (
	"testing"
	"time"

	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/saeid-a/TheraConsole/internal/roles"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 10, 0, 0, 0, time.UTC)
}

func session(id string, start time.Time, price string, status apiclient.SessionStatus) apiclient.Session {
	return apiclient.Session{
		ID:        id,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Price:     dec(price),
		Status:    status,
	}
}

func TestPatientSingleCompletedSession(t *testing.T) {
	entries := Build(dec("100"), []apiclient.Session{
		session("1", day(2), "40", apiclient.SessionCompleted),
	}, roles.Patient)

	require.Len(t, entries, 1)
	assert.True(t, entries[0].Debit.Equal(dec("40")))
	assert.True(t, entries[0].Credit.IsZero())
	assert.True(t, entries[0].Balance.Equal(dec("100")), "got %s", entries[0].Balance)
}

func TestPsychologistEarningDeductsPlatformFee(t *testing.T) {
	entries := Build(dec("90"), []apiclient.Session{
		session("1", day(2), "100", apiclient.SessionCompleted),
	}, roles.Psychologist)

	require.Len(t, entries, 1)
	assert.True(t, entries[0].Credit.Equal(dec("90")), "got %s", entries[0].Credit)
	assert.True(t, entries[0].Debit.IsZero())
}

func TestEarningRoundsToCents(t *testing.T) {
	assert.True(t, Earning(dec("33.33")).Equal(dec("30")), "got %s", Earning(dec("33.33")))
	assert.True(t, Earning(dec("12.35")).Equal(dec("11.12")), "got %s", Earning(dec("12.35")))
}

func TestEmptySessionsYieldEmptyLedger(t *testing.T) {
	entries := Build(dec("250"), nil, roles.Patient)
	assert.Empty(t, entries)
	assert.True(t, Summarize(entries).Debit.IsZero())
}

func TestEntryCountMatchesEligibleSessions(t *testing.T) {
	sessions := []apiclient.Session{
		session("1", day(1), "10", apiclient.SessionCompleted),
		session("2", day(2), "10", apiclient.SessionScheduled),
		session("3", day(3), "10", apiclient.SessionLive),
		session("4", day(4), "10", apiclient.SessionPending),
		session("5", day(5), "10", apiclient.SessionCancelled),
		session("6", day(6), "10", "completed"),
	}

	for _, role := range []roles.Role{roles.Patient, roles.Psychologist} {
		entries := Build(dec("0"), sessions, role)
		assert.Len(t, entries, 4, "role %s", role)
	}
}

func TestEntriesAreNewestFirstWithIDTieBreak(t *testing.T) {
	entries := Build(dec("0"), []apiclient.Session{
		session("9", day(1), "10", apiclient.SessionCompleted),
		session("10", day(3), "10", apiclient.SessionCompleted),
		session("11", day(3), "10", apiclient.SessionCompleted),
	}, roles.Patient)

	require.Len(t, entries, 3)
	assert.Equal(t, "11", entries[0].SessionID)
	assert.Equal(t, "10", entries[1].SessionID)
	assert.Equal(t, "9", entries[2].SessionID)
}

// Walking newest to oldest, each older balance is the newer balance with the
// newer entry undone. The opposite direction must not be what is stored.
func TestRunningBalanceDirection(t *testing.T) {
	entries := Build(dec("100"), []apiclient.Session{
		session("1", day(1), "30", apiclient.SessionCompleted),
		session("2", day(2), "20", apiclient.SessionCompleted),
		session("3", day(3), "40", apiclient.SessionScheduled),
	}, roles.Patient)

	require.Len(t, entries, 3)
	assert.True(t, entries[0].Balance.Equal(dec("100")))
	assert.True(t, entries[1].Balance.Equal(dec("140")))
	assert.True(t, entries[2].Balance.Equal(dec("160")))

	for i := 1; i < len(entries); i++ {
		newer, older := entries[i-1], entries[i]
		want := newer.Balance.Sub(newer.Credit).Add(newer.Debit)
		assert.True(t, older.Balance.Equal(want), "entry %d: got %s want %s", i, older.Balance, want)

		wrong := older.Balance.Sub(older.Debit).Add(older.Credit)
		assert.False(t, newer.Balance.Equal(wrong), "entry %d matched the reversed formula", i)
	}
}

func TestPsychologistBalancesDecreaseIntoThePast(t *testing.T) {
	entries := Build(dec("180"), []apiclient.Session{
		session("1", day(1), "100", apiclient.SessionCompleted),
		session("2", day(2), "100", apiclient.SessionCompleted),
	}, roles.Psychologist)

	require.Len(t, entries, 2)
	assert.True(t, entries[0].Balance.Equal(dec("180")))
	assert.True(t, entries[1].Balance.Equal(dec("90")))
}

func TestFilterNarrowsDisplayWithoutChangingBalances(t *testing.T) {
	all := Build(dec("500"), []apiclient.Session{
		session("1", day(1), "50", apiclient.SessionCompleted),
		session("2", day(5), "60", apiclient.SessionCompleted),
		session("3", day(9), "70", apiclient.SessionCompleted),
		session("4", day(12), "80", apiclient.SessionCompleted),
	}, roles.Patient)

	byID := make(map[string]decimal.Decimal, len(all))
	for _, entry := range all {
		byID[entry.SessionID] = entry.Balance
	}

	shown := Filter(all, day(4), day(10))
	require.Len(t, shown, 2)
	assert.Equal(t, "3", shown[0].SessionID)
	assert.Equal(t, "2", shown[1].SessionID)
	for _, entry := range shown {
		assert.True(t, entry.Balance.Equal(byID[entry.SessionID]))
	}

	assert.Len(t, Filter(all, time.Time{}, time.Time{}), 4)
	assert.Len(t, Filter(all, day(9), time.Time{}), 2)
	assert.Len(t, Filter(all, time.Time{}, day(1)), 1)
}

func TestOldestReversesWithoutMutating(t *testing.T) {
	entries := Build(dec("0"), []apiclient.Session{
		session("1", day(1), "10", apiclient.SessionCompleted),
		session("2", day(2), "10", apiclient.SessionCompleted),
	}, roles.Patient)

	oldest := Oldest(entries)
	assert.Equal(t, "1", oldest[0].SessionID)
	assert.Equal(t, "2", entries[0].SessionID)
}

func TestSummarizeTotalsDisplayedEntries(t *testing.T) {
	entries := Build(dec("0"), []apiclient.Session{
		session("1", day(1), "100", apiclient.SessionCompleted),
		session("2", day(2), "50", apiclient.SessionLive),
	}, roles.Psychologist)

	totals := Summarize(entries)
	assert.True(t, totals.Credit.Equal(dec("135")), "got %s", totals.Credit)
	assert.True(t, totals.Debit.IsZero())
}

// Known divergence: a non-session movement (here a 25.00 admin adjustment
// made after the session) never shows up, so every derived balance is off by
// exactly that amount. This documents the gap; it is not a bug to fix here.
func TestNonSessionTransactionsAreNotRepresented(t *testing.T) {
	// Real history: deposit 100, session 40 (wallet 60), adjustment +25 (wallet 85).
	entries := Build(dec("85"), []apiclient.Session{
		session("1", day(3), "40", apiclient.SessionCompleted),
	}, roles.Patient)

	require.Len(t, entries, 1)
	realAfterSession := dec("60")
	drift := entries[0].Balance.Sub(realAfterSession)
	assert.True(t, drift.Equal(dec("25")), "expected drift equal to the adjustment, got %s", drift)

	derivedOpening := entries[0].Balance.Add(entries[0].Debit).Sub(entries[0].Credit)
	assert.True(t, derivedOpening.Equal(dec("125")), "got %s", derivedOpening)
}

func TestDescriptionNamesCounterpartAndPendingState(t *testing.T) {
	s := session("7", day(1), "10", apiclient.SessionScheduled)
	s.PsychologistName = "Dr. Rai"
	s.PatientName = "Sita"

	patient := Build(dec("0"), []apiclient.Session{s}, roles.Patient)
	assert.Equal(t, "Session payment - Dr. Rai (scheduled)", patient[0].Description)

	s.Status = apiclient.SessionCompleted
	psych := Build(dec("0"), []apiclient.Session{s}, roles.Psychologist)
	assert.Equal(t, "Session earnings - Sita", psych[0].Description)
}
