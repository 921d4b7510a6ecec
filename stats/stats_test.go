package stats

import (
	"testing"
	"time"

	"attbot/database"
	"attbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func seedStore(t *testing.T) database.Store {
	t.Helper()
	st := database.NewMemoryStore()

	records := []models.AttendanceRecord{
		{
			EventKey: "event-a", ScannedAt: base, RawFieldCount: 1,
			Accepted: []models.Attendee{{ID: "alice", DisplayName: "Alice"}, {ID: "bob", DisplayName: "Bob"}},
		},
		{
			EventKey: "event-b", ScannedAt: base.Add(time.Minute), RawFieldCount: 2,
			Accepted: []models.Attendee{{ID: "alice", DisplayName: "Alice"}},
			Declined: []models.Attendee{{ID: "bob", DisplayName: "Bob"}},
		},
		{
			EventKey: "event-c", ScannedAt: base.Add(2 * time.Minute), RawFieldCount: 1,
			Accepted: []models.Attendee{{ID: "bob", DisplayName: "Bob"}},
		},
	}
	for _, rec := range records {
		_, err := st.Put(rec)
		require.NoError(t, err)
	}
	return st
}

func TestLeaderboard_TieBrokenByDeclines(t *testing.T) {
	st := seedStore(t)

	entries, err := Leaderboard(st, 3, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// alice and bob both attended 2; alice's zero declines rank her first.
	assert.Equal(t, "alice", entries[0].UserID)
	assert.Equal(t, 2, entries[0].AttendedCount)
	assert.Equal(t, 0, entries[0].DeclinedCount)

	assert.Equal(t, "bob", entries[1].UserID)
	assert.Equal(t, 2, entries[1].AttendedCount)
	assert.Equal(t, 1, entries[1].DeclinedCount)

	assert.Equal(t, 3, entries[0].EventsConsidered)
}

func TestLeaderboard_WindowLimitsEvents(t *testing.T) {
	st := seedStore(t)

	// Only the most recent event (event-c) is considered.
	entries, err := Leaderboard(st, 1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bob", entries[0].UserID)
	assert.Equal(t, 1, entries[0].AttendedCount)
	assert.Equal(t, 1, entries[0].EventsConsidered)
}

func TestLeaderboard_TopKTruncates(t *testing.T) {
	st := seedStore(t)

	entries, err := Leaderboard(st, 3, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].UserID)
}

func TestLeaderboard_EmptyStore(t *testing.T) {
	entries, err := Leaderboard(database.NewMemoryStore(), 8, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDump(t *testing.T) {
	st := seedStore(t)

	rec, err := Dump(st, "event-b")
	require.NoError(t, err)
	assert.Equal(t, "event-b", rec.EventKey)

	_, err = Dump(st, "nope")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRecentAuthors_Sorted(t *testing.T) {
	st := database.NewMemoryStore()
	now := time.Now()
	for _, rec := range []models.AttendanceRecord{
		{EventKey: "a", SourceAuthorID: "zeta", ScannedAt: now, RawFieldCount: 1},
		{EventKey: "b", SourceAuthorID: "alpha", ScannedAt: now, RawFieldCount: 1},
	} {
		_, err := st.Put(rec)
		require.NoError(t, err)
	}

	authors, err := RecentAuthors(st, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, authors)
}
