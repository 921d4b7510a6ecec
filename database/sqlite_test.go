package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteStore_RoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "att.db")

	st, err := NewSqliteStore(dbPath)
	require.NoError(t, err)

	_, err = st.Put(memRecord("a", t1, "apollo", "alice", "bob"))
	require.NoError(t, err)
	_, err = st.Put(memRecord("b", t1.Add(time.Hour), "apollo", "carol"))
	require.NoError(t, err)

	before, err := st.All()
	require.NoError(t, err)
	require.NoError(t, st.Close())

	// Reopen and replay; state must be identical to pre-restart.
	st2, err := NewSqliteStore(dbPath)
	require.NoError(t, err)
	defer st2.Close()

	after, err := st2.All()
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].EventKey, after[i].EventKey)
		assert.Equal(t, before[i].Accepted, after[i].Accepted)
		assert.True(t, before[i].ScannedAt.Equal(after[i].ScannedAt))
	}
}

func TestSqliteStore_ReplayAppliesLastWriteWins(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "att.db")

	st, err := NewSqliteStore(dbPath)
	require.NoError(t, err)

	_, err = st.Put(memRecord("a", t1, "apollo", "alice"))
	require.NoError(t, err)
	_, err = st.Put(memRecord("a", t1.Add(time.Hour), "apollo", "alice", "bob"))
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st2, err := NewSqliteStore(dbPath)
	require.NoError(t, err)
	defer st2.Close()

	rec, err := st2.Get("a")
	require.NoError(t, err)
	assert.Len(t, rec.Accepted, 2, "replay must keep the later snapshot")

	all, err := st2.All()
	require.NoError(t, err)
	assert.Len(t, all, 1, "reconciliation replaces, never duplicates")
}

func TestSqliteStore_CorruptRowSkippedOnReplay(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "att.db")

	st, err := NewSqliteStore(dbPath)
	require.NoError(t, err)
	_, err = st.Put(memRecord("a", t1, "apollo", "alice"))
	require.NoError(t, err)

	// Simulate a torn write at the tail of the log.
	_, err = st.db.Exec("INSERT INTO attendance_log (event_key, scanned_at, snapshot) VALUES (?, ?, ?)",
		"b", t1.Unix(), `{"event_key":"b","accept`)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st2, err := NewSqliteStore(dbPath)
	require.NoError(t, err)
	defer st2.Close()

	all, err := st2.All()
	require.NoError(t, err)
	assert.Len(t, all, 1, "corrupt entry must be skipped, not fatal")

	_, err = st2.Get("b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSqliteStore_IdempotentPutAppendsNothing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "att.db")

	st, err := NewSqliteStore(dbPath)
	require.NoError(t, err)
	defer st.Close()

	rec := memRecord("a", t1, "apollo", "alice")
	updated, err := st.Put(rec)
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = st.Put(rec)
	require.NoError(t, err)
	assert.False(t, updated)

	var rows int
	require.NoError(t, st.db.QueryRow("SELECT COUNT(*) FROM attendance_log").Scan(&rows))
	assert.Equal(t, 1, rows)
}
