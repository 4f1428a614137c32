package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crash-data-audit/internal/history"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionRecords(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.SaveSession(ctx, SessionRecord{ID: "a", Source: "a.csv", Rows: 10, Version: 1, CreatedAt: created, UpdatedAt: created}))
	require.NoError(t, db.SaveSession(ctx, SessionRecord{ID: "b", Source: "b.csv", CreatedAt: created.Add(time.Hour), UpdatedAt: created.Add(time.Hour)}))
	require.NoError(t, db.SaveSession(ctx, SessionRecord{ID: "a", Source: "a.csv", Rows: 8, Version: 2, CreatedAt: created, UpdatedAt: created.Add(2 * time.Hour)}))

	rec, err := db.GetSession(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 8, rec.Rows)
	assert.Equal(t, 2, rec.Version)
	assert.True(t, rec.CreatedAt.Equal(created))

	list, err := db.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)

	require.NoError(t, db.DeleteSession(ctx, "a"))
	_, err = db.GetSession(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionLogs(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var logs history.Store = db.Logs("s1")
	other := db.Logs("s2")

	e1, err := logs.AppendCleaning(ctx, "Filled missing Weather with 'Unknown'", at)
	require.NoError(t, err)
	e2, err := logs.AppendCleaning(ctx, "Dropped 2 rows with missing Latitude", at.Add(time.Second))
	require.NoError(t, err)
	o1, err := other.AppendCleaning(ctx, "Trimmed", at)
	require.NoError(t, err)
	assert.Equal(t, 1, e1.SequenceNumber)
	assert.Equal(t, 2, e2.SequenceNumber)
	assert.Equal(t, 1, o1.SequenceNumber, "numbering is per session")

	entries, err := logs.CleaningLog(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Dropped 2 rows with missing Latitude", entries[1].Description)
	assert.True(t, entries[0].AppliedAt.Equal(at))

	_, err = logs.AppendHistory(ctx, history.ActionAuditPerformed, "Ran DQ checks", at)
	require.NoError(t, err)
	_, err = logs.AppendHistory(ctx, history.ActionDashboardViewed, "Loaded 10 rows", at)
	require.NoError(t, err)
	h, err := logs.History(ctx)
	require.NoError(t, err)
	require.Len(t, h, 2)
	assert.Equal(t, history.ActionAuditPerformed, h[0].Action)
	assert.True(t, h[0].Timestamp.Equal(at))

	require.NoError(t, logs.ClearHistory(ctx))
	h, _ = logs.History(ctx)
	assert.Empty(t, h)

	require.NoError(t, logs.ClearCleaning(ctx))
	entries, _ = logs.CleaningLog(ctx)
	assert.Empty(t, entries)
	otherEntries, _ := other.CleaningLog(ctx)
	assert.Len(t, otherEntries, 1)
}
