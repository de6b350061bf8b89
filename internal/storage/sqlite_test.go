package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovalyshyn/workvol/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleSnapshot() []model.WorkItem {
	day := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	return []model.WorkItem{
		{
			ID: "w2", City: "Lviv", Object: "Greenhouse 4", Subname: "Foundation",
			Category: "Concrete", Name: "Footing", Unit: "m³", Volume: 120, Done: 55.5,
			History: []model.HistoryEntry{
				{Amount: 30, Date: day},
				{Amount: 25.5, Date: day.AddDate(0, 0, 2)},
			},
		},
		{
			ID: "w1", City: "Kyiv", Object: "Silo 2", Name: "Excavation",
			Unit: "m³", Volume: 0, Done: 10,
			History: []model.HistoryEntry{{Amount: 10, Date: day}},
		},
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceSnapshot(ctx, sampleSnapshot()))

	got, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Fetch order is preserved.
	assert.Equal(t, "w2", got[0].ID)
	assert.Equal(t, "w1", got[1].ID)

	assert.Equal(t, "Greenhouse 4", got[0].Object)
	assert.InDelta(t, 55.5, got[0].Done, 1e-9)
	require.Len(t, got[0].History, 2)
	assert.InDelta(t, 30, got[0].History[0].Amount, 1e-9)
	assert.InDelta(t, 25.5, got[0].History[1].Amount, 1e-9)
	assert.Equal(t, "m³", got[0].Unit)
}

func TestSQLiteStore_ReplaceDropsStaleItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceSnapshot(ctx, sampleSnapshot()))
	require.NoError(t, store.ReplaceSnapshot(ctx, []model.WorkItem{
		{ID: "w9", City: "Odesa", Object: "Pier 1", Name: "Piling", Volume: 10, Done: 2},
	}))

	got, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "w9", got[0].ID)
	assert.Empty(t, got[0].History)
}

func TestSQLiteStore_EmptySnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	syncedAt, err := store.LastSyncedAt(ctx)
	require.NoError(t, err)
	assert.True(t, syncedAt.IsZero())
}

func TestSQLiteStore_LastSyncedAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	require.NoError(t, store.ReplaceSnapshot(ctx, nil))

	syncedAt, err := store.LastSyncedAt(ctx)
	require.NoError(t, err)
	assert.True(t, syncedAt.After(before))
}
