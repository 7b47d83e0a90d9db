package metrics

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStoreWithPath(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestIncrementAndTotalByMode(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Increment(ModeQuery))
	require.NoError(t, store.Increment(ModeQuery))
	require.NoError(t, store.Increment(ModeChat))

	total, err := store.TotalByMode(ModeQuery)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	total, err = store.TotalByMode(ModeChat)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	total, err = store.TotalByMode(ModeIngest)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestAllTotalsIncludesZeroModes(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Increment(ModeIngest))

	totals, err := store.AllTotals()
	require.NoError(t, err)
	assert.Equal(t, int64(0), totals[ModeQuery])
	assert.Equal(t, int64(0), totals[ModeChat])
	assert.Equal(t, int64(1), totals[ModeIngest])
}

func TestCountByDate(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Increment(ModeQuery))

	today := time.Now().Format("2006-01-02")
	count, err := store.CountByDate(ModeQuery, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = store.CountByDate(ModeQuery, "1999-01-01")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stats.db")

	store, err := NewStoreWithPath(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Increment(ModeChat))
	require.NoError(t, store.Close())

	reopened, err := NewStoreWithPath(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	total, err := reopened.TotalByMode(ModeChat)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
