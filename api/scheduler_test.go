package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/finance-engine/cache"
	"github.com/warp/finance-engine/history"
	"github.com/warp/finance-engine/store/sqlite"
)

type failingStore struct {
	history.Store
}

func (failingStore) DeleteBefore(context.Context, time.Time) (int, error) {
	return 0, errors.New("disk full")
}

func TestRetentionScheduler_Prunes(t *testing.T) {
	// GIVEN: One old and one fresh calculation
	ctx := context.Background()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{now.AddDate(0, 0, -100), now.Add(-time.Hour)} {
		rec, err := history.NewRecord("inflation", []byte(`{}`), nil, at)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, rec))
	}

	rs := NewRetentionScheduler(store, 90*24*time.Hour)
	rs.now = func() time.Time { return now }

	// WHEN: Running a pass
	removed, err := rs.RunNow(ctx)

	// THEN: The old one is removed and the run recorded
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	runs, err := store.GetRetentionRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Removed)
	assert.True(t, now.AddDate(0, 0, -90).Equal(runs[0].Cutoff))
}

func TestRetentionScheduler_PurgesMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Nanosecond)
	require.NoError(t, c.Set(ctx, "k", "v"))
	time.Sleep(time.Millisecond)

	rs := NewRetentionScheduler(history.NewMemory(), time.Hour)
	rs.Cache = c

	_, err := rs.RunNow(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestRetentionScheduler_StoreError(t *testing.T) {
	rs := NewRetentionScheduler(failingStore{history.NewMemory()}, time.Hour)

	_, err := rs.RunNow(context.Background())

	assert.ErrorContains(t, err, "disk full")
}

func TestRetentionScheduler_StartStop(t *testing.T) {
	disabled := NewRetentionScheduler(history.NewMemory(), 0)
	assert.False(t, disabled.Enabled)
	disabled.Start()
	disabled.Stop()

	rs := NewRetentionScheduler(history.NewMemory(), time.Hour)
	rs.CheckInterval = time.Hour
	rs.Start()
	rs.Stop()
	// restartable
	rs.Start()
	rs.Stop()
}

func TestRetentionScheduler_NextRunTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rs := NewRetentionScheduler(history.NewMemory(), time.Hour)
	rs.CheckInterval = 30 * time.Minute
	rs.now = func() time.Time { return now }

	assert.True(t, rs.NextRunTime().IsZero(), "not running")

	rs.Start()
	assert.Equal(t, now.Add(30*time.Minute), rs.NextRunTime())

	rs.Stop()
	assert.True(t, rs.NextRunTime().IsZero(), "stopped")
}
