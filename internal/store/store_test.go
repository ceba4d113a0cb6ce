package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "dir", "failed_events.db")

	st, err := Open(context.Background(), "sqlite", dsn)
	require.NoError(t, err)
	defer st.Close()

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestOpen_Idempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "failed_events.db")
	ctx := context.Background()

	st, err := Open(ctx, "sqlite", dsn)
	require.NoError(t, err)
	_, err = st.InsertFailure(ctx, []byte(`{"eventId":"a"}`), "HTTP 500")
	require.NoError(t, err)
	require.NoError(t, st.Close())

	// Reopening must not recreate the table or lose rows.
	st, err = Open(ctx, "sqlite", dsn)
	require.NoError(t, err)
	defer st.Close()

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInsertFailure_StartsAtZeroRetries(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, err := st.InsertFailure(ctx, []byte(`{"eventId":"e1"}`), "HTTP 500: boom")
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	rows, err := st.ListRetryable(ctx, 3)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, id, rows[0].ID)
	assert.Equal(t, 0, rows[0].RetryCount)
	assert.Equal(t, "HTTP 500: boom", rows[0].FailureReason)
	assert.Equal(t, []byte(`{"eventId":"e1"}`), rows[0].EventData)
	assert.False(t, rows[0].CreatedAt.IsZero())
}

func TestInsertFailure_IDsAreMonotonic(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		id, err := st.InsertFailure(ctx, []byte(`{}`), "r")
		require.NoError(t, err)
		assert.Greater(t, id, last)
		last = id
	}
}

func TestListRetryable_OldestFirst(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first, err := st.InsertFailure(ctx, []byte(`{"eventId":"old"}`), "r1")
	require.NoError(t, err)
	second, err := st.InsertFailure(ctx, []byte(`{"eventId":"new"}`), "r2")
	require.NoError(t, err)

	rows, err := st.ListRetryable(ctx, 3)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, first, rows[0].ID)
	assert.Equal(t, second, rows[1].ID)
}

func TestListRetryable_ExcludesRowsAtCeiling(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	maxRetries := 3

	id, err := st.InsertFailure(ctx, []byte(`{}`), "r")
	require.NoError(t, err)

	// Below the ceiling the row keeps coming back.
	for i := 0; i < maxRetries-1; i++ {
		rows, err := st.ListRetryable(ctx, maxRetries)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, i, rows[0].RetryCount)
		require.NoError(t, st.IncrementRetry(ctx, id, "again"))
	}

	// retry_count == maxRetries-1: one last attempt is allowed.
	rows, err := st.ListRetryable(ctx, maxRetries)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, maxRetries-1, rows[0].RetryCount)
	require.NoError(t, st.IncrementRetry(ctx, id, "final"))

	// At the ceiling the row is dead: excluded from retries but still stored.
	rows, err = st.ListRetryable(ctx, maxRetries)
	require.NoError(t, err)
	assert.Empty(t, rows)

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIncrementRetry_UpdatesReason(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, err := st.InsertFailure(ctx, []byte(`{}`), "HTTP 500: first")
	require.NoError(t, err)

	require.NoError(t, st.IncrementRetry(ctx, id, "request failed: connection refused"))

	rows, err := st.ListRetryable(ctx, 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].RetryCount)
	assert.Equal(t, "request failed: connection refused", rows[0].FailureReason)
}

func TestIncrementRetry_MissingRow(t *testing.T) {
	st := newTestStore(t)

	err := st.IncrementRetry(context.Background(), 12345, "r")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDelete_Idempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, err := st.InsertFailure(ctx, []byte(`{}`), "r")
	require.NoError(t, err)

	require.NoError(t, st.Delete(ctx, id))
	require.NoError(t, st.Delete(ctx, id)) // already gone, still no error

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCount_IncludesDeadRows(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, err := st.InsertFailure(ctx, []byte(`{}`), "r")
	require.NoError(t, err)
	_, err = st.InsertFailure(ctx, []byte(`{}`), "r")
	require.NoError(t, err)

	// Kill the first row.
	for i := 0; i < 3; i++ {
		require.NoError(t, st.IncrementRetry(ctx, id, "r"))
	}

	rows, err := st.ListRetryable(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := st.InsertFailure(ctx, []byte(`{}`), "r")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	rows, err := st.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ids[2], rows[0].ID)
	assert.Equal(t, ids[1], rows[1].ID)

	all, err := st.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestEventData_RoundTripsByteExact(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	payload := []byte(`{"eventId":"e-1","matchId":"m-1","eventType":"goal","timestamp":"2026-08-31T15:04:05Z","teamId":2,"playerId":"h15","metadata":{"action":"goal","scorer_id":"h15"}}`)
	id, err := st.InsertFailure(ctx, payload, "HTTP 500")
	require.NoError(t, err)

	rows, err := st.ListRetryable(ctx, 3)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, id, rows[0].ID)
	assert.Equal(t, payload, rows[0].EventData)
}
