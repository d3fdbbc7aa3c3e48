package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", ".leapdoi", "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())

	version, err := store.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	require.NoError(t, store.Close())

	// reopening applies no migrations twice
	store, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestRecordAndGetRun(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	started := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	run := &Run{
		ID:          "run-1",
		Kind:        "unit",
		Combined:    "combined.xlsx",
		Schedule:    "schedule.xlsx",
		Output:      "Unit_Based_DOI.xlsx",
		Status:      RunStatusUnreconciled,
		TotalNRI:    "0.90000000",
		Difference:  "-0.10000000",
		StartedAt:   started,
		CompletedAt: started.Add(1500 * time.Millisecond),
	}
	require.NoError(t, store.RecordRun(ctx, run))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Kind, got.Kind)
	assert.Equal(t, run.Schedule, got.Schedule)
	assert.Equal(t, RunStatusUnreconciled, got.Status)
	assert.Equal(t, "-0.10000000", got.Difference)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, 1500*time.Millisecond, got.Duration())
}

func TestRecordRun_FillsDefaults(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	run := &Run{Kind: "tract", Combined: "c.xlsx", Status: RunStatusFailed, Error: "missing sheet"}
	require.NoError(t, store.RecordRun(ctx, run))
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.StartedAt.IsZero())

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "missing sheet", got.Error)
}

func TestGetRun_NotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetRun(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestListRuns_NewestFirst(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.RecordRun(ctx, &Run{
			ID:        id,
			Kind:      "tract",
			Combined:  "c.xlsx",
			Status:    RunStatusReconciled,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "a", runs[2].ID)

	runs, err = store.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRecordRun_DatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO runs").WillReturnError(errors.New("disk full"))

	store := NewWithDB(db)
	err = store.RecordRun(context.Background(), &Run{Kind: "tract", Combined: "c.xlsx", Status: RunStatusReconciled})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record run")
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRuns_BadTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"id", "kind", "combined", "schedule", "output", "status", "total_nri", "difference", "error", "started_at", "completed_at"}).
		AddRow("x", "tract", "c.xlsx", "", "", "reconciled", "1", "", "", "yesterday", "today")
	mock.ExpectQuery("SELECT (.+) FROM runs").WillReturnRows(rows)

	_, err = NewWithDB(db).ListRuns(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad started_at")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClosedStore(t *testing.T) {
	store := &SQLiteStore{}
	assert.Error(t, store.RecordRun(context.Background(), &Run{}))
	_, err := store.ListRuns(context.Background(), 1)
	assert.Error(t, err)
	assert.NoError(t, store.Close())
}
