package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"nutrition-log/internal/config"
	"nutrition-log/internal/models"
)

func newTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()

	path := filepath.Join(t.TempDir(), "entries.db")
	s, err := OpenSQLite(context.Background(), path, true, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_InsertReturnsRow(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 14, 8, 30, 0, 123456789, time.UTC)

	rows, err := s.InsertEntry(ctx, models.Entry{
		Name:      "alice",
		Calories:  models.Float(220),
		Protein:   models.Float(14),
		CreatedAt: at,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "alice", rows[0].Name)
	require.NotNil(t, rows[0].Calories)
	assert.Equal(t, 220.0, *rows[0].Calories)
	require.NotNil(t, rows[0].Protein)
	assert.Equal(t, 14.0, *rows[0].Protein)
	assert.True(t, at.Equal(rows[0].CreatedAt))
	assert.Equal(t, time.UTC, rows[0].CreatedAt.Location())
}

func TestSQLite_NullNutrients(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	_, err := s.InsertEntry(ctx, models.Entry{Name: "bob", CreatedAt: at})
	require.NoError(t, err)

	got, err := s.ListEntries(ctx, "bob", at.Add(-time.Hour), at.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Calories)
	assert.Nil(t, got[0].Protein)
}

func TestSQLite_ListWindowAndOrder(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	end := day.Add(24*time.Hour - time.Millisecond)

	insert := func(name string, at time.Time, kcal float64) {
		t.Helper()
		_, err := s.InsertEntry(ctx, models.Entry{Name: name, Calories: models.Float(kcal), Protein: models.Float(1), CreatedAt: at})
		require.NoError(t, err)
	}

	insert("alice", day.Add(-time.Millisecond), 1) // previous day
	insert("alice", day, 2)                        // first instant
	insert("alice", day.Add(12*time.Hour), 3)      // midday
	insert("alice", end, 4)                        // last instant
	insert("alice", day.Add(24*time.Hour), 5)      // next day
	insert("carol", day.Add(6*time.Hour), 6)       // other name

	got, err := s.ListEntries(ctx, "alice", day, end)
	require.NoError(t, err)
	require.Len(t, got, 3)

	var kcal []float64
	for _, e := range got {
		kcal = append(kcal, *e.Calories)
	}
	assert.Equal(t, []float64{4, 3, 2}, kcal)
}

func TestSQLite_ListEmpty(t *testing.T) {
	s := newTestSQLite(t)
	now := time.Now().UTC()

	got, err := s.ListEntries(context.Background(), "nobody", now.Add(-time.Hour), now)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSQLite_WithoutMigrationsFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.db")
	s, err := OpenSQLite(context.Background(), path, false, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.InsertEntry(context.Background(), models.Entry{Name: "x", CreatedAt: time.Now()})
	require.Error(t, err)
}

func TestOpen_SQLiteIsInstrumented(t *testing.T) {
	cfg := config.StorageConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "open.db"),
		Migrate:    true,
	}

	store, err := Open(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*instrumented)
	assert.True(t, ok)
	assert.Equal(t, config.DriverSQLite, store.Driver())
	require.NoError(t, store.Ping(context.Background()))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Driver: "mongo"}, zaptest.NewLogger(t))
	require.Error(t, err)
}
