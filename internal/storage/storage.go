// Package storage persists nutrition entries in the users table. Three
// backends share one contract: the hosted Supabase REST API, a direct
// PostgreSQL pool, and a local SQLite file.
package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"nutrition-log/internal/config"
	"nutrition-log/internal/metrics"
	"nutrition-log/internal/models"
)

// Table is the relational table holding entries.
const Table = "users"

var entryColumns = []string{"name", "calories", "protein", "created_at"}

// Store is the persistence contract used by the nutrition service.
type Store interface {
	// InsertEntry stores e and returns the inserted rows as the backend sees them.
	InsertEntry(ctx context.Context, e models.Entry) ([]models.Entry, error)
	// ListEntries returns entries for name with from <= created_at <= to,
	// newest first.
	ListEntries(ctx context.Context, name string, from, to time.Time) ([]models.Entry, error)
	Ping(ctx context.Context) error
	Close() error
	Driver() string
}

// Open builds the Store selected by cfg.Driver, applying migrations for the
// SQL backends when cfg.Migrate is set. The result is instrumented.
func Open(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (Store, error) {
	log = log.With(zap.String("component", "storage"), zap.String("driver", cfg.Driver))

	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverSupabase:
		store, err = OpenSupabase(cfg)
	case config.DriverPostgres:
		store, err = OpenPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		store, err = OpenSQLite(ctx, cfg.SQLitePath, cfg.Migrate, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	log.Info("entry store ready", zap.String("table", Table))
	return WithMetrics(store), nil
}

// insertQuery builds the shared INSERT ... RETURNING statement.
func insertQuery(ph sq.PlaceholderFormat, e models.Entry, createdAt any) (string, []any, error) {
	return sq.Insert(Table).
		Columns(entryColumns...).
		Values(e.Name, e.Calories, e.Protein, createdAt).
		Suffix("RETURNING name, calories, protein, created_at").
		PlaceholderFormat(ph).
		ToSql()
}

// listQuery builds the shared same-window SELECT.
func listQuery(ph sq.PlaceholderFormat, name string, from, to any) (string, []any, error) {
	return sq.Select(entryColumns...).
		From(Table).
		Where(sq.Eq{"name": name}).
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.LtOrEq{"created_at": to}).
		OrderBy("created_at DESC").
		PlaceholderFormat(ph).
		ToSql()
}

type instrumented struct {
	next Store
}

// WithMetrics records count and latency of every store operation.
func WithMetrics(next Store) Store {
	return &instrumented{next: next}
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.RecordStorage(i.next.Driver(), op, outcome, time.Since(start))
}

func (i *instrumented) InsertEntry(ctx context.Context, e models.Entry) ([]models.Entry, error) {
	start := time.Now()
	out, err := i.next.InsertEntry(ctx, e)
	i.observe("insert", start, err)
	return out, err
}

func (i *instrumented) ListEntries(ctx context.Context, name string, from, to time.Time) ([]models.Entry, error) {
	start := time.Now()
	out, err := i.next.ListEntries(ctx, name, from, to)
	i.observe("list", start, err)
	return out, err
}

func (i *instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := i.next.Ping(ctx)
	i.observe("ping", start, err)
	return err
}

func (i *instrumented) Close() error   { return i.next.Close() }
func (i *instrumented) Driver() string { return i.next.Driver() }
