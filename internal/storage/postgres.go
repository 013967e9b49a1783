package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"nutrition-log/internal/config"
	"nutrition-log/internal/models"
)

// querier is the subset of *pgxpool.Pool the store needs.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// Postgres stores entries through a pgx connection pool.
type Postgres struct {
	q querier
}

// NewPostgres wraps an existing pool (or a mock of one).
func NewPostgres(q querier) *Postgres {
	return &Postgres{q: q}
}

// OpenPostgres creates the pool from cfg and applies migrations when enabled.
func OpenPostgres(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*Postgres, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Migrate {
		db := stdlib.OpenDBFromPool(pool)
		err := migrate(ctx, db, goose.DialectPostgres, "postgres", log)
		db.Close()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	return NewPostgres(pool), nil
}

// NewPool creates a PostgreSQL connection pool configured from StorageConfig
// and pings it so a bad DSN fails at startup.
func NewPool(ctx context.Context, cfg config.StorageConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

func (p *Postgres) Driver() string { return config.DriverPostgres }

func (p *Postgres) Ping(ctx context.Context) error { return p.q.Ping(ctx) }

func (p *Postgres) Close() error {
	p.q.Close()
	return nil
}

func (p *Postgres) InsertEntry(ctx context.Context, e models.Entry) ([]models.Entry, error) {
	query, args, err := insertQuery(sq.Dollar, e, e.CreatedAt.UTC())
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	rows, err := p.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	return scanPgEntries(rows)
}

func (p *Postgres) ListEntries(ctx context.Context, name string, from, to time.Time) ([]models.Entry, error) {
	query, args, err := listQuery(sq.Dollar, name, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := p.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	return scanPgEntries(rows)
}

func scanPgEntries(rows pgx.Rows) ([]models.Entry, error) {
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.Name, &e.Calories, &e.Protein, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}

	return entries, nil
}
