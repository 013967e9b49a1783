// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"nutrition-log/internal/config"
	"nutrition-log/internal/models"
)

// sqliteTimeLayout is fixed-width so TEXT comparison orders like time.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

type SQLiteStorage struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at dbPath.
func OpenSQLite(ctx context.Context, dbPath string, runMigrations bool, log *zap.Logger) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; also keeps ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if runMigrations {
		if err := migrate(ctx, db, goose.DialectSQLite3, "sqlite", log); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Driver() string { return config.DriverSQLite }

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStorage) InsertEntry(ctx context.Context, e models.Entry) ([]models.Entry, error) {
	query, args, err := insertQuery(sq.Question, e, formatSQLiteTime(e.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}
	return scanSQLiteEntries(rows)
}

func (s *SQLiteStorage) ListEntries(ctx context.Context, name string, from, to time.Time) ([]models.Entry, error) {
	query, args, err := listQuery(sq.Question, name, formatSQLiteTime(from), formatSQLiteTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	return scanSQLiteEntries(rows)
}

func scanSQLiteEntries(rows *sql.Rows) ([]models.Entry, error) {
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var (
			e                 models.Entry
			calories, protein sql.NullFloat64
			createdAtStr      string
		)
		if err := rows.Scan(&e.Name, &calories, &protein, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}

		createdAt, err := time.Parse(sqliteTimeLayout, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		e.CreatedAt = createdAt.UTC()
		if calories.Valid {
			e.Calories = models.Float(calories.Float64)
		}
		if protein.Valid {
			e.Protein = models.Float(protein.Float64)
		}

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}

	return entries, nil
}

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}
