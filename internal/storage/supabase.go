package storage

import (
	"context"
	"fmt"
	"time"

	"nutrition-log/internal/config"
	"nutrition-log/internal/models"
	"nutrition-log/internal/postgrest"
)

// filterTimeLayout matches the millisecond precision of the day window.
const filterTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Supabase stores entries through the project's PostgREST API.
type Supabase struct {
	client *postgrest.Client
}

// OpenSupabase builds a Supabase store from the configured URL and key.
func OpenSupabase(cfg config.StorageConfig) (*Supabase, error) {
	client, err := postgrest.New(postgrest.Config{
		URL:    cfg.SupabaseURL,
		APIKey: cfg.SupabaseKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create postgrest client: %w", err)
	}
	return NewSupabase(client), nil
}

func NewSupabase(client *postgrest.Client) *Supabase {
	return &Supabase{client: client}
}

type supabaseRow struct {
	Name      string   `json:"name"`
	Calories  *float64 `json:"calories"`
	Protein   *float64 `json:"protein"`
	CreatedAt string   `json:"created_at"`
}

func (s *Supabase) Driver() string { return config.DriverSupabase }

func (s *Supabase) Close() error { return nil }

// Ping issues a one-row select against the entries table.
func (s *Supabase) Ping(ctx context.Context) error {
	resp, err := s.client.From(Table).Select("name").Limit(1).Execute(ctx)
	if err != nil {
		return err
	}
	return resp.Error()
}

func (s *Supabase) InsertEntry(ctx context.Context, e models.Entry) ([]models.Entry, error) {
	row := supabaseRow{
		Name:      e.Name,
		Calories:  e.Calories,
		Protein:   e.Protein,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339Nano),
	}

	resp, err := s.client.From(Table).
		Select("name,calories,protein,created_at").
		Insert(ctx, []supabaseRow{row})
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	if err := resp.Error(); err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	return decodeSupabaseRows(resp)
}

func (s *Supabase) ListEntries(ctx context.Context, name string, from, to time.Time) ([]models.Entry, error) {
	resp, err := s.client.From(Table).
		Select("name,calories,protein,created_at").
		Eq("name", name).
		Gte("created_at", from.UTC().Format(filterTimeLayout)).
		Lte("created_at", to.UTC().Format(filterTimeLayout)).
		Order("created_at", false).
		Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	if err := resp.Error(); err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	return decodeSupabaseRows(resp)
}

func decodeSupabaseRows(resp *postgrest.Response) ([]models.Entry, error) {
	var rows []supabaseRow
	if err := resp.JSON(&rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}

	entries := make([]models.Entry, 0, len(rows))
	for _, r := range rows {
		createdAt, err := parseTimestamp(r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", r.CreatedAt, err)
		}
		entries = append(entries, models.Entry{
			Name:      r.Name,
			Calories:  r.Calories,
			Protein:   r.Protein,
			CreatedAt: createdAt,
		})
	}
	return entries, nil
}

// parseTimestamp accepts timestamptz output and, for columns without a
// zone, treats the value as UTC.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
