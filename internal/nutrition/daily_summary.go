package nutrition

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nutrition-log/internal/models"
)

// DailySummary returns today's (UTC) entries for name, newest first, with
// their totals.
func (s *Service) DailySummary(ctx context.Context, name string) (*models.DailySummary, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	now := s.now()
	start, end := DayWindow(now)

	entries, err := s.store.ListEntries(ctx, name, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: list entries: %w", ErrStorage, err)
	}
	if entries == nil {
		entries = []models.Entry{}
	}

	totals := Aggregate(entries)
	s.log.Debug("daily summary",
		zap.String("name", name),
		zap.Int("entries", totals.Count),
	)

	return &models.DailySummary{
		Name:    name,
		Date:    start.Format(DateLayout),
		Totals:  totals,
		Entries: entries,
	}, nil
}
