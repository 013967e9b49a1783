// Package nutrition implements meal logging and same-day aggregation.
package nutrition

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"nutrition-log/internal/models"
)

// Sentinel errors classified by the transport layer.
var (
	// ErrStorage wraps every failure coming from the entry store.
	ErrStorage = errors.New("storage failure")
	// ErrNameRequired is returned when a read has no name.
	ErrNameRequired = errors.New("name is required")
)

// DateLayout is the calendar-date format reported with daily summaries.
const DateLayout = "2006-01-02"

type entryStore interface {
	InsertEntry(ctx context.Context, e models.Entry) ([]models.Entry, error)
	ListEntries(ctx context.Context, name string, from, to time.Time) ([]models.Entry, error)
}

type mealExtractor interface {
	Extract(ctx context.Context, text string) (*models.Extraction, error)
}

// Service logs meals and summarizes a day of entries.
type Service struct {
	store     entryStore
	extractor mealExtractor
	log       *zap.Logger
	now       func() time.Time
}

// NewService creates a new nutrition service.
func NewService(
	log *zap.Logger,
	store entryStore,
	extractor mealExtractor,
) *Service {
	return &Service{
		store:     store,
		extractor: extractor,
		log:       log.With(zap.String("service", "nutrition")),
		now:       time.Now,
	}
}

// DayWindow returns the inclusive bounds of the UTC calendar day holding now,
// at millisecond resolution: 00:00:00.000 through 23:59:59.999.
func DayWindow(now time.Time) (start, end time.Time) {
	y, m, d := now.UTC().Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	end = start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// Aggregate sums calories and protein over entries, counting nulls as zero.
func Aggregate(entries []models.Entry) models.Totals {
	totals := models.Totals{Count: len(entries)}
	for _, e := range entries {
		if e.Calories != nil {
			totals.Calories += *e.Calories
		}
		if e.Protein != nil {
			totals.Protein += *e.Protein
		}
	}
	return totals
}
