package nutrition

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nutrition-log/internal/models"
)

// LogMealInput is a free-text meal description for one name.
type LogMealInput struct {
	Name string
	Text string
}

// LogMealResult carries the model's answer (nil when it declined) and the
// rows the store reports as inserted.
type LogMealResult struct {
	Answer *models.Extraction
	Data   []models.Entry
}

// LogMeal extracts nutrition from the text, then inserts one entry stamped
// with the current UTC time at millisecond precision, the resolution of
// DayWindow. The insert happens only after extraction
// completes; an extraction fault aborts without persisting anything.
func (s *Service) LogMeal(ctx context.Context, input LogMealInput) (*LogMealResult, error) {
	answer, err := s.extractor.Extract(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("extract nutrition: %w", err)
	}

	entry := models.Entry{
		Name:      input.Name,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if answer != nil {
		entry.Calories = models.Float(answer.Calories)
		entry.Protein = models.Float(answer.Protein)
	}

	rows, err := s.store.InsertEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("%w: insert entry: %w", ErrStorage, err)
	}
	if rows == nil {
		rows = []models.Entry{}
	}

	fields := []zap.Field{
		zap.String("name", input.Name),
		zap.Bool("answered", answer != nil),
	}
	if answer != nil {
		fields = append(fields, zap.Float64("calories", answer.Calories), zap.Float64("protein", answer.Protein))
	}
	s.log.Info("meal logged", fields...)

	return &LogMealResult{Answer: answer, Data: rows}, nil
}
