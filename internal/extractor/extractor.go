// Package extractor turns free-text meal descriptions into calorie and
// protein estimates using a hosted text-completion model.
package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"nutrition-log/internal/config"
	"nutrition-log/internal/metrics"
	"nutrition-log/internal/models"
)

// SystemPrompt frames the model as a calorie-counting aide.
const SystemPrompt = `You are a helpful assistant that counts calories and protein.
The user describes what they ate. Estimate the total calories (kcal) and the total protein (grams)
for everything described, using common portion sizes when quantities are not given.
Respond only with the structured result.`

const (
	schemaName        = "nutrition"
	schemaDescription = "Estimated calories (kcal) and protein (grams) for the described meal."
)

// nutritionProperties is the JSON Schema property set shared by every provider.
var nutritionProperties = map[string]any{
	"calories": map[string]any{
		"type":        "number",
		"description": "Total calories in kcal.",
	},
	"protein": map[string]any{
		"type":        "number",
		"description": "Total protein in grams.",
	},
}

var nutritionRequired = []string{"calories", "protein"}

// nutritionSchema is the strict response schema: exactly two required numbers.
var nutritionSchema = map[string]any{
	"type":                 "object",
	"properties":           nutritionProperties,
	"required":             nutritionRequired,
	"additionalProperties": false,
}

// Extractor produces a structured nutrition estimate for a meal description.
// A nil Extraction with a nil error means the model declined or answered
// outside the schema.
type Extractor interface {
	Extract(ctx context.Context, text string) (*models.Extraction, error)
	Provider() string
}

// New builds the Extractor selected by cfg.Provider.
func New(cfg config.ExtractorConfig) (Extractor, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(cfg), nil
	case config.ProviderAnthropic:
		return NewAnthropic(cfg), nil
	default:
		return nil, fmt.Errorf("unknown extractor provider %q", cfg.Provider)
	}
}

// parseExtraction reads the calories/protein pair out of model output.
// Anything that is not a JSON object with two numeric fields yields nil.
func parseExtraction(raw string) *models.Extraction {
	body, ok := extractJSON(raw)
	if !ok || !gjson.Valid(body) {
		return nil
	}

	calories := gjson.Get(body, "calories")
	protein := gjson.Get(body, "protein")
	if calories.Type != gjson.Number || protein.Type != gjson.Number {
		return nil
	}

	return &models.Extraction{
		Calories: calories.Float(),
		Protein:  protein.Float(),
	}
}

// extractJSON returns the text between the first '{' and the last '}'.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

type instrumented struct {
	next Extractor
}

// WithMetrics records call counts and latency for every Extract call.
func WithMetrics(next Extractor) Extractor {
	return &instrumented{next: next}
}

func (i *instrumented) Provider() string { return i.next.Provider() }

func (i *instrumented) Extract(ctx context.Context, text string) (*models.Extraction, error) {
	start := time.Now()
	out, err := i.next.Extract(ctx, text)

	outcome := metrics.OutcomeOK
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case out == nil:
		outcome = metrics.OutcomeDeclined
	}
	metrics.RecordExtraction(i.next.Provider(), outcome, time.Since(start))

	return out, err
}
