package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"nutrition-log/internal/models"
	"nutrition-log/internal/nutrition"
)

type successResponse struct {
	Success bool `json:"success"`
}

type logNutritionRequest struct {
	Name looseString `json:"name"`
	Text looseString `json:"text"`
}

// looseString accepts any JSON value. Strings are taken as is, null is
// empty, numbers and booleans use their literal text, and objects or arrays
// keep their compact JSON encoding.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch t := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = looseString(t)
	case float64:
		*s = looseString(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		*s = looseString(strconv.FormatBool(t))
	default:
		compact, err := json.Marshal(t)
		if err != nil {
			return err
		}
		*s = looseString(compact)
	}
	return nil
}

type logNutritionResponse struct {
	Success bool               `json:"success"`
	Answer  *models.Extraction `json:"answer"`
	Data    []models.Entry     `json:"data"`
}

type entryView struct {
	Calories  *float64  `json:"calories"`
	Protein   *float64  `json:"protein"`
	CreatedAt time.Time `json:"created_at"`
}

type dailyNutritionResponse struct {
	Success            bool        `json:"success"`
	Name               string      `json:"name"`
	Date               string      `json:"date"`
	TotalCaloriesToday float64     `json:"totalCaloriesToday"`
	TotalProteinToday  float64     `json:"totalProteinToday"`
	EntriesCount       int         `json:"entriesCount"`
	Entries            []entryView `json:"entries"`
}

// handleLogName writes the posted name to the log and acknowledges. Any
// JSON value except null is accepted; name is read only from objects.
func (s *NutritionLogServer) handleLogName(w http.ResponseWriter, r *http.Request) {
	var body any
	if err := s.decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	var name any
	if obj, ok := body.(map[string]any); ok {
		name = obj["name"]
	}

	s.log.Info("name received", zap.Any("name", name))
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// handleGetNutrition reports today's totals for ?name=.
func (s *NutritionLogServer) handleGetNutrition(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.DailySummary(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		s.writeServiceError(w, r, "daily summary", err)
		return
	}

	writeJSON(w, http.StatusOK, newDailyNutritionResponse(summary))
}

// handlePostNutrition extracts and stores one meal.
func (s *NutritionLogServer) handlePostNutrition(w http.ResponseWriter, r *http.Request) {
	var req logNutritionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	res, err := s.service.LogMeal(r.Context(), nutrition.LogMealInput{Name: string(req.Name), Text: string(req.Text)})
	if err != nil {
		s.writeServiceError(w, r, "log meal", err)
		return
	}

	writeJSON(w, http.StatusOK, logNutritionResponse{
		Success: true,
		Answer:  res.Answer,
		Data:    res.Data,
	})
}

func newDailyNutritionResponse(sum *models.DailySummary) dailyNutritionResponse {
	entries := make([]entryView, 0, len(sum.Entries))
	for _, e := range sum.Entries {
		entries = append(entries, entryView{
			Calories:  e.Calories,
			Protein:   e.Protein,
			CreatedAt: e.CreatedAt,
		})
	}

	return dailyNutritionResponse{
		Success:            true,
		Name:               sum.Name,
		Date:               sum.Date,
		TotalCaloriesToday: sum.Totals.Calories,
		TotalProteinToday:  sum.Totals.Protein,
		EntriesCount:       sum.Totals.Count,
		Entries:            entries,
	}
}
