package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"nutrition-log/internal/models"
	"nutrition-log/internal/nutrition"
)

// toolText returns the text content of a CallToolResult body.
func toolText(t *testing.T, body string) string {
	t.Helper()
	content := gjson.Get(body, "content.0")
	require.True(t, content.Exists(), body)
	assert.Equal(t, "text", content.Get("type").String())
	return content.Get("text").String()
}

func TestMCP_LogName(t *testing.T) {
	srv, logs := newTestServer(t, &fakeService{}, fakePinger{})

	rec := do(t, srv.Handler(), http.MethodPost, "/mcp", `{"name":"log_name","arguments":{"name":"alice"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, toolText(t, rec.Body.String()))
	assert.Equal(t, 1, logs.FilterMessage("name received").Len())
}

func TestMCP_LogNutrition(t *testing.T) {
	var got nutrition.LogMealInput
	svc := &fakeService{
		logMeal: func(ctx context.Context, in nutrition.LogMealInput) (*nutrition.LogMealResult, error) {
			got = in
			return &nutrition.LogMealResult{
				Answer: &models.Extraction{Calories: 300, Protein: 25},
				Data:   []models.Entry{{Name: in.Name, Calories: models.Float(300), Protein: models.Float(25)}},
			}, nil
		},
	}
	srv, _ := newTestServer(t, svc, fakePinger{})

	rec := do(t, srv.Handler(), http.MethodPost, "/mcp",
		`{"name":"log_nutrition","arguments":{"name":"alice","text":"chicken salad"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, nutrition.LogMealInput{Name: "alice", Text: "chicken salad"}, got)
	text := toolText(t, rec.Body.String())
	assert.True(t, gjson.Get(text, "success").Bool())
	assert.Equal(t, 300.0, gjson.Get(text, "answer.calories").Float())
}

func TestMCP_GetDailyNutrition(t *testing.T) {
	svc := &fakeService{
		dailySummary: func(ctx context.Context, name string) (*models.DailySummary, error) {
			return &models.DailySummary{
				Name:    name,
				Date:    "2026-10-14",
				Totals:  models.Totals{Calories: 500, Protein: 30, Count: 2},
				Entries: []models.Entry{{}, {}},
			}, nil
		},
	}
	srv, _ := newTestServer(t, svc, fakePinger{})

	rec := do(t, srv.Handler(), http.MethodPost, "/mcp",
		`{"name":"get_daily_nutrition","arguments":{"name":"alice"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	text := toolText(t, rec.Body.String())
	assert.Equal(t, 500.0, gjson.Get(text, "totalCaloriesToday").Float())
	assert.Equal(t, int64(2), gjson.Get(text, "entriesCount").Int())
}

func TestMCP_Errors(t *testing.T) {
	svc := &fakeService{
		dailySummary: func(ctx context.Context, name string) (*models.DailySummary, error) {
			if name == "" {
				return nil, nutrition.ErrNameRequired
			}
			return nil, fmt.Errorf("%w: %w", nutrition.ErrStorage, errors.New("timeout"))
		},
	}
	srv, _ := newTestServer(t, svc, fakePinger{})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "bad json", body: `{"name":`, wantStatus: http.StatusBadRequest, wantError: "Invalid JSON"},
		{name: "unknown tool", body: `{"name":"delete_all","arguments":{}}`, wantStatus: http.StatusNotFound, wantError: "Unknown tool: delete_all"},
		{name: "bad arguments", body: `{"name":"log_nutrition","arguments":{"name":7}}`, wantStatus: http.StatusBadRequest, wantError: "Invalid JSON"},
		{name: "missing name", body: `{"name":"get_daily_nutrition","arguments":{}}`, wantStatus: http.StatusBadRequest, wantError: "Name parameter is required"},
		{name: "storage", body: `{"name":"get_daily_nutrition","arguments":{"name":"alice"}}`, wantStatus: http.StatusInternalServerError, wantError: "Database error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv.Handler(), http.MethodPost, "/mcp", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}
