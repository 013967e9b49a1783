// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"go.uber.org/zap"

	"nutrition-log/internal/nutrition"
)

// MCP tool names served at POST /mcp.
const (
	toolLogName           = "log_name"
	toolLogNutrition      = "log_nutrition"
	toolGetDailyNutrition = "get_daily_nutrition"
)

type LogNameParams struct {
	Name any `json:"name" description:"Name to write to the service log"`
}

type LogNutritionParams struct {
	Name string `json:"name" description:"Who ate the meal"`
	Text string `json:"text" description:"Free-text description of the meal eaten"`
}

type GetDailyNutritionParams struct {
	Name string `json:"name" description:"Whose totals to report for the current UTC day"`
}

// errInvalidParams marks argument decoding failures (reported as 400).
var errInvalidParams = errors.New("invalid parameters")

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

func (s *NutritionLogServer) tools() map[string]toolHandler {
	return map[string]toolHandler{
		toolLogName:           s.handleLogNameTool,
		toolLogNutrition:      s.handleLogNutritionTool,
		toolGetDailyNutrition: s.handleGetDailyNutritionTool,
	}
}

// handleMCP routes a CallToolRequest to its tool and answers with a
// CallToolResult carrying the JSON result as text content.
func (s *NutritionLogServer) handleMCP(w http.ResponseWriter, r *http.Request) {
	var request protocol.CallToolRequest
	if err := s.decodeJSON(w, r, &request); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	handler, ok := s.tools()[request.Name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown tool: %s", request.Name))
		return
	}

	result, err := handler(r.Context(), &request)
	if err != nil {
		if errors.Is(err, errInvalidParams) {
			writeError(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		s.writeServiceError(w, r, "tool "+request.Name, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// extractParams converts the request arguments into target.
func extractParams(req *protocol.CallToolRequest, target any) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: marshal arguments: %w", errInvalidParams, err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: %w", errInvalidParams, err)
	}

	return nil
}

func (s *NutritionLogServer) handleLogNameTool(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LogNameParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	s.log.Info("name received", zap.Any("name", params.Name), zap.String("via", "mcp"))
	return createJSONResponse(successResponse{Success: true})
}

func (s *NutritionLogServer) handleLogNutritionTool(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LogNutritionParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	res, err := s.service.LogMeal(ctx, nutrition.LogMealInput{Name: params.Name, Text: params.Text})
	if err != nil {
		return nil, err
	}

	return createJSONResponse(logNutritionResponse{
		Success: true,
		Answer:  res.Answer,
		Data:    res.Data,
	})
}

func (s *NutritionLogServer) handleGetDailyNutritionTool(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetDailyNutritionParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	summary, err := s.service.DailySummary(ctx, params.Name)
	if err != nil {
		return nil, err
	}

	return createJSONResponse(newDailyNutritionResponse(summary))
}

func createJSONResponse(data any) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
