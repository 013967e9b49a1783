package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"nutrition-log/internal/middleware"
	"nutrition-log/internal/nutrition"
)

// Client-facing error messages. Internal details never leave the process.
const (
	msgInvalidJSON  = "Invalid JSON"
	msgNameRequired = "Name parameter is required"
	msgDatabase     = "Database error"
	msgInternal     = "Internal server error"
)

var (
	errTrailingData = errors.New("unexpected data after JSON value")
	errNullBody     = errors.New("request body is null")
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads exactly one non-null JSON value from the capped request
// body into v.
func (s *NutritionLogServer) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	if bytes.Equal(raw, []byte("null")) {
		return errNullBody
	}
	return json.Unmarshal(raw, v)
}

// classify maps a service error to its status code and client message.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, nutrition.ErrNameRequired):
		return http.StatusBadRequest, msgNameRequired
	case errors.Is(err, nutrition.ErrStorage):
		return http.StatusInternalServerError, msgDatabase
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// writeServiceError logs server faults and writes the classified envelope.
func (s *NutritionLogServer) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.Error(op+" failed",
			zap.Error(err),
			zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
		)
	}
	writeError(w, status, msg)
}
