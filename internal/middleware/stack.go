// Package middleware holds the HTTP middleware shared by every route.
package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"nutrition-log/internal/config"
)

// Middleware wraps an http.Handler.
type Middleware = func(http.Handler) http.Handler

// Stack returns the middleware every route runs through, outermost first.
// Recovery sits inside Logger so a recovered panic is still logged as a 500
// carrying the request id.
func Stack(log *zap.Logger, cors config.CORSConfig) []Middleware {
	return []Middleware{
		RequestID,
		Logger(log),
		Recovery(log),
		CORS(cors),
	}
}
