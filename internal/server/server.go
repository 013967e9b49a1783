// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"nutrition-log/internal/config"
	"nutrition-log/internal/metrics"
	"nutrition-log/internal/middleware"
	"nutrition-log/internal/models"
	"nutrition-log/internal/nutrition"
)

type nutritionService interface {
	LogMeal(ctx context.Context, input nutrition.LogMealInput) (*nutrition.LogMealResult, error)
	DailySummary(ctx context.Context, name string) (*models.DailySummary, error)
}

type NutritionLogServer struct {
	httpServer *http.Server
	service    nutritionService
	health     *HealthHandler
	log        *zap.Logger
	maxBody    int64
}

// NewNutritionLogServer builds the router and the underlying http.Server.
// db is pinged by the readiness and health probes.
func NewNutritionLogServer(cfg *config.Config, svc nutritionService, db pinger, version string, log *zap.Logger) *NutritionLogServer {
	s := &NutritionLogServer{
		service: svc,
		health:  NewHealthHandler(db, version),
		log:     log.With(zap.String("component", "http")),
		maxBody: cfg.Server.MaxBodyBytes,
	}

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      s.routes(cfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

func (s *NutritionLogServer) routes(cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Stack(s.log, cfg.CORS)...)

	if cfg.Metrics.Enabled {
		r.Use(metrics.InstrumentHandler)
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
	}

	r.Get("/health", s.health.Health)
	r.Get("/health/live", s.health.Live)
	r.Get("/health/ready", s.health.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Post("/log", s.handleLogName)
		r.Get("/nutrition", s.handleGetNutrition)
		r.Post("/nutrition", s.handlePostNutrition)
	})

	if cfg.MCP.Enabled {
		r.Post("/mcp", s.handleMCP)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

// Handler exposes the fully wired router.
func (s *NutritionLogServer) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *NutritionLogServer) Addr() string {
	return s.httpServer.Addr
}

// Start serves until Stop is called. A clean shutdown returns nil.
func (s *NutritionLogServer) Start() error {
	s.log.Info("starting nutrition log server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *NutritionLogServer) Stop(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
