// Package api serves read-only HTTP access to imported series.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/medb/internal/adapters/repository"
	"github.com/okian/medb/internal/domain/model"
	"github.com/okian/medb/internal/domain/types"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	ListSeries(ctx context.Context) ([]types.SeriesSummary, error)
	GetSeries(ctx context.Context, name string) (*model.Series, error)
}

// Server wires HTTP routes for the read API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	seriesHandler *SeriesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		seriesHandler: NewSeriesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/series", MetricsMiddleware(s.seriesHandler.HandleList, "series"))
	mux.HandleFunc("/series/", MetricsMiddleware(s.seriesHandler.HandleGet, "series_detail"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
