// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/laurel/internal/domain/dedupe"
	"github.com/okian/laurel/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a signal for async processing. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, s model.Signal) bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	signalsHandler *SignalsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		signalsHandler: NewSignalsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/signals", MetricsMiddleware(s.signalsHandler.HandlePostSignal, "signals"))
}

// signalRequest mirrors the schema for POST /signals. The signal id is
// optional; one is minted when absent.
type signalRequest struct {
	SignalID  string `json:"signal_id"`
	UserID    uint   `json:"user_id"`
	TeamID    uint   `json:"team_id"`
	ProjectID uint   `json:"project_id"`
}

func (s signalRequest) validate() error {
	switch {
	case s.UserID == 0:
		return errors.New("missing user_id")
	case s.TeamID == 0:
		return errors.New("missing team_id")
	case s.ProjectID == 0:
		return errors.New("missing project_id")
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	SignalID  string `json:"signal_id"`
	Duplicate bool   `json:"duplicate"`
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

// NewKind tags a sentinel with the operation that raised it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags a sentinel and the underlying cause with the operation.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
