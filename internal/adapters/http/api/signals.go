// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/okian/laurel/internal/domain/model"
	"github.com/okian/laurel/pkg/metrics"
)

// SignalsHandler handles approval signal requests.
type SignalsHandler struct {
	deps Dependencies
}

// NewSignalsHandler creates a new signals handler.
func NewSignalsHandler(deps Dependencies) *SignalsHandler {
	return &SignalsHandler{deps: deps}
}

// HandlePostSignal handles POST /signals requests.
func (h *SignalsHandler) HandlePostSignal(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_signal"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req signalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.SignalID == "" {
		req.SignalID = uuid.NewString()
	}

	metrics.RecordSignalReceived()

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.SignalID) {
		metrics.RecordSignalDuplicate()
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", SignalID: req.SignalID, Duplicate: true})
		return
	}

	signal := model.Signal{
		SignalID:  req.SignalID,
		UserID:    req.UserID,
		TeamID:    req.TeamID,
		ProjectID: req.ProjectID,
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), signal); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.SignalID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", SignalID: req.SignalID, Duplicate: false})
}
