// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hireloop/evalcore/internal/app"
)

// evaluateRequest mirrors the POST /evaluate schema. taskId is
// optional; when absent the run covers the candidate's full history.
type evaluateRequest struct {
	CandidateToken string `json:"candidateToken"`
	TaskID         string `json:"taskId"`
}

// EvaluateHandler handles metrics aggregation requests.
type EvaluateHandler struct {
	deps Dependencies
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(deps Dependencies) *EvaluateHandler {
	return &EvaluateHandler{deps: deps}
}

// HandlePostEvaluate handles POST /evaluate requests.
func (h *EvaluateHandler) HandlePostEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_evaluate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.CandidateToken) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	evaluation, err := h.deps.Evaluate(r.Context(), req.CandidateToken, req.TaskID)
	if err != nil {
		// Missing input and empty history are client errors; anything
		// else is a server-side failure.
		if errors.Is(err, app.ErrInvalidInput) || errors.Is(err, app.ErrNoData) {
			writeError(w, http.StatusBadRequest, "no_data", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, evaluation)
}
