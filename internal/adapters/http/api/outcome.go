// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hireloop/evalcore/internal/app"
	"github.com/hireloop/evalcore/internal/domain/model"
)

// outcomeRequest mirrors the POST /outcome schema.
type outcomeRequest struct {
	CandidateToken string               `json:"candidateToken"`
	TaskID         string               `json:"taskId"`
	RequestID      string               `json:"requestId"`
	Decisions      []model.Decision     `json:"decisions"`
	Metrics        model.OutcomeMetrics `json:"metrics"`
}

func (r outcomeRequest) validate() error {
	switch {
	case strings.TrimSpace(r.CandidateToken) == "":
		return errors.New("missing candidateToken")
	case strings.TrimSpace(r.TaskID) == "":
		return errors.New("missing taskId")
	case strings.TrimSpace(r.RequestID) == "":
		return errors.New("missing requestId")
	}
	return nil
}

type outcomeResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	RequestID    string `json:"requestId"`
	Duplicate    bool   `json:"duplicate"`
}

// OutcomeHandler handles outcome logging requests.
type OutcomeHandler struct {
	deps Dependencies
}

// NewOutcomeHandler creates a new outcome handler.
func NewOutcomeHandler(deps Dependencies) *OutcomeHandler {
	return &OutcomeHandler{deps: deps}
}

// HandlePostOutcome handles POST /outcome requests.
func (h *OutcomeHandler) HandlePostOutcome(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_outcome"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req outcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	duplicate, err := h.deps.RecordOutcome(r.Context(), app.OutcomeRequest{
		CandidateID: req.CandidateToken,
		TaskID:      req.TaskID,
		RequestID:   req.RequestID,
		Decisions:   req.Decisions,
		Metrics:     req.Metrics,
	})
	if err != nil {
		if errors.Is(err, app.ErrBackpressure) {
			writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
			return
		}
		if errors.Is(err, app.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, outcomeResponse{
		Acknowledged: true,
		RequestID:    req.RequestID,
		Duplicate:    duplicate,
	})
}
