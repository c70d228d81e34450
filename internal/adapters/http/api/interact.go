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

// interactRequest mirrors the POST /interact schema.
type interactRequest struct {
	CandidateToken string               `json:"candidateToken"`
	TaskID         string               `json:"taskId"`
	UserMessage    string               `json:"userMessage"`
	Context        model.RequestContext `json:"context"`
}

func (r interactRequest) validate() error {
	switch {
	case strings.TrimSpace(r.CandidateToken) == "":
		return errors.New("missing candidateToken")
	case strings.TrimSpace(r.TaskID) == "":
		return errors.New("missing taskId")
	case strings.TrimSpace(r.UserMessage) == "":
		return errors.New("missing userMessage")
	}
	return nil
}

// interactResponse mirrors the assistant suggestion returned to the
// candidate's tooling.
type interactResponse struct {
	RequestID        string               `json:"requestId"`
	AssistantMessage string               `json:"assistantMessage"`
	Plan             string               `json:"plan"`
	ProposedEdits    []model.ProposedEdit `json:"proposedEdits"`
	Tags             map[string]any       `json:"tags,omitempty"`
}

// InteractHandler handles assist requests.
type InteractHandler struct {
	deps Dependencies
}

// NewInteractHandler creates a new interact handler.
func NewInteractHandler(deps Dependencies) *InteractHandler {
	return &InteractHandler{deps: deps}
}

// HandlePostInteract handles POST /interact requests.
func (h *InteractHandler) HandlePostInteract(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_interact"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req interactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Candidate tokens are opaque identifiers; no resolution happens here.
	result, err := h.deps.Assist(r.Context(), app.AssistRequest{
		CandidateID: req.CandidateToken,
		TaskID:      req.TaskID,
		UserMessage: req.UserMessage,
		Context:     req.Context,
	})
	if err != nil {
		if errors.Is(err, app.ErrBackpressure) {
			writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, interactResponse{
		RequestID:        result.RequestID,
		AssistantMessage: result.Suggestion.AssistantMessage,
		Plan:             result.Suggestion.Plan,
		ProposedEdits:    result.Suggestion.ProposedEdits,
		Tags:             result.Suggestion.Tags,
	})
}
