// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hireloop/evalcore/internal/adapters/scoreboard"
	"github.com/hireloop/evalcore/internal/app"
)

// Dependencies required by the HTTP handlers. The interface bundle
// keeps the handler layer loosely coupled to the app service.
type Dependencies interface {
	Assist(ctx context.Context, req app.AssistRequest) (app.AssistResult, error)
	RecordOutcome(ctx context.Context, req app.OutcomeRequest) (bool, error)
	Evaluate(ctx context.Context, candidateID, taskID string) (*app.Evaluation, error)
	TopN(ctx context.Context, n int) ([]scoreboard.Entry, error)
	Rank(ctx context.Context, candidateID string) (scoreboard.Entry, error)
}

// Entry mirrors the read shape returned by scoreboard queries.
type Entry = scoreboard.Entry

// Server wires HTTP routes for the evaluation API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	interactHandler    *InteractHandler
	outcomeHandler     *OutcomeHandler
	evaluateHandler    *EvaluateHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		interactHandler:    NewInteractHandler(deps),
		outcomeHandler:     NewOutcomeHandler(deps),
		evaluateHandler:    NewEvaluateHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		rankHandler:        NewRankHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/interact", MetricsMiddleware(s.interactHandler.HandlePostInteract, "interact"))
	mux.HandleFunc("/outcome", MetricsMiddleware(s.outcomeHandler.HandlePostOutcome, "outcome"))
	mux.HandleFunc("/evaluate", MetricsMiddleware(s.evaluateHandler.HandlePostEvaluate, "evaluate"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
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
