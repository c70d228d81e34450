package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hireloop/evalcore/internal/adapters/http/api"
	"github.com/hireloop/evalcore/internal/adapters/scoreboard"
	"github.com/hireloop/evalcore/internal/app"
	"github.com/hireloop/evalcore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps is a configurable Dependencies implementation.
type mockDeps struct {
	assistResult app.AssistResult
	assistErr    error

	outcomeDuplicate bool
	outcomeErr       error

	evaluation  *app.Evaluation
	evaluateErr error

	topEntries []scoreboard.Entry
	topErr     error

	rankEntry scoreboard.Entry
	rankErr   error

	lastEvaluateCandidate string
	lastEvaluateTask      string
	lastTopN              int
}

func (m *mockDeps) Assist(_ context.Context, _ app.AssistRequest) (app.AssistResult, error) {
	return m.assistResult, m.assistErr
}

func (m *mockDeps) RecordOutcome(_ context.Context, _ app.OutcomeRequest) (bool, error) {
	return m.outcomeDuplicate, m.outcomeErr
}

func (m *mockDeps) Evaluate(_ context.Context, candidateID, taskID string) (*app.Evaluation, error) {
	m.lastEvaluateCandidate = candidateID
	m.lastEvaluateTask = taskID
	return m.evaluation, m.evaluateErr
}

func (m *mockDeps) TopN(_ context.Context, n int) ([]scoreboard.Entry, error) {
	m.lastTopN = n
	return m.topEntries, m.topErr
}

func (m *mockDeps) Rank(_ context.Context, _ string) (scoreboard.Entry, error) {
	return m.rankEntry, m.rankErr
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(deps *mockDeps, maxLimit int) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStats{}, maxLimit).Register(context.Background(), mux)
	return mux
}

func doJSON(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestInteractEndpoint(t *testing.T) {
	Convey("Given the interact endpoint", t, func() {
		deps := &mockDeps{
			assistResult: app.AssistResult{
				RequestID: "req-42",
				Suggestion: model.Suggestion{
					AssistantMessage: "Use a guard clause.",
					Plan:             "1. Validate input.",
				},
			},
		}
		mux := newTestServer(deps, 100)

		Convey("When a valid request is posted", func() {
			rec := doJSON(mux, http.MethodPost, "/interact",
				`{"candidateToken":"cand-1","taskId":"task-a","userMessage":"How?"}`)

			Convey("Then the suggestion is returned with a request id", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["requestId"], ShouldEqual, "req-42")
				So(resp["assistantMessage"], ShouldEqual, "Use a guard clause.")
			})
		})

		Convey("When required fields are missing", func() {
			for _, body := range []string{
				`{"taskId":"task-a","userMessage":"How?"}`,
				`{"candidateToken":"cand-1","userMessage":"How?"}`,
				`{"candidateToken":"cand-1","taskId":"task-a"}`,
			} {
				rec := doJSON(mux, http.MethodPost, "/interact", body)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the body is not JSON", func() {
			rec := doJSON(mux, http.MethodPost, "/interact", "{broken")

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the service reports backpressure", func() {
			deps.assistErr = app.ErrBackpressure
			rec := doJSON(mux, http.MethodPost, "/interact",
				`{"candidateToken":"cand-1","taskId":"task-a","userMessage":"How?"}`)

			Convey("Then the client is told to back off", func() {
				So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
			})
		})

		Convey("When the assistant fails", func() {
			deps.assistErr = errors.New("model unavailable")
			rec := doJSON(mux, http.MethodPost, "/interact",
				`{"candidateToken":"cand-1","taskId":"task-a","userMessage":"How?"}`)

			Convey("Then a server error is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When the method is not POST", func() {
			rec := doJSON(mux, http.MethodGet, "/interact", "")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestOutcomeEndpoint(t *testing.T) {
	Convey("Given the outcome endpoint", t, func() {
		deps := &mockDeps{}
		mux := newTestServer(deps, 100)
		valid := `{"candidateToken":"cand-1","taskId":"task-a","requestId":"req-1"}`

		Convey("When a new outcome is posted", func() {
			rec := doJSON(mux, http.MethodPost, "/outcome", valid)

			Convey("Then it is acknowledged as non-duplicate", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["acknowledged"], ShouldEqual, true)
				So(resp["duplicate"], ShouldEqual, false)
				So(resp["requestId"], ShouldEqual, "req-1")
			})
		})

		Convey("When the outcome is a replay", func() {
			deps.outcomeDuplicate = true
			rec := doJSON(mux, http.MethodPost, "/outcome", valid)

			Convey("Then it is still acknowledged, flagged duplicate", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["duplicate"], ShouldEqual, true)
			})
		})

		Convey("When the request id is missing", func() {
			rec := doJSON(mux, http.MethodPost, "/outcome",
				`{"candidateToken":"cand-1","taskId":"task-a"}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the queue is full", func() {
			deps.outcomeErr = app.ErrBackpressure
			rec := doJSON(mux, http.MethodPost, "/outcome", valid)
			So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
		})
	})
}

func TestEvaluateEndpoint(t *testing.T) {
	Convey("Given the evaluate endpoint", t, func() {
		deps := &mockDeps{
			evaluation: &app.Evaluation{
				CandidateID:    "cand-1",
				TaskID:         model.AllTasks,
				Scores:         model.CompositeScores{AILeverage: 60, ProblemSolver: 64.3, Engineer: 2.5},
				Recommendation: model.RecommendPass,
			},
		}
		mux := newTestServer(deps, 100)

		Convey("When a candidate with history is evaluated", func() {
			rec := doJSON(mux, http.MethodPost, "/evaluate", `{"candidateToken":"cand-1"}`)

			Convey("Then the evaluation envelope is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp app.Evaluation
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Recommendation, ShouldEqual, model.RecommendPass)
				So(resp.Scores.ProblemSolver, ShouldEqual, 64.3)
			})

			Convey("And the task id passes through untouched", func() {
				doJSON(mux, http.MethodPost, "/evaluate",
					`{"candidateToken":"cand-1","taskId":"task-b"}`)
				So(deps.lastEvaluateTask, ShouldEqual, "task-b")
			})
		})

		Convey("When the candidate token is missing", func() {
			rec := doJSON(mux, http.MethodPost, "/evaluate", `{}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the candidate has no history", func() {
			deps.evaluateErr = app.ErrNoData
			rec := doJSON(mux, http.MethodPost, "/evaluate", `{"candidateToken":"ghost"}`)

			Convey("Then a no_data client error is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				var resp map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["code"], ShouldEqual, "no_data")
			})
		})

		Convey("When the run fails to persist", func() {
			deps.evaluateErr = app.ErrPersist
			rec := doJSON(mux, http.MethodPost, "/evaluate", `{"candidateToken":"cand-1"}`)
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestLeaderboardEndpoint(t *testing.T) {
	Convey("Given the leaderboard endpoint capped at 50", t, func() {
		deps := &mockDeps{
			topEntries: []scoreboard.Entry{
				{Rank: 1, CandidateID: "cand-1", Score: 90, Recommendation: model.RecommendHire},
			},
		}
		mux := newTestServer(deps, 50)

		Convey("When no limit is given", func() {
			rec := doJSON(mux, http.MethodGet, "/leaderboard", "")

			Convey("Then the default limit applies", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastTopN, ShouldEqual, 10)
			})
		})

		Convey("When a limit within the cap is given", func() {
			rec := doJSON(mux, http.MethodGet, "/leaderboard?limit=25", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.lastTopN, ShouldEqual, 25)
		})

		Convey("When the limit exceeds the cap", func() {
			rec := doJSON(mux, http.MethodGet, "/leaderboard?limit=51", "")

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				var resp map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["code"], ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When the limit is not a positive integer", func() {
			for _, raw := range []string{"abc", "0", "-3"} {
				rec := doJSON(mux, http.MethodGet, "/leaderboard?limit="+raw, "")
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the board is empty", func() {
			deps.topEntries = nil
			rec := doJSON(mux, http.MethodGet, "/leaderboard", "")

			Convey("Then an empty array is returned, not null", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(rec.Body.String()), ShouldEqual, "[]")
			})
		})
	})
}

func TestRankEndpoint(t *testing.T) {
	Convey("Given the rank endpoint", t, func() {
		deps := &mockDeps{
			rankEntry: scoreboard.Entry{Rank: 2, CandidateID: "cand-1", Score: 60},
		}
		mux := newTestServer(deps, 100)

		Convey("When an evaluated candidate is queried", func() {
			rec := doJSON(mux, http.MethodGet, "/rank/cand-1", "")

			Convey("Then the entry is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var entry scoreboard.Entry
				So(json.Unmarshal(rec.Body.Bytes(), &entry), ShouldBeNil)
				So(entry.Rank, ShouldEqual, 2)
				So(entry.CandidateID, ShouldEqual, "cand-1")
			})
		})

		Convey("When the candidate was never evaluated", func() {
			deps.rankErr = scoreboard.ErrNotFound
			rec := doJSON(mux, http.MethodGet, "/rank/ghost", "")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the path has no candidate id", func() {
			rec := doJSON(mux, http.MethodGet, "/rank/", "")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStatsAndHealthEndpoints(t *testing.T) {
	Convey("Given the monitoring endpoints", t, func() {
		mux := newTestServer(&mockDeps{}, 100)

		Convey("Then stats returns the provider snapshot", func() {
			rec := doJSON(mux, http.MethodGet, "/stats", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			var resp map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["started"], ShouldEqual, true)
		})

		Convey("And healthz responds OK with the metrics exposition", func() {
			rec := doJSON(mux, http.MethodGet, "/healthz", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}
