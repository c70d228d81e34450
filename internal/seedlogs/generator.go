package seedlogs

import (
	"fmt"
	"math/rand"

	"github.com/hireloop/evalcore/internal/domain/model"
)

// Candidate archetypes. Each skews the synthetic metrics so seeded runs
// land in different recommendation buckets.
const (
	archetypeThorough = iota
	archetypeHasty
	archetypeAverage
	archetypeCount
)

var userMessages = []string{
	"How should I refactor the request parser to handle missing fields?",
	"Can you explain what this selection does? I think the retry loop is wrong.",
	"Please propose an edit that adds input validation to the handler.",
	"Why do the integration tests fail after my change to the cache layer?",
	"What is the cleanest way to add pagination here?",
}

// session is one synthetic assist/outcome round trip.
type session struct {
	UserMessage string
	Context     model.RequestContext
	Metrics     model.OutcomeMetrics
	Decisions   []model.Decision
}

// generateSessions produces the sessions for one candidate archetype.
func generateSessions(rng *rand.Rand, archetype, count int) []session {
	sessions := make([]session, 0, count)
	for i := 0; i < count; i++ {
		s := session{
			UserMessage: userMessages[rng.Intn(len(userMessages))],
			Context: model.RequestContext{
				Selection: "func handle(w http.ResponseWriter, r *http.Request) {",
				Files: []model.ContextFile{{
					Path:    fmt.Sprintf("internal/server/handler_%d.go", i),
					Content: "package server\n\n// trimmed for brevity\n",
				}},
			},
		}

		switch archetype {
		case archetypeThorough:
			s.Context.ProjectSummary = "HTTP API for order management; handlers delegate to a service layer."
			s.Metrics = model.OutcomeMetrics{
				DecisionSpeedMS:    ptr(2500 + rng.Float64()*3000),
				ModificationCount:  1 + rng.Intn(3),
				RejectionCount:     rng.Intn(2),
				TestCoverageChange: 2 + rng.Float64()*6,
				TestStatusBefore:   model.TestStatus{Passing: 3 + rng.Intn(3)},
				TestStatusAfter:    model.TestStatus{Passing: 7 + rng.Intn(4)},
			}
			s.Decisions = []model.Decision{{Action: "modified"}, {Action: "accepted"}}
		case archetypeHasty:
			s.Metrics = model.OutcomeMetrics{
				DecisionSpeedMS:  ptr(100 + rng.Float64()*300),
				TestStatusBefore: model.TestStatus{Passing: 2},
				TestStatusAfter:  model.TestStatus{Passing: 2},
			}
			s.Decisions = []model.Decision{{Action: "accepted"}}
		default:
			s.Metrics = model.OutcomeMetrics{
				DecisionSpeedMS:    ptr(800 + rng.Float64()*2000),
				ModificationCount:  rng.Intn(2),
				TestCoverageChange: rng.Float64() * 3,
				TestStatusBefore:   model.TestStatus{Passing: 4},
				TestStatusAfter:    model.TestStatus{Passing: 4 + rng.Intn(3)},
			}
			s.Decisions = []model.Decision{{Action: "accepted"}}
		}
		sessions = append(sessions, s)
	}
	return sessions
}

func ptr(v float64) *float64 { return &v }
