// Package model contains the typed records flowing between layers:
// logged interactions and outcomes, derived signal sets, composite
// scores and the persisted metrics summary.
package model

import (
	"strings"
	"time"
)

// AllTasks marks a summary computed over a candidate's full history
// rather than a single task.
const AllTasks = "all-tasks"

// Default values applied when optional record fields are absent.
const (
	DefaultDecisionSpeedMS = 2000.0 // missing decision speed reads as moderate deliberation
	DefaultEditConfidence  = 70.0   // missing edit confidence reads as moderately confident
)

// ContextFile is one file attached to an assist request.
type ContextFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// RequestContext carries the code context the candidate supplied.
type RequestContext struct {
	Files          []ContextFile `json:"files"`
	Selection      string        `json:"selection"`
	ProjectSummary string        `json:"projectSummary"`
}

// InteractionRequest is the original assist request payload.
type InteractionRequest struct {
	UserMessage string         `json:"userMessage"`
	Context     RequestContext `json:"context"`
}

// ProposedEdit is one edit suggested by the assistant.
type ProposedEdit struct {
	Path        string   `json:"path"`
	Original    string   `json:"original"`
	Replacement string   `json:"replacement"`
	Rationale   string   `json:"rationale,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"` // 0-100
}

// ConfidenceValue returns the edit confidence, applying the default
// when the assistant did not report one.
func (e ProposedEdit) ConfidenceValue() float64 {
	if e.Confidence == nil {
		return DefaultEditConfidence
	}
	return *e.Confidence
}

// Suggestion is the assistant's structured response to one request.
type Suggestion struct {
	AssistantMessage string         `json:"assistantMessage"`
	Plan             string         `json:"plan"`
	ProposedEdits    []ProposedEdit `json:"proposedEdits"`
	Tags             map[string]any `json:"tags,omitempty"`
}

// ContextQuality summarizes how thorough the candidate's request was.
type ContextQuality struct {
	FileCount         int     `json:"fileCount"`
	TotalFileSize     int     `json:"totalFileSize"`
	SelectionLength   int     `json:"selectionLength"`
	MessageLength     int     `json:"messageLength"`
	QuestionsAsked    int     `json:"questionsAsked"`
	ClarityScore      float64 `json:"clarityScore"` // 0-100
	HasProjectSummary bool    `json:"hasProjectSummary"`
}

// Interaction is one logged assistant exchange. Immutable once written.
type Interaction struct {
	RequestID      string             `json:"requestId"`
	CandidateID    string             `json:"candidateId"`
	TaskID         string             `json:"taskId"`
	Timestamp      time.Time          `json:"timestamp"`
	Request        InteractionRequest `json:"request"`
	ModelResponse  Suggestion         `json:"modelResponse"`
	ContextQuality ContextQuality     `json:"contextQuality"`
}

// Decision is one descriptor in an outcome's ordered decision sequence.
type Decision struct {
	Action string `json:"action"` // accepted, rejected, modified
	Path   string `json:"path,omitempty"`
	Note   string `json:"note,omitempty"`
}

// TestStatus is a snapshot of the candidate's test suite.
type TestStatus struct {
	Passing int `json:"passing"`
	Failing int `json:"failing"`
}

// OutcomeMetrics captures what the candidate did with a suggestion.
type OutcomeMetrics struct {
	DecisionSpeedMS    *float64   `json:"decisionSpeed,omitempty"` // milliseconds
	RejectionCount     int        `json:"rejectionCount"`
	ModificationCount  int        `json:"modificationCount"`
	TestCoverageChange float64    `json:"testCoverageChange"`
	TestStatusBefore   TestStatus `json:"testStatusBefore"`
	TestStatusAfter    TestStatus `json:"testStatusAfter"`
}

// DecisionSpeedValue returns the decision speed in milliseconds,
// applying the default when the client did not report one.
func (m OutcomeMetrics) DecisionSpeedValue() float64 {
	if m.DecisionSpeedMS == nil {
		return DefaultDecisionSpeedMS
	}
	return *m.DecisionSpeedMS
}

// Outcome is one logged candidate decision event. Immutable once written.
type Outcome struct {
	RequestID   string         `json:"requestId"`
	CandidateID string         `json:"candidateId"`
	TaskID      string         `json:"taskId"`
	Timestamp   time.Time      `json:"timestamp"`
	Decisions   []Decision     `json:"decisions"`
	Metrics     OutcomeMetrics `json:"metrics"`
}

// SignalSet holds the six foundational signals for one candidate.
// Each is nominally 0-100; analysis depth can exceed 100 (see signals).
type SignalSet struct {
	ContextQuality   float64 `json:"contextQuality"`
	AnalysisDepth    float64 `json:"analysisDepth"`
	CriticalThinking float64 `json:"criticalThinking"`
	TestCulture      float64 `json:"testCulture"`
	CodeQuality      float64 `json:"codeQuality"`
	DecisionQuality  float64 `json:"decisionQuality"`
}

// CompositeScores holds the three weighted composite scores.
type CompositeScores struct {
	AILeverage    float64 `json:"aiLeverage"`
	ProblemSolver float64 `json:"problemSolver"`
	Engineer      float64 `json:"engineer"`
}

// Recommendation is the final categorical hiring decision. Values carry
// their display marker; they are persisted verbatim.
type Recommendation string

// Recommendation values.
const (
	RecommendHire      Recommendation = "🟢 HIRE"
	RecommendInterview Recommendation = "🟡 INTERVIEW"
	RecommendPass      Recommendation = "🔴 PASS"
)

// Label returns the bare categorical value (HIRE, INTERVIEW, PASS)
// without the display marker, for metric labels and logs.
func (r Recommendation) Label() string {
	fields := strings.Fields(string(r))
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// Summary is the persisted result of one evaluation run. One summary is
// kept per candidate; a new run overwrites the previous one.
type Summary struct {
	CandidateID      string          `json:"candidateId"`
	TaskID           string          `json:"taskId"` // task id or AllTasks
	Timestamp        time.Time       `json:"timestamp"`
	InteractionCount int             `json:"interactionCount"`
	OutcomeCount     int             `json:"outcomeCount"`
	Signals          SignalSet       `json:"signals"`
	Scores           CompositeScores `json:"scores"`
	Recommendation   Recommendation  `json:"recommendation"`
}
