package assistant

import (
	"context"
	"fmt"

	"github.com/hireloop/evalcore/internal/domain/model"
)

// StaticInvoker implements Invoker with a deterministic canned
// suggestion. It backs local runs without an API key and tests.
type StaticInvoker struct{}

// NewStaticInvoker creates a static invoker.
func NewStaticInvoker() *StaticInvoker {
	return &StaticInvoker{}
}

// Invoke returns a fixed-shape suggestion echoing the request.
func (s *StaticInvoker) Invoke(_ context.Context, req Request) (model.Suggestion, error) {
	confidence := model.DefaultEditConfidence
	contextSize := len(req.Context.Selection)
	for _, f := range req.Context.Files {
		contextSize += len(f.Content)
	}
	suggestion := model.Suggestion{
		AssistantMessage: fmt.Sprintf("Reviewed your request (%d chars of context attached).", contextSize),
		Plan:             "1. Read the relevant files.\n2. Apply the proposed edit.\n3. Run the tests.",
		Tags: map[string]any{
			"taskCategory": "general",
			"complexity":   "medium",
		},
	}
	if len(req.Context.Files) > 0 {
		suggestion.ProposedEdits = []model.ProposedEdit{{
			Path:        req.Context.Files[0].Path,
			Original:    req.Context.Selection,
			Replacement: req.Context.Selection,
			Rationale:   "placeholder edit for offline runs",
			Confidence:  &confidence,
		}}
	}
	return suggestion, nil
}
