package assistant

import (
	"fmt"
	"strings"
)

// buildPrompt assembles the model prompt from the candidate's message
// and attached code context. The model is instructed to answer with a
// single JSON object mirroring model.Suggestion.
func buildPrompt(req Request) string {
	var files strings.Builder
	for _, f := range req.Context.Files {
		fmt.Fprintf(&files, "\n### %s\n```\n%s\n```", f.Path, f.Content)
	}

	return fmt.Sprintf(`You are an expert coding assistant evaluating a candidate's task.

Project Summary: %s

Current Selection:
%s

Relevant Files:%s

Candidate Message: %s

Respond with a JSON object with keys:
- assistantMessage: string (explanation for the candidate)
- plan: string (step-by-step plan)
- proposedEdits: array of {path, original, replacement, rationale, confidence}
- tags: {taskCategory, complexity, confidence}
`,
		req.Context.ProjectSummary,
		req.Context.Selection,
		files.String(),
		req.UserMessage,
	)
}
