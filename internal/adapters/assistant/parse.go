package assistant

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hireloop/evalcore/internal/domain/model"
)

// parseSuggestion decodes the model's reply into a Suggestion. Models
// frequently wrap the JSON in a markdown fence; the fence is stripped
// before parsing.
func parseSuggestion(text string) (model.Suggestion, error) {
	raw := stripFence(text)
	if !gjson.Valid(raw) {
		return model.Suggestion{}, fmt.Errorf("%w: not valid JSON", ErrBadResponse)
	}
	root := gjson.Parse(raw)
	if !root.IsObject() {
		return model.Suggestion{}, fmt.Errorf("%w: top level is not an object", ErrBadResponse)
	}

	s := model.Suggestion{
		AssistantMessage: root.Get("assistantMessage").String(),
		Plan:             root.Get("plan").String(),
	}
	for _, e := range root.Get("proposedEdits").Array() {
		edit := model.ProposedEdit{
			Path:        e.Get("path").String(),
			Original:    e.Get("original").String(),
			Replacement: e.Get("replacement").String(),
			Rationale:   e.Get("rationale").String(),
		}
		if c := e.Get("confidence"); c.Exists() {
			v := c.Float()
			edit.Confidence = &v
		}
		s.ProposedEdits = append(s.ProposedEdits, edit)
	}
	if tags := root.Get("tags"); tags.IsObject() {
		if m, ok := tags.Value().(map[string]any); ok {
			s.Tags = m
		}
	}
	return s, nil
}

// stripFence extracts the content of the first markdown code fence, if
// any. A "json" language tag on the fence is tolerated.
func stripFence(text string) string {
	if i := strings.Index(text, "```json"); i >= 0 {
		rest := text[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
		return strings.TrimSpace(rest)
	}
	if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+len("```"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(text)
}
