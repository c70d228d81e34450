package assistant

import (
	"math"
	"strings"

	"github.com/hireloop/evalcore/internal/domain/model"
)

// Clarity score weights. The score saturates at 100.
const (
	messageLengthWeight = 40
	messageLengthRef    = 500 // characters at which length alone contributes its full weight
	questionWeight      = 15
	projectSummaryBonus = 20
	maxClarity          = 100
)

// BuildContextQuality derives the context-quality sub-record for one
// request. Question marks are the question indicator.
func BuildContextQuality(userMessage string, rc model.RequestContext) model.ContextQuality {
	totalSize := 0
	for _, f := range rc.Files {
		totalSize += len(f.Content)
	}
	questions := strings.Count(userMessage, "?")
	hasSummary := strings.TrimSpace(rc.ProjectSummary) != ""

	clarity := messageLengthWeight*float64(len(userMessage))/messageLengthRef +
		questionWeight*float64(questions)
	if hasSummary {
		clarity += projectSummaryBonus
	}

	return model.ContextQuality{
		FileCount:         len(rc.Files),
		TotalFileSize:     totalSize,
		SelectionLength:   len(rc.Selection),
		MessageLength:     len(userMessage),
		QuestionsAsked:    questions,
		ClarityScore:      math.Min(maxClarity, clarity),
		HasProjectSummary: hasSummary,
	}
}
