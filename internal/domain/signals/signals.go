// Package signals derives the six foundational signals from a
// candidate's interaction and outcome history.
package signals

import (
	"math"

	"github.com/hireloop/evalcore/internal/domain/model"
)

// Decision speed buckets (milliseconds) and their contributions.
const (
	snapDecisionMS       = 500
	quickDecisionMS      = 2000
	deliberateDecisionMS = 5000

	snapContribution       = 20  // snap decision, little thinking
	quickContribution      = 50  // some thinking
	deliberateContribution = 80  // good thinking time
	extendedContribution   = 100 // extended analysis
)

// Critical thinking weights and the signal ceiling.
const (
	modificationWeight = 10
	rejectionWeight    = 15
	maxSignal          = 100
)

// Extract computes the six signals over a candidate's full record set.
// Callers are expected to reject empty inputs upstream; each signal
// still degrades to zero on an empty sub-sequence.
func Extract(interactions []model.Interaction, outcomes []model.Outcome) model.SignalSet {
	return model.SignalSet{
		ContextQuality:   round1(contextQuality(interactions)),
		AnalysisDepth:    round1(analysisDepth(outcomes)),
		CriticalThinking: round1(criticalThinking(outcomes)),
		TestCulture:      round1(testCulture(outcomes)),
		CodeQuality:      round1(codeQuality(interactions)),
		DecisionQuality:  round1(decisionQuality(outcomes)),
	}
}

// contextQuality is the mean clarity score across interactions.
func contextQuality(interactions []model.Interaction) float64 {
	if len(interactions) == 0 {
		return 0
	}
	var total float64
	for _, in := range interactions {
		total += in.ContextQuality.ClarityScore
	}
	return total / float64(len(interactions))
}

// analysisDepth buckets each outcome's decision speed and sums the
// contributions.
//
// NOTE: the contributions are summed, not averaged, so the signal grows
// monotonically with the number of outcomes and exceeds 100 once a
// candidate has a few slow decisions. Every persisted summary was
// produced this way; averaging would silently re-score history, so the
// summation stays until the scoring owner decides otherwise.
func analysisDepth(outcomes []model.Outcome) float64 {
	var total float64
	for _, out := range outcomes {
		speed := out.Metrics.DecisionSpeedValue()
		switch {
		case speed < snapDecisionMS:
			total += snapContribution
		case speed < quickDecisionMS:
			total += quickContribution
		case speed < deliberateDecisionMS:
			total += deliberateContribution
		default:
			total += extendedContribution
		}
	}
	return total
}

// criticalThinking rewards modifications and rejections of suggestions,
// capped at 100.
func criticalThinking(outcomes []model.Outcome) float64 {
	var modifications, rejections int
	for _, out := range outcomes {
		modifications += out.Metrics.ModificationCount
		rejections += out.Metrics.RejectionCount
	}
	score := float64(modifications*modificationWeight + rejections*rejectionWeight)
	return math.Min(maxSignal, score)
}

// testCulture is the mean positive test-coverage delta across outcomes.
// Negative deltas floor to zero before averaging.
func testCulture(outcomes []model.Outcome) float64 {
	if len(outcomes) == 0 {
		return 0
	}
	var total float64
	for _, out := range outcomes {
		total += math.Max(0, out.Metrics.TestCoverageChange)
	}
	return total / float64(len(outcomes))
}

// codeQuality is the mean confidence across every proposed edit in
// every interaction. No edits at all yields zero.
func codeQuality(interactions []model.Interaction) float64 {
	var total float64
	var edits int
	for _, in := range interactions {
		for _, edit := range in.ModelResponse.ProposedEdits {
			total += edit.ConfidenceValue()
			edits++
		}
	}
	if edits == 0 {
		return 0
	}
	return total / float64(edits)
}

// decisionQuality compares passing-test counts after edits against the
// counts before them. The +1 denominator avoids division by zero and
// rewards candidates who started from zero passing tests.
func decisionQuality(outcomes []model.Outcome) float64 {
	var before, after int
	for _, out := range outcomes {
		before += out.Metrics.TestStatusBefore.Passing
		after += out.Metrics.TestStatusAfter.Passing
	}
	if after == 0 {
		return 0
	}
	return math.Min(maxSignal, float64(after)/float64(before+1)*maxSignal)
}

// round1 rounds to one decimal place, the precision persisted in
// summaries.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
