// Package scoring combines the six foundational signals into the three
// composite scores used by the recommendation policy.
package scoring

import (
	"math"

	"github.com/hireloop/evalcore/internal/domain/model"
)

// Composite weights. Fixed by the scoring model; changing any of them
// re-scores all previously evaluated candidates.
const (
	aiLeverageCodeQualityWeight     = 0.4
	aiLeverageDecisionQualityWeight = 0.6

	problemSolverAnalysisDepthWeight    = 0.4
	problemSolverCriticalThinkingWeight = 0.35
	problemSolverContextQualityWeight   = 0.25

	engineerTestCultureWeight = 0.5
	engineerCodeQualityWeight = 0.5
)

// Compose derives the three composite scores from a signal set. The
// combinations are purely linear; no clamping is applied beyond what
// the inputs already carry, so problem solver inherits analysis depth's
// unbounded top end.
func Compose(s model.SignalSet) model.CompositeScores {
	aiLeverage := s.CodeQuality*aiLeverageCodeQualityWeight +
		s.DecisionQuality*aiLeverageDecisionQualityWeight

	problemSolver := s.AnalysisDepth*problemSolverAnalysisDepthWeight +
		s.CriticalThinking*problemSolverCriticalThinkingWeight +
		s.ContextQuality*problemSolverContextQualityWeight

	engineer := s.TestCulture*engineerTestCultureWeight +
		s.CodeQuality*engineerCodeQualityWeight

	return model.CompositeScores{
		AILeverage:    round1(aiLeverage),
		ProblemSolver: round1(problemSolver),
		Engineer:      round1(engineer),
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
