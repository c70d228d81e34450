// Package recommend maps composite scores to a hiring recommendation.
package recommend

import "github.com/hireloop/evalcore/internal/domain/model"

// Score thresholds. Fixed constants, not configurable per run.
const (
	excellentThreshold = 75
	goodThreshold      = 60
)

// Decide evaluates the threshold table in order:
//
//  1. problem solver and engineer both excellent      -> HIRE
//  2. both good, or AI leverage excellent             -> INTERVIEW
//  3. otherwise                                       -> PASS
func Decide(scores model.CompositeScores) model.Recommendation {
	switch {
	case scores.ProblemSolver >= excellentThreshold && scores.Engineer >= excellentThreshold:
		return model.RecommendHire
	case (scores.ProblemSolver >= goodThreshold && scores.Engineer >= goodThreshold) ||
		scores.AILeverage >= excellentThreshold:
		return model.RecommendInterview
	default:
		return model.RecommendPass
	}
}
