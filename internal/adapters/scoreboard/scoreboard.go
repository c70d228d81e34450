// Package scoreboard keeps an in-memory ranking of evaluated
// candidates. Candidates are ordered by the mean of their three
// composite scores (ties break on candidate id); each successful
// evaluation run replaces the candidate's entry. The board is not
// persisted and rebuilds as runs occur.
package scoreboard

import (
	"context"
	"sort"
	"sync"

	"github.com/hireloop/evalcore/internal/domain/model"
)

// Entry is one ranked row.
type Entry struct {
	Rank           int                  `json:"rank"`
	CandidateID    string               `json:"candidateId"`
	Score          float64              `json:"score"`
	Recommendation model.Recommendation `json:"recommendation"`
}

type row struct {
	score          float64
	recommendation model.Recommendation
}

// Board is the in-memory ranking store.
type Board struct {
	mu   sync.RWMutex
	rows map[string]row
}

// New creates an empty board.
func New() *Board {
	return &Board{
		rows: make(map[string]row),
	}
}

// Score reduces composite scores to the board's ordering key.
func Score(s model.CompositeScores) float64 {
	return (s.AILeverage + s.ProblemSolver + s.Engineer) / 3
}

// Record replaces the candidate's entry with the latest run result.
func (b *Board) Record(_ context.Context, candidateID string, scores model.CompositeScores, rec model.Recommendation) {
	b.mu.Lock()
	b.rows[candidateID] = row{score: Score(scores), recommendation: rec}
	b.mu.Unlock()
}

// Rank returns the candidate's current rank and score. Returns
// ErrNotFound for a candidate with no evaluation run.
func (b *Board) Rank(_ context.Context, candidateID string) (Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	target, ok := b.rows[candidateID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	rank := 1
	for id, r := range b.rows {
		if r.score > target.score || (r.score == target.score && id < candidateID) {
			rank++
		}
	}
	return Entry{
		Rank:           rank,
		CandidateID:    candidateID,
		Score:          target.score,
		Recommendation: target.recommendation,
	}, nil
}

// TopN returns the best n entries in rank order.
func (b *Board) TopN(_ context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}

	b.mu.RLock()
	entries := make([]Entry, 0, len(b.rows))
	for id, r := range b.rows {
		entries = append(entries, Entry{
			CandidateID:    id,
			Score:          r.score,
			Recommendation: r.recommendation,
		})
	}
	b.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].CandidateID < entries[j].CandidateID
	})
	if n < len(entries) {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// Count returns the number of ranked candidates.
func (b *Board) Count(_ context.Context) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rows)
}
