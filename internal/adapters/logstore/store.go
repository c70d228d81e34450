// Package logstore provides durable storage for interaction and outcome
// records plus the per-candidate metrics summary. Records are addressed
// by hierarchical keys and are immutable once written; the summary is
// last-write-wins per candidate.
package logstore

import (
	"context"

	"github.com/hireloop/evalcore/internal/domain/model"
)

// Record kinds, used for key prefixes and metric labels.
const (
	KindInteraction = "interaction"
	KindOutcome     = "outcome"
)

// Store is the read/write contract the evaluation engine depends on.
//
// List operations return every record for a candidate, filtered to one
// task when taskID is non-empty. Individual unreadable records are
// skipped with a warning; only listing itself failing returns an error.
type Store interface {
	PutInteraction(ctx context.Context, in model.Interaction) error
	PutOutcome(ctx context.Context, out model.Outcome) error
	PutSummary(ctx context.Context, s model.Summary) error

	ListInteractions(ctx context.Context, candidateID, taskID string) ([]model.Interaction, error)
	ListOutcomes(ctx context.Context, candidateID, taskID string) ([]model.Outcome, error)
}
