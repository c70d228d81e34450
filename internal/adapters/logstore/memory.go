package logstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hireloop/evalcore/internal/domain/model"
	"github.com/hireloop/evalcore/pkg/logger"
	"github.com/hireloop/evalcore/pkg/metrics"
)

// MemoryStore implements Store on an in-process map using the same key
// layout as the S3 store. It backs local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	log     logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		log:     logger.Named("memstore"),
	}
}

func (m *MemoryStore) put(key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %w", ErrWrite, key, err)
	}
	m.mu.Lock()
	m.objects[key] = body
	m.mu.Unlock()
	return nil
}

// PutInteraction writes one interaction record.
func (m *MemoryStore) PutInteraction(_ context.Context, in model.Interaction) error {
	return m.put(interactionKey(in.CandidateID, in.RequestID, in.Timestamp), in)
}

// PutOutcome writes one outcome record.
func (m *MemoryStore) PutOutcome(_ context.Context, out model.Outcome) error {
	return m.put(outcomeKey(out.CandidateID, out.RequestID, out.Timestamp), out)
}

// PutSummary overwrites the candidate's metrics summary.
func (m *MemoryStore) PutSummary(_ context.Context, s model.Summary) error {
	return m.put(summaryKey(s.CandidateID), s)
}

// PutRaw stores arbitrary bytes under a key. Tests use it to plant
// corrupt records.
func (m *MemoryStore) PutRaw(key string, data []byte) {
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
}

// Summary returns the stored summary for a candidate, if any.
func (m *MemoryStore) Summary(candidateID string) (model.Summary, bool) {
	m.mu.RLock()
	data, ok := m.objects[summaryKey(candidateID)]
	m.mu.RUnlock()
	if !ok {
		return model.Summary{}, false
	}
	var s model.Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return model.Summary{}, false
	}
	return s, true
}

// ListInteractions fetches every interaction for a candidate, filtered
// to one task when taskID is non-empty.
func (m *MemoryStore) ListInteractions(ctx context.Context, candidateID, taskID string) ([]model.Interaction, error) {
	var records []model.Interaction
	m.scan(ctx, interactionPrefix, candidateID, KindInteraction, func(data []byte) error {
		var in model.Interaction
		if err := json.Unmarshal(data, &in); err != nil {
			return err
		}
		if taskID == "" || in.TaskID == taskID {
			records = append(records, in)
		}
		return nil
	})
	return records, nil
}

// ListOutcomes fetches every outcome for a candidate, filtered to one
// task when taskID is non-empty.
func (m *MemoryStore) ListOutcomes(ctx context.Context, candidateID, taskID string) ([]model.Outcome, error) {
	var records []model.Outcome
	m.scan(ctx, outcomePrefix, candidateID, KindOutcome, func(data []byte) error {
		var out model.Outcome
		if err := json.Unmarshal(data, &out); err != nil {
			return err
		}
		if taskID == "" || out.TaskID == taskID {
			records = append(records, out)
		}
		return nil
	})
	return records, nil
}

func (m *MemoryStore) scan(ctx context.Context, prefix, candidateID, kind string, decode func([]byte) error) {
	m.mu.RLock()
	keys := make([]string, 0, len(m.objects))
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) && keyMatchesCandidate(key, candidateID) {
			keys = append(keys, key)
		}
	}
	m.mu.RUnlock()
	sort.Strings(keys)

	for _, key := range keys {
		m.mu.RLock()
		data := m.objects[key]
		m.mu.RUnlock()
		if err := decode(data); err != nil {
			m.log.Warn(ctx, "skipping unreadable record",
				logger.String("key", key),
				logger.Error(err),
			)
			metrics.RecordRecordSkipped(kind)
		}
	}
}
