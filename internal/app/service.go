// Package app provides the core evaluation service behind the HTTP API:
// interaction and outcome ingestion plus the metrics aggregation run
// that turns a candidate's history into a hiring recommendation.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hireloop/evalcore/internal/adapters/assistant"
	"github.com/hireloop/evalcore/internal/adapters/logstore"
	jobqueue "github.com/hireloop/evalcore/internal/adapters/mq/queue"
	workerpool "github.com/hireloop/evalcore/internal/adapters/mq/worker"
	"github.com/hireloop/evalcore/internal/adapters/scoreboard"
	"github.com/hireloop/evalcore/internal/domain/dedupe"
	"github.com/hireloop/evalcore/internal/domain/model"
	"github.com/hireloop/evalcore/internal/domain/recommend"
	"github.com/hireloop/evalcore/internal/domain/scoring"
	"github.com/hireloop/evalcore/internal/domain/signals"
	"github.com/hireloop/evalcore/pkg/logger"
	"github.com/hireloop/evalcore/pkg/metrics"
)

// Default service configuration.
const (
	defaultWorkerCount = 4
	defaultQueueSize   = 10000
	defaultDedupeSize  = 50000
)

// AssistRequest is one assist call from a candidate.
type AssistRequest struct {
	CandidateID string
	TaskID      string
	UserMessage string
	Context     model.RequestContext
}

// AssistResult is returned to the candidate after an assist call.
type AssistResult struct {
	RequestID  string
	Suggestion model.Suggestion
}

// OutcomeRequest reports what a candidate did with a suggestion.
type OutcomeRequest struct {
	CandidateID string
	TaskID      string
	RequestID   string
	Decisions   []model.Decision
	Metrics     model.OutcomeMetrics
}

// Evaluation is the result envelope of one aggregation run.
type Evaluation struct {
	CandidateID      string                `json:"candidateId"`
	TaskID           string                `json:"taskId"`
	InteractionCount int                   `json:"interactionCount"`
	OutcomeCount     int                   `json:"outcomeCount"`
	Signals          model.SignalSet       `json:"signals"`
	Scores           model.CompositeScores `json:"scores"`
	Recommendation   model.Recommendation  `json:"recommendation"`
}

// Service wires the collaborators together. Collaborators are injected
// via options; the service owns only the queue, worker pool, deduper
// and scoreboard lifecycles.
type Service struct {
	mu sync.RWMutex

	store   logstore.Store
	invoker assistant.Invoker
	board   *scoreboard.Board
	deduper dedupe.Deduper
	queue   jobqueue.Queue
	pool    *workerpool.Pool

	workerCount int
	queueSize   int
	dedupeSize  int

	started bool
	log     logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the log store collaborator.
func WithStore(store logstore.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithInvoker sets the assistant collaborator.
func WithInvoker(inv assistant.Invoker) Option {
	return func(s *Service) {
		if inv != nil {
			s.invoker = inv
		}
	}
}

// WithWorkerCount sets the number of persistence workers.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithQueueSize bounds the persistence queue.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithDedupeSize bounds the outcome idempotency cache.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: defaultWorkerCount,
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the owned components. Callers must have
// supplied a store and an invoker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Named("app")
	}
	if s.store == nil {
		return fmt.Errorf("start: log store is required")
	}
	if s.invoker == nil {
		return fmt.Errorf("start: assistant invoker is required")
	}

	s.board = scoreboard.New()
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.store,
		workerpool.WithLogger(s.log),
	)
	s.pool.Start(ctx)

	s.started = true
	s.log.Info(ctx, "evaluation service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop drains the persistence queue and shuts the workers down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.log.Info(ctx, "stopping evaluation service...")

	if q, ok := s.queue.(*jobqueue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.pool != nil {
		s.pool.Wait()
	}

	s.started = false
	s.log.Info(ctx, "evaluation service stopped")
}

// Assist invokes the assistant for a candidate request and logs the
// resulting interaction record asynchronously.
func (s *Service) Assist(ctx context.Context, req AssistRequest) (AssistResult, error) {
	if strings.TrimSpace(req.CandidateID) == "" {
		return AssistResult{}, ErrInvalidInput
	}

	suggestion, err := s.invoker.Invoke(ctx, assistant.Request{
		UserMessage: req.UserMessage,
		Context:     req.Context,
	})
	if err != nil {
		return AssistResult{}, err
	}

	interaction := model.Interaction{
		RequestID:   uuid.NewString(),
		CandidateID: req.CandidateID,
		TaskID:      req.TaskID,
		Timestamp:   time.Now().UTC(),
		Request: model.InteractionRequest{
			UserMessage: req.UserMessage,
			Context:     req.Context,
		},
		ModelResponse:  suggestion,
		ContextQuality: assistant.BuildContextQuality(req.UserMessage, req.Context),
	}

	if !s.queue.Enqueue(ctx, jobqueue.Job{Interaction: &interaction}) {
		return AssistResult{}, ErrBackpressure
	}

	s.log.Debug(ctx, "interaction accepted",
		logger.String("candidateId", req.CandidateID),
		logger.String("requestId", interaction.RequestID),
		logger.Float64("clarityScore", interaction.ContextQuality.ClarityScore),
	)
	return AssistResult{RequestID: interaction.RequestID, Suggestion: suggestion}, nil
}

// RecordOutcome logs a candidate decision event. Replays of an already
// recorded request id are acknowledged as duplicates without being
// persisted again.
func (s *Service) RecordOutcome(ctx context.Context, req OutcomeRequest) (duplicate bool, err error) {
	if strings.TrimSpace(req.CandidateID) == "" || strings.TrimSpace(req.RequestID) == "" {
		return false, ErrInvalidInput
	}

	if s.deduper.SeenAndRecord(ctx, req.RequestID) {
		return true, nil
	}

	outcome := model.Outcome{
		RequestID:   req.RequestID,
		CandidateID: req.CandidateID,
		TaskID:      req.TaskID,
		Timestamp:   time.Now().UTC(),
		Decisions:   req.Decisions,
		Metrics:     req.Metrics,
	}
	if !s.queue.Enqueue(ctx, jobqueue.Job{Outcome: &outcome}) {
		// Roll back the seen mark so the client can retry.
		s.deduper.Unrecord(ctx, req.RequestID)
		return false, ErrBackpressure
	}
	return false, nil
}

// Evaluate runs the metrics aggregation for one candidate: fetch the
// full history, derive signals, composites and a recommendation, then
// persist the summary (last-write-wins per candidate). An empty task id
// evaluates across all tasks.
func (s *Service) Evaluate(ctx context.Context, candidateID, taskID string) (*Evaluation, error) {
	if strings.TrimSpace(candidateID) == "" {
		metrics.RecordEvaluationFailure("invalid_input")
		return nil, ErrInvalidInput
	}
	start := time.Now()

	fetchStart := time.Now()
	interactions, err := s.store.ListInteractions(ctx, candidateID, taskID)
	if err != nil {
		metrics.RecordEvaluationFailure("fetch")
		return nil, fmt.Errorf("fetch interactions: %w", err)
	}
	outcomes, err := s.store.ListOutcomes(ctx, candidateID, taskID)
	if err != nil {
		metrics.RecordEvaluationFailure("fetch")
		return nil, fmt.Errorf("fetch outcomes: %w", err)
	}
	metrics.RecordFetchLatency(float64(time.Since(fetchStart).Milliseconds()))
	metrics.RecordRecordsFetched(logstore.KindInteraction, len(interactions))
	metrics.RecordRecordsFetched(logstore.KindOutcome, len(outcomes))

	if len(interactions) == 0 || len(outcomes) == 0 {
		metrics.RecordEvaluationFailure("no_data")
		return nil, fmt.Errorf("%w: %s", ErrNoData, candidateID)
	}

	s.log.Info(ctx, "computing metrics",
		logger.String("candidateId", candidateID),
		logger.Int("interactions", len(interactions)),
		logger.Int("outcomes", len(outcomes)),
	)

	signalSet := signals.Extract(interactions, outcomes)
	scores := scoring.Compose(signalSet)
	recommendation := recommend.Decide(scores)

	summaryTask := taskID
	if summaryTask == "" {
		summaryTask = model.AllTasks
	}
	summary := model.Summary{
		CandidateID:      candidateID,
		TaskID:           summaryTask,
		Timestamp:        time.Now().UTC(),
		InteractionCount: len(interactions),
		OutcomeCount:     len(outcomes),
		Signals:          signalSet,
		Scores:           scores,
		Recommendation:   recommendation,
	}
	// A summary that cannot be written fails the whole run; the caller
	// never sees a result that is not durably recorded.
	if err := s.store.PutSummary(ctx, summary); err != nil {
		metrics.RecordEvaluationFailure("persist")
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	metrics.RecordSummaryWrite()

	s.board.Record(ctx, candidateID, scores, recommendation)
	metrics.RecordEvaluationRun(recommendation.Label())
	metrics.RecordEvaluationDuration(float64(time.Since(start).Milliseconds()))

	return &Evaluation{
		CandidateID:      candidateID,
		TaskID:           summaryTask,
		InteractionCount: len(interactions),
		OutcomeCount:     len(outcomes),
		Signals:          signalSet,
		Scores:           scores,
		Recommendation:   recommendation,
	}, nil
}

// TopN returns the best n scoreboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]scoreboard.Entry, error) {
	return s.board.TopN(ctx, n)
}

// Rank returns the scoreboard entry for one candidate.
func (s *Service) Rank(ctx context.Context, candidateID string) (scoreboard.Entry, error) {
	return s.board.Rank(ctx, candidateID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		ctx := context.Background()
		stats["queueLength"] = s.queue.Len(ctx)
		stats["rankedCandidates"] = s.board.Count(ctx)
		stats["trackedRequests"] = s.deduper.Size()
	}
	return stats
}
