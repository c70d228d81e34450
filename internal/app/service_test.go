package app_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/hireloop/evalcore/internal/adapters/assistant"
	"github.com/hireloop/evalcore/internal/adapters/logstore"
	"github.com/hireloop/evalcore/internal/adapters/scoreboard"
	"github.com/hireloop/evalcore/internal/app"
	"github.com/hireloop/evalcore/internal/domain/model"
	"github.com/hireloop/evalcore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	os.Exit(m.Run())
}

func startedService(store logstore.Store) *app.Service {
	svc := app.New(
		app.WithStore(store),
		app.WithInvoker(assistant.NewStaticInvoker()),
		app.WithWorkerCount(2),
	)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func seedScenario(ctx context.Context, store *logstore.MemoryStore, candidateID string) {
	speed := 2500.0
	_ = store.PutInteraction(ctx, model.Interaction{
		RequestID:      "req-1",
		CandidateID:    candidateID,
		TaskID:         "task-a",
		Timestamp:      time.Now().UTC(),
		ContextQuality: model.ContextQuality{ClarityScore: 80},
	})
	_ = store.PutOutcome(ctx, model.Outcome{
		RequestID:   "req-1",
		CandidateID: candidateID,
		TaskID:      "task-a",
		Timestamp:   time.Now().UTC(),
		Metrics: model.OutcomeMetrics{
			DecisionSpeedMS:    &speed,
			ModificationCount:  2,
			RejectionCount:     1,
			TestCoverageChange: 5,
			TestStatusBefore:   model.TestStatus{Passing: 3},
			TestStatusAfter:    model.TestStatus{Passing: 5},
		},
	})
}

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service missing its collaborators", t, func() {
		Convey("Then starting without a store fails", func() {
			svc := app.New(app.WithInvoker(assistant.NewStaticInvoker()))
			So(svc.Start(ctx), ShouldNotBeNil)
		})

		Convey("And starting without an invoker fails", func() {
			svc := app.New(app.WithStore(logstore.NewMemoryStore()))
			So(svc.Start(ctx), ShouldNotBeNil)
		})
	})

	Convey("Given a fully wired service", t, func() {
		svc := startedService(logstore.NewMemoryStore())

		Convey("Then starting again is a no-op", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
		})

		Convey("And stats report the running components", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["queueLength"], ShouldEqual, 0)
			svc.Stop()

			stats = svc.GetStats()
			So(stats["started"], ShouldBeFalse)
		})
	})
}

func TestAssist(t *testing.T) {
	ctx := context.Background()

	Convey("Given a running service", t, func() {
		store := logstore.NewMemoryStore()
		svc := startedService(store)

		Convey("When a candidate sends an assist request", func() {
			result, err := svc.Assist(ctx, app.AssistRequest{
				CandidateID: "cand-1",
				TaskID:      "task-a",
				UserMessage: "How do I add validation here?",
				Context: model.RequestContext{
					Files: []model.ContextFile{{Path: "handler.go", Content: "package main"}},
				},
			})

			Convey("Then a request id and suggestion come back", func() {
				So(err, ShouldBeNil)
				So(result.RequestID, ShouldNotBeEmpty)
				So(result.Suggestion.AssistantMessage, ShouldNotBeEmpty)
				svc.Stop()
			})

			Convey("And the interaction is durably logged once the queue drains", func() {
				So(err, ShouldBeNil)
				svc.Stop()

				records, listErr := store.ListInteractions(ctx, "cand-1", "")
				So(listErr, ShouldBeNil)
				So(records, ShouldHaveLength, 1)
				So(records[0].RequestID, ShouldEqual, result.RequestID)
				So(records[0].ContextQuality.QuestionsAsked, ShouldEqual, 1)
			})
		})

		Convey("When the candidate id is missing", func() {
			_, err := svc.Assist(ctx, app.AssistRequest{UserMessage: "hi"})

			Convey("Then the request is rejected", func() {
				So(errors.Is(err, app.ErrInvalidInput), ShouldBeTrue)
				svc.Stop()
			})
		})
	})
}

func TestRecordOutcome(t *testing.T) {
	ctx := context.Background()

	Convey("Given a running service", t, func() {
		store := logstore.NewMemoryStore()
		svc := startedService(store)

		Convey("When an outcome is reported", func() {
			duplicate, err := svc.RecordOutcome(ctx, app.OutcomeRequest{
				CandidateID: "cand-1",
				TaskID:      "task-a",
				RequestID:   "req-1",
				Decisions:   []model.Decision{{Action: "accepted"}},
			})

			Convey("Then it is accepted as new", func() {
				So(err, ShouldBeNil)
				So(duplicate, ShouldBeFalse)
			})

			Convey("And an identical replay is acknowledged as a duplicate", func() {
				So(err, ShouldBeNil)
				duplicate, err = svc.RecordOutcome(ctx, app.OutcomeRequest{
					CandidateID: "cand-1",
					TaskID:      "task-a",
					RequestID:   "req-1",
				})
				So(err, ShouldBeNil)
				So(duplicate, ShouldBeTrue)

				svc.Stop()
				records, listErr := store.ListOutcomes(ctx, "cand-1", "")
				So(listErr, ShouldBeNil)
				So(records, ShouldHaveLength, 1)
			})
		})

		Convey("When required fields are missing", func() {
			Convey("Then the report is rejected", func() {
				_, err := svc.RecordOutcome(ctx, app.OutcomeRequest{CandidateID: "cand-1"})
				So(errors.Is(err, app.ErrInvalidInput), ShouldBeTrue)
				_, err = svc.RecordOutcome(ctx, app.OutcomeRequest{RequestID: "req-1"})
				So(errors.Is(err, app.ErrInvalidInput), ShouldBeTrue)
				svc.Stop()
			})
		})
	})
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a candidate with one interaction and one outcome", t, func() {
		store := logstore.NewMemoryStore()
		seedScenario(ctx, store, "cand-1")
		svc := startedService(store)

		Convey("When the candidate is evaluated", func() {
			evaluation, err := svc.Evaluate(ctx, "cand-1", "")
			So(err, ShouldBeNil)

			Convey("Then the signals match the recorded history", func() {
				So(evaluation.Signals.ContextQuality, ShouldEqual, 80.0)
				So(evaluation.Signals.AnalysisDepth, ShouldEqual, 80.0)
				So(evaluation.Signals.CriticalThinking, ShouldEqual, 35.0)
				So(evaluation.Signals.TestCulture, ShouldEqual, 5.0)
				So(evaluation.Signals.CodeQuality, ShouldEqual, 0)
				So(evaluation.Signals.DecisionQuality, ShouldEqual, 100.0)
			})

			Convey("And the composites and recommendation follow", func() {
				So(evaluation.Scores.AILeverage, ShouldEqual, 60.0)
				So(evaluation.Scores.ProblemSolver, ShouldEqual, 64.3)
				So(evaluation.Scores.Engineer, ShouldEqual, 2.5)
				So(evaluation.Recommendation, ShouldEqual, model.RecommendPass)
			})

			Convey("And the summary is persisted with the all-tasks marker", func() {
				summary, ok := store.Summary("cand-1")
				So(ok, ShouldBeTrue)
				So(summary.TaskID, ShouldEqual, model.AllTasks)
				So(summary.InteractionCount, ShouldEqual, 1)
				So(summary.OutcomeCount, ShouldEqual, 1)
				So(summary.Recommendation, ShouldEqual, model.RecommendPass)
			})

			Convey("And the candidate appears on the scoreboard", func() {
				entry, rankErr := svc.Rank(ctx, "cand-1")
				So(rankErr, ShouldBeNil)
				So(entry.Rank, ShouldEqual, 1)

				top, topErr := svc.TopN(ctx, 10)
				So(topErr, ShouldBeNil)
				So(top, ShouldHaveLength, 1)
			})

			Convey("And re-running over unchanged history is identical", func() {
				again, againErr := svc.Evaluate(ctx, "cand-1", "")
				So(againErr, ShouldBeNil)
				So(again.Signals, ShouldResemble, evaluation.Signals)
				So(again.Scores, ShouldResemble, evaluation.Scores)
				So(again.Recommendation, ShouldEqual, evaluation.Recommendation)
			})

			svc.Stop()
		})

		Convey("When a task filter matches no records", func() {
			_, err := svc.Evaluate(ctx, "cand-1", "task-z")

			Convey("Then the run reports no data", func() {
				So(errors.Is(err, app.ErrNoData), ShouldBeTrue)
				svc.Stop()
			})
		})

		Convey("When a matching task filter is applied", func() {
			evaluation, err := svc.Evaluate(ctx, "cand-1", "task-a")

			Convey("Then the summary names the task", func() {
				So(err, ShouldBeNil)
				So(evaluation.TaskID, ShouldEqual, "task-a")
				svc.Stop()
			})
		})
	})

	Convey("Given a candidate with no history", t, func() {
		svc := startedService(logstore.NewMemoryStore())

		Convey("Then evaluation reports no data", func() {
			_, err := svc.Evaluate(ctx, "ghost", "")
			So(errors.Is(err, app.ErrNoData), ShouldBeTrue)
			svc.Stop()
		})
	})

	Convey("Given a candidate with interactions but no outcomes", t, func() {
		store := logstore.NewMemoryStore()
		_ = store.PutInteraction(ctx, model.Interaction{
			RequestID: "req-1", CandidateID: "cand-1", Timestamp: time.Now().UTC(),
		})
		svc := startedService(store)

		Convey("Then evaluation still reports no data", func() {
			_, err := svc.Evaluate(ctx, "cand-1", "")
			So(errors.Is(err, app.ErrNoData), ShouldBeTrue)
			svc.Stop()
		})
	})

	Convey("Given an empty candidate id", t, func() {
		svc := startedService(logstore.NewMemoryStore())

		Convey("Then evaluation is rejected as invalid input", func() {
			_, err := svc.Evaluate(ctx, "   ", "")
			So(errors.Is(err, app.ErrInvalidInput), ShouldBeTrue)
			svc.Stop()
		})
	})

	Convey("Given a store whose summary writes fail", t, func() {
		store := logstore.NewMemoryStore()
		seedScenario(ctx, store, "cand-1")
		svc := startedService(&failingSummaryStore{MemoryStore: store})

		Convey("Then the whole run fails with a persist error", func() {
			_, err := svc.Evaluate(ctx, "cand-1", "")
			So(errors.Is(err, app.ErrPersist), ShouldBeTrue)

			Convey("And the candidate never reaches the scoreboard", func() {
				_, rankErr := svc.Rank(ctx, "cand-1")
				So(rankErr, ShouldEqual, scoreboard.ErrNotFound)
			})
			svc.Stop()
		})
	})

	Convey("Given a store whose listings fail", t, func() {
		store := logstore.NewMemoryStore()
		seedScenario(ctx, store, "cand-1")
		svc := startedService(&failingListStore{MemoryStore: store})

		Convey("Then the fetch error is surfaced, not treated as no data", func() {
			_, err := svc.Evaluate(ctx, "cand-1", "")
			So(err, ShouldNotBeNil)
			So(errors.Is(err, app.ErrNoData), ShouldBeFalse)
			svc.Stop()
		})
	})
}

func TestRecordOutcomeBackpressure(t *testing.T) {
	ctx := context.Background()

	Convey("Given a single worker stuck on a slow write and a full queue", t, func() {
		store := &blockingStore{
			MemoryStore: logstore.NewMemoryStore(),
			started:     make(chan struct{}, 8),
			release:     make(chan struct{}),
		}
		svc := app.New(
			app.WithStore(store),
			app.WithInvoker(assistant.NewStaticInvoker()),
			app.WithWorkerCount(1),
			app.WithQueueSize(1),
		)
		So(svc.Start(ctx), ShouldBeNil)

		// First outcome occupies the worker, second fills the queue.
		_, err := svc.RecordOutcome(ctx, app.OutcomeRequest{CandidateID: "cand-1", RequestID: "req-1"})
		So(err, ShouldBeNil)
		<-store.started
		_, err = svc.RecordOutcome(ctx, app.OutcomeRequest{CandidateID: "cand-1", RequestID: "req-2"})
		So(err, ShouldBeNil)

		Convey("When another outcome arrives", func() {
			_, err := svc.RecordOutcome(ctx, app.OutcomeRequest{CandidateID: "cand-1", RequestID: "req-3"})

			Convey("Then it is rejected as backpressure and can be retried", func() {
				So(errors.Is(err, app.ErrBackpressure), ShouldBeTrue)

				close(store.release)
				duplicate, retryErr := svc.RecordOutcome(ctx, app.OutcomeRequest{CandidateID: "cand-1", RequestID: "req-3"})
				So(retryErr, ShouldBeNil)
				So(duplicate, ShouldBeFalse)
				svc.Stop()
			})
		})
	})
}

// blockingStore stalls record writes until release closes, so tests can
// hold the worker mid-write.
type blockingStore struct {
	*logstore.MemoryStore
	started chan struct{}
	release chan struct{}
}

func (b *blockingStore) PutOutcome(ctx context.Context, out model.Outcome) error {
	b.started <- struct{}{}
	<-b.release
	return b.MemoryStore.PutOutcome(ctx, out)
}

// failingSummaryStore fails every summary write.
type failingSummaryStore struct {
	*logstore.MemoryStore
}

func (f *failingSummaryStore) PutSummary(context.Context, model.Summary) error {
	return errors.New("bucket unavailable")
}

// failingListStore fails every listing.
type failingListStore struct {
	*logstore.MemoryStore
}

func (f *failingListStore) ListInteractions(context.Context, string, string) ([]model.Interaction, error) {
	return nil, errors.New("bucket unavailable")
}
