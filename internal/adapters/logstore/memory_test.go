package logstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/hireloop/evalcore/internal/adapters/logstore"
	"github.com/hireloop/evalcore/internal/domain/model"
	"github.com/hireloop/evalcore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	os.Exit(m.Run())
}

func interaction(candidateID, taskID, requestID string) model.Interaction {
	return model.Interaction{
		RequestID:   requestID,
		CandidateID: candidateID,
		TaskID:      taskID,
		Timestamp:   time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC),
	}
}

func outcome(candidateID, taskID, requestID string) model.Outcome {
	return model.Outcome{
		RequestID:   requestID,
		CandidateID: candidateID,
		TaskID:      taskID,
		Timestamp:   time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with records from two candidates", t, func() {
		store := logstore.NewMemoryStore()
		So(store.PutInteraction(ctx, interaction("cand-1", "task-a", "req-1")), ShouldBeNil)
		So(store.PutInteraction(ctx, interaction("cand-1", "task-b", "req-2")), ShouldBeNil)
		So(store.PutInteraction(ctx, interaction("cand-2", "task-a", "req-3")), ShouldBeNil)
		So(store.PutOutcome(ctx, outcome("cand-1", "task-a", "req-1")), ShouldBeNil)
		So(store.PutOutcome(ctx, outcome("cand-2", "task-a", "req-3")), ShouldBeNil)

		Convey("Then listing returns only the requested candidate's records", func() {
			records, err := store.ListInteractions(ctx, "cand-1", "")
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 2)
			for _, r := range records {
				So(r.CandidateID, ShouldEqual, "cand-1")
			}
		})

		Convey("And a task filter narrows the listing", func() {
			records, err := store.ListInteractions(ctx, "cand-1", "task-b")
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
			So(records[0].RequestID, ShouldEqual, "req-2")
		})

		Convey("And outcomes list independently of interactions", func() {
			records, err := store.ListOutcomes(ctx, "cand-1", "")
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
			So(records[0].RequestID, ShouldEqual, "req-1")
		})

		Convey("And an unknown candidate lists nothing", func() {
			records, err := store.ListInteractions(ctx, "cand-9", "")
			So(err, ShouldBeNil)
			So(records, ShouldBeEmpty)
		})
	})

	Convey("Given a store containing a corrupt record", t, func() {
		store := logstore.NewMemoryStore()
		So(store.PutInteraction(ctx, interaction("cand-1", "task-a", "req-1")), ShouldBeNil)
		store.PutRaw("interactions/2026/03/07/cand-1/broken.json", []byte("{not json"))

		Convey("Then the corrupt record is skipped and the rest survive", func() {
			records, err := store.ListInteractions(ctx, "cand-1", "")
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
			So(records[0].RequestID, ShouldEqual, "req-1")
		})
	})

	Convey("Given summary writes for a candidate", t, func() {
		store := logstore.NewMemoryStore()
		first := model.Summary{CandidateID: "cand-1", Recommendation: model.RecommendPass}
		second := model.Summary{CandidateID: "cand-1", Recommendation: model.RecommendHire}

		So(store.PutSummary(ctx, first), ShouldBeNil)
		So(store.PutSummary(ctx, second), ShouldBeNil)

		Convey("Then the latest write wins", func() {
			got, ok := store.Summary("cand-1")
			So(ok, ShouldBeTrue)
			So(got.Recommendation, ShouldEqual, model.RecommendHire)
		})

		Convey("And other candidates have no summary", func() {
			_, ok := store.Summary("cand-2")
			So(ok, ShouldBeFalse)
		})
	})
}
