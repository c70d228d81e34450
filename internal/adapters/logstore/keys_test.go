package logstore

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRecordKeys(t *testing.T) {
	ts := time.Date(2026, time.March, 7, 12, 30, 0, 0, time.UTC)

	Convey("Given a record timestamp", t, func() {
		Convey("Then interaction keys are date-partitioned with zero padding", func() {
			key := interactionKey("cand-1", "req-9", ts)
			So(key, ShouldEqual, "interactions/2026/03/07/cand-1/req-9.json")
		})

		Convey("And outcome keys share the layout under their own prefix", func() {
			key := outcomeKey("cand-1", "req-9", ts)
			So(key, ShouldEqual, "outcomes/2026/03/07/cand-1/req-9.json")
		})

		Convey("And non-UTC timestamps are normalized before partitioning", func() {
			east := time.FixedZone("UTC+10", 10*60*60)
			// 01:00 on the 8th in UTC+10 is still the 7th in UTC.
			local := time.Date(2026, time.March, 8, 1, 0, 0, 0, east)
			key := interactionKey("cand-1", "req-9", local)
			So(key, ShouldEqual, "interactions/2026/03/07/cand-1/req-9.json")
		})
	})

	Convey("Given a candidate id", t, func() {
		Convey("Then summary keys live under the metrics prefix", func() {
			So(summaryKey("cand-1"), ShouldEqual, "metrics/cand-1/summary.json")
		})
	})
}

func TestKeyMatchesCandidate(t *testing.T) {
	Convey("Given record keys for several candidates", t, func() {
		key := "interactions/2026/03/07/cand-1/req-9.json"

		Convey("Then a key matches only its own candidate", func() {
			So(keyMatchesCandidate(key, "cand-1"), ShouldBeTrue)
			So(keyMatchesCandidate(key, "cand-2"), ShouldBeFalse)
		})

		Convey("And malformed keys never match", func() {
			So(keyMatchesCandidate("interactions/cand-1", "cand-1"), ShouldBeFalse)
			So(keyMatchesCandidate("", "cand-1"), ShouldBeFalse)
		})
	})
}
