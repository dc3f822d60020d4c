package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/touchline/internal/domain/eventlog"
	"github.com/okian/touchline/internal/domain/model"
	"github.com/okian/touchline/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromEntry(t *testing.T) {
	Convey("Given a goal entry", t, func() {
		g := &model.Goal{Scorer: "Sam", Assist: "Alex", Side: model.Home, RawTimeSeconds: 500, Display: "9"}
		row := types.FromEntry(eventlog.Entry{Event: g, Kind: model.KindGoal, Index: 2}, "H", "A")

		Convey("Then the goal fields are carried over", func() {
			So(row, ShouldResemble, types.TimelineEntry{
				Kind: "goal", Index: 2, RawTimeSeconds: 500, DisplayTime: "9",
				Scorer: "Sam", Assist: "Alex", Side: "home",
			})
		})
	})

	Convey("Given an incident recorded under an old team name", t, func() {
		inc := &model.Incident{
			Type: "Opposition corner", RawTimeSeconds: 60, Display: "1",
			Side: model.Away, TeamName: "Opposition",
		}
		row := types.FromEntry(eventlog.Entry{Event: inc, Kind: model.KindIncident}, "H", "Rovers")

		Convey("Then the label uses the current name", func() {
			So(row.Kind, ShouldEqual, "incident")
			So(row.Label, ShouldEqual, "Rovers corner")
			So(row.Side, ShouldEqual, "away")
			So(row.Scorer, ShouldBeEmpty)
		})

		Convey("Then goal-only fields are omitted from JSON", func() {
			b, err := json.Marshal(row)
			So(err, ShouldBeNil)
			So(string(b), ShouldNotContainSubstring, "scorer")
			So(string(b), ShouldContainSubstring, `"label":"Rovers corner"`)
		})
	})
}

func TestNewClockView(t *testing.T) {
	Convey("Given an elapsed time", t, func() {
		v := types.NewClockView(1900, "30+2", "running", false, 3600)

		So(v.Stopwatch, ShouldEqual, "31:40")
		So(v.Label, ShouldEqual, "30+2")
		So(v.Phase, ShouldEqual, "running")
		So(v.RegulationSeconds, ShouldEqual, 3600)
	})
}
