package model_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/touchline/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestSide(t *testing.T) {
	convey.Convey("Given side names", t, func() {
		for in, want := range map[string]model.Side{"home": model.Home, " AWAY ": model.Away, "": model.SideNone} {
			got, err := model.ParseSide(in)
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldEqual, want)
		}
		_, err := model.ParseSide("middle")
		convey.So(err, convey.ShouldNotBeNil)
	})

	convey.Convey("Given a goal serialized to JSON", t, func() {
		g := model.Goal{Scorer: "A", Assist: "B", Side: model.Away, RawTimeSeconds: 61, Display: "2"}
		raw, err := json.Marshal(g)
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(raw), convey.ShouldContainSubstring, `"side":"away"`)

		var back model.Goal
		convey.So(json.Unmarshal(raw, &back), convey.ShouldBeNil)
		convey.So(back, convey.ShouldResemble, g)
	})
}

func TestIncidentKind(t *testing.T) {
	convey.Convey("Given incident kinds", t, func() {
		convey.So(model.HalfTime.IsOther(), convey.ShouldBeFalse)
		convey.So(model.Penalty.IsOther(), convey.ShouldBeFalse)
		convey.So(model.IncidentKind("Corner").IsOther(), convey.ShouldBeTrue)
		convey.So(model.FullTime.IsPeriodEnd(), convey.ShouldBeTrue)
		convey.So(model.Foul.IsPeriodEnd(), convey.ShouldBeFalse)
	})
}

func TestIncident_Describe(t *testing.T) {
	convey.Convey("Given a half time incident recorded as Netherton v Opposition", t, func() {
		inc := &model.Incident{
			Type:  model.HalfTime,
			Score: model.ScoreLabel("Netherton", 2, 1, "Opposition"),
			Teams: &model.TeamNames{Home: "Netherton", Away: "Opposition"},
		}

		convey.Convey("When both teams are renamed", func() {
			_, score := inc.Describe("Netherton U12", "Rovers")
			convey.So(score, convey.ShouldEqual, "Netherton U12 2 - 1 Rovers")
		})

		convey.Convey("When the teams swap names", func() {
			_, score := inc.Describe("Opposition", "Netherton")
			convey.Convey("Then each side keeps its own slot", func() {
				convey.So(score, convey.ShouldEqual, "Opposition 2 - 1 Netherton")
			})
		})
	})

	convey.Convey("Given a foul attributed to the away side", t, func() {
		inc := &model.Incident{Type: "Foul by Rovers", Side: model.Away, TeamName: "Rovers"}

		label, score := inc.Describe("Netherton", "Rovers FC")
		convey.So(label, convey.ShouldEqual, "Foul by Rovers FC")
		convey.So(score, convey.ShouldEqual, "")
	})

	convey.Convey("Given an incident with no team association", t, func() {
		inc := &model.Incident{Type: model.Penalty}
		label, _ := inc.Describe("A", "B")
		convey.So(label, convey.ShouldEqual, "Penalty")
	})
}

func TestEventInterface(t *testing.T) {
	convey.Convey("Given both event variants", t, func() {
		events := []model.Event{
			&model.Goal{RawTimeSeconds: 10, Display: "1"},
			&model.Incident{Type: model.Foul, RawTimeSeconds: 20, Display: "1"},
		}
		convey.So(events[0].Kind(), convey.ShouldEqual, model.KindGoal)
		convey.So(events[1].Kind(), convey.ShouldEqual, model.KindIncident)
		convey.So(events[1].RawSeconds(), convey.ShouldEqual, 20)
		convey.So(events[0].DisplayTime(), convey.ShouldEqual, "1")

		convey.So(model.KindGoal.String(), convey.ShouldEqual, "goal")
	})
}
