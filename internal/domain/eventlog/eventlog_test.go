package eventlog_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/okian/touchline/internal/domain/errs"
	"github.com/okian/touchline/internal/domain/eventlog"
	"github.com/okian/touchline/internal/domain/matchtime"
	"github.com/okian/touchline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fixedLabeler formats with a settable configuration.
type fixedLabeler struct {
	regulation int
	secondHalf bool
}

func (f *fixedLabeler) Label(raw int) (string, error) {
	return matchtime.Format(raw, f.regulation, f.secondHalf)
}

func collect(l *eventlog.Log) []eventlog.Entry {
	return slices.Collect(l.Timeline())
}

func TestLog_Scenario(t *testing.T) {
	Convey("Given a 60 minute match log", t, func() {
		lab := &fixedLabeler{regulation: 3600}
		log := eventlog.New(lab)

		Convey("When a goal, half time and an away goal are recorded", func() {
			_, err := log.RecordGoal("A", "B", 500, model.Home)
			So(err, ShouldBeNil)
			_, err = log.RecordIncident(model.HalfTime, 1800)
			So(err, ShouldBeNil)
			lab.secondHalf = true
			_, err = log.RecordGoal("C", "", 1850, model.Away)
			So(err, ShouldBeNil)

			Convey("Then the timeline holds exactly those three in order", func() {
				entries := collect(log)
				So(len(entries), ShouldEqual, 3)
				So(entries[0].Kind, ShouldEqual, model.KindGoal)
				So(entries[0].Event.DisplayTime(), ShouldEqual, "9")
				So(entries[1].Kind, ShouldEqual, model.KindIncident)
				So(entries[1].Event.DisplayTime(), ShouldEqual, "30")
				So(entries[2].Kind, ShouldEqual, model.KindGoal)
				So(entries[2].Event.DisplayTime(), ShouldEqual, "31")
				So(entries[2].Index, ShouldEqual, 1)

				g, ok := entries[2].Event.(*model.Goal)
				So(ok, ShouldBeTrue)
				So(g.Scorer, ShouldEqual, "C")
			})

			Convey("Then the timeline is idempotent", func() {
				So(collect(log), ShouldResemble, collect(log))
			})
		})
	})
}

func TestLog_Ordering(t *testing.T) {
	Convey("Given two goals", t, func() {
		log := eventlog.New(&fixedLabeler{regulation: 3600})
		_, _ = log.RecordGoal("A", "", 100, model.Home)
		_, _ = log.RecordGoal("B", "", 900, model.Home)

		Convey("When an incident is inserted later but between them in time", func() {
			_, err := log.RecordIncident(model.Foul, 400)
			So(err, ShouldBeNil)

			Convey("Then it is placed by time, not by insertion", func() {
				entries := collect(log)
				So(entries[1].Kind, ShouldEqual, model.KindIncident)
				So(entries[1].Event.RawSeconds(), ShouldEqual, 400)
				So(entries[2].Event.RawSeconds(), ShouldEqual, 900)
			})
		})

		Convey("When an incident shares a goal's raw time", func() {
			_, _ = log.RecordIncident(model.Penalty, 100)

			Convey("Then the goal comes first", func() {
				entries := collect(log)
				So(entries[0].Kind, ShouldEqual, model.KindGoal)
				So(entries[1].Kind, ShouldEqual, model.KindIncident)
			})
		})

		Convey("When the caller stops iterating early", func() {
			n := 0
			for range log.Timeline() {
				n++
				break
			}
			So(n, ShouldEqual, 1)
		})

		Convey("When a timeline entry is modified by the caller", func() {
			entries := collect(log)
			entries[0].Event.(*model.Goal).Scorer = "hacked"

			Convey("Then the log is unaffected", func() {
				So(log.Goals()[0].Scorer, ShouldEqual, "A")
			})
		})
	})
}

func TestLog_DeleteAndScore(t *testing.T) {
	Convey("Given a log with goals for both sides", t, func() {
		log := eventlog.New(&fixedLabeler{regulation: 3600})
		sides := []model.Side{model.Home, model.Away, model.Home, model.Home, model.Away}
		for i, s := range sides {
			_, err := log.RecordGoal("P", "", 60*(i+1), s)
			So(err, ShouldBeNil)
		}
		_, _ = log.RecordIncident(model.Foul, 30)

		home, away := log.Score()
		So(home, ShouldEqual, 3)
		So(away, ShouldEqual, 2)

		Convey("When goals are deleted one by one", func() {
			for len(log.Goals()) > 0 {
				So(log.DeleteGoal(0), ShouldBeTrue)
				h, a := log.Score()
				total, _ := log.Len()
				So(h+a, ShouldEqual, total)
				fh := 0
				for _, g := range log.Goals() {
					if g.Side == model.Home {
						fh++
					}
				}
				So(h, ShouldEqual, fh)
			}
		})

		Convey("When deleting out of range", func() {
			So(log.DeleteGoal(5), ShouldBeFalse)
			So(log.DeleteGoal(-1), ShouldBeFalse)
			So(log.DeleteIncident(1), ShouldBeFalse)
			So(log.Delete(model.KindIncident, 3), ShouldBeFalse)

			Convey("Then nothing is removed", func() {
				g, i := log.Len()
				So(g, ShouldEqual, 5)
				So(i, ShouldEqual, 1)
			})
		})

		Convey("When deleting an incident by kind", func() {
			So(log.Delete(model.KindIncident, 0), ShouldBeTrue)
			_, i := log.Len()
			So(i, ShouldEqual, 0)
		})

		Convey("When the log is cleared", func() {
			log.Clear()
			g, i := log.Len()
			So(g+i, ShouldEqual, 0)
			So(collect(log), ShouldBeEmpty)
		})
	})
}

func TestLog_EditTime(t *testing.T) {
	Convey("Given a first half goal", t, func() {
		lab := &fixedLabeler{regulation: 3600}
		log := eventlog.New(lab)
		_, _ = log.RecordGoal("A", "B", 500, model.Home)

		Convey("When its time is edited after half time", func() {
			lab.secondHalf = true
			So(log.EditTime(model.KindGoal, 0, 2400), ShouldBeNil)

			Convey("Then the label is regenerated with the current configuration", func() {
				g := log.Goals()[0]
				So(g.RawTimeSeconds, ShouldEqual, 2400)
				So(g.Display, ShouldEqual, "40")
			})
		})

		Convey("When the clock configuration changes without an edit", func() {
			lab.regulation = 600

			Convey("Then the stored label is untouched", func() {
				So(log.Goals()[0].Display, ShouldEqual, "9")
			})
		})

		Convey("When editing a missing event", func() {
			err := log.EditTime(model.KindIncident, 0, 60)
			So(errors.Is(err, errs.ErrNotFound), ShouldBeTrue)
			err = log.EditTime(model.KindGoal, 3, 60)
			So(errors.Is(err, errs.ErrNotFound), ShouldBeTrue)
		})

		Convey("When editing to a negative time", func() {
			err := log.EditTime(model.KindGoal, 0, -60)

			Convey("Then the edit is rejected and the goal unchanged", func() {
				So(errors.Is(err, errs.ErrValidation), ShouldBeTrue)
				So(log.Goals()[0].RawTimeSeconds, ShouldEqual, 500)
				So(log.Goals()[0].Display, ShouldEqual, "9")
			})
		})
	})
}

func TestLog_Validation(t *testing.T) {
	Convey("Given an empty log", t, func() {
		log := eventlog.New(&fixedLabeler{regulation: 3600})

		_, err := log.RecordGoal("A", "", 10, model.SideNone)
		So(errors.Is(err, errs.ErrValidation), ShouldBeTrue)

		_, err = log.RecordIncident("  ", 10)
		So(errors.Is(err, errs.ErrValidation), ShouldBeTrue)

		_, err = log.RecordGoal("A", "", -1, model.Home)
		So(errors.Is(err, errs.ErrValidation), ShouldBeTrue)

		g, i := log.Len()
		So(g+i, ShouldEqual, 0)
	})
}

func TestLog_SnapshotsAndRestore(t *testing.T) {
	Convey("Given an incident with a score snapshot and team", t, func() {
		log := eventlog.New(&fixedLabeler{regulation: 3600})
		teams := model.TeamNames{Home: "Netherton", Away: "Opposition"}
		idx, err := log.RecordIncident(model.FullTime, 3650,
			eventlog.WithScoreSnapshot(model.ScoreLabel("Netherton", 1, 0, "Opposition"), teams),
			eventlog.WithTeam(model.Home, "Netherton"),
		)
		So(err, ShouldBeNil)
		So(idx, ShouldEqual, 0)

		inc := log.Incidents()[0]
		So(inc.Score, ShouldEqual, "Netherton 1 - 0 Opposition")
		So(*inc.Teams, ShouldResemble, teams)
		So(inc.Side, ShouldEqual, model.Home)
		So(inc.Display, ShouldEqual, "30+31")

		Convey("When restored into another log", func() {
			other := eventlog.New(&fixedLabeler{regulation: 1200})
			other.Restore(log.Goals(), log.Incidents())

			Convey("Then the events and their stored labels carry over", func() {
				So(other.Incidents(), ShouldResemble, log.Incidents())
			})
		})
	})
}
