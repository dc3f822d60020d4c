// Package eventlog owns the goals and incidents recorded during a match.
//
// Goals and incidents live in two insertion-ordered sequences and are
// addressed by (kind, index within that kind). The merged, time-ordered view
// is recomputed on every call.
package eventlog

import (
	"cmp"
	"iter"
	"slices"
	"strings"

	"github.com/okian/touchline/internal/domain/errs"
	"github.com/okian/touchline/internal/domain/model"
)

// Labeler turns raw seconds into a display label using the current clock
// configuration.
type Labeler interface {
	Label(raw int) (string, error)
}

// Entry is one row of the merged timeline. Index is the event's position in
// its own sequence, which is what delete and edit take.
type Entry struct {
	Event model.Event
	Kind  model.Kind
	Index int
}

// IncidentOption decorates an incident at recording time.
type IncidentOption func(*model.Incident)

// WithScoreSnapshot stores the scoreline and team names at recording time.
func WithScoreSnapshot(score string, teams model.TeamNames) IncidentOption {
	return func(i *model.Incident) {
		i.Score = score
		t := teams
		i.Teams = &t
	}
}

// WithTeam ties the incident to a side under the name it had when recorded.
func WithTeam(side model.Side, name string) IncidentOption {
	return func(i *model.Incident) {
		if side == model.SideNone || name == "" {
			return
		}
		i.Side = side
		i.TeamName = name
	}
}

// Log is the match event log. It is not safe for concurrent use.
type Log struct {
	labeler   Labeler
	goals     []*model.Goal
	incidents []*model.Incident
}

// New returns an empty log that labels times with labeler.
func New(labeler Labeler) *Log {
	return &Log{labeler: labeler}
}

// RecordGoal appends a goal and returns its index among goals.
func (l *Log) RecordGoal(scorer, assist string, raw int, side model.Side) (int, error) {
	const op = "eventlog.record_goal"
	if side != model.Home && side != model.Away {
		return 0, errs.Newf(op, errs.ErrValidation, "goal needs a side")
	}
	display, err := l.labeler.Label(raw)
	if err != nil {
		return 0, errs.Wrap(op, errs.ErrValidation, err)
	}
	l.goals = append(l.goals, &model.Goal{
		Scorer:         scorer,
		Assist:         assist,
		Side:           side,
		RawTimeSeconds: raw,
		Display:        display,
	})
	return len(l.goals) - 1, nil
}

// RecordIncident appends an incident and returns its index among incidents.
func (l *Log) RecordIncident(kind model.IncidentKind, raw int, opts ...IncidentOption) (int, error) {
	const op = "eventlog.record_incident"
	kind = model.IncidentKind(strings.TrimSpace(string(kind)))
	if kind == "" {
		return 0, errs.Newf(op, errs.ErrValidation, "incident needs a kind")
	}
	display, err := l.labeler.Label(raw)
	if err != nil {
		return 0, errs.Wrap(op, errs.ErrValidation, err)
	}
	inc := &model.Incident{Type: kind, RawTimeSeconds: raw, Display: display}
	for _, opt := range opts {
		opt(inc)
	}
	l.incidents = append(l.incidents, inc)
	return len(l.incidents) - 1, nil
}

// DeleteGoal removes the goal at index. It reports false if there is none.
func (l *Log) DeleteGoal(index int) bool {
	if index < 0 || index >= len(l.goals) {
		return false
	}
	l.goals = slices.Delete(l.goals, index, index+1)
	return true
}

// DeleteIncident removes the incident at index. It reports false if there is none.
func (l *Log) DeleteIncident(index int) bool {
	if index < 0 || index >= len(l.incidents) {
		return false
	}
	l.incidents = slices.Delete(l.incidents, index, index+1)
	return true
}

// Delete removes the event of kind at index.
func (l *Log) Delete(kind model.Kind, index int) bool {
	switch kind {
	case model.KindGoal:
		return l.DeleteGoal(index)
	case model.KindIncident:
		return l.DeleteIncident(index)
	}
	return false
}

// EditTime moves an event to raw seconds and regenerates its label with the
// current clock configuration. On error the event is unchanged.
func (l *Log) EditTime(kind model.Kind, index int, raw int) error {
	const op = "eventlog.edit_time"
	var target *int
	var label *string
	switch kind {
	case model.KindGoal:
		if index < 0 || index >= len(l.goals) {
			return errs.Newf(op, errs.ErrNotFound, "goal %d", index)
		}
		target, label = &l.goals[index].RawTimeSeconds, &l.goals[index].Display
	case model.KindIncident:
		if index < 0 || index >= len(l.incidents) {
			return errs.Newf(op, errs.ErrNotFound, "incident %d", index)
		}
		target, label = &l.incidents[index].RawTimeSeconds, &l.incidents[index].Display
	default:
		return errs.Newf(op, errs.ErrValidation, "unknown kind %d", kind)
	}

	display, err := l.labeler.Label(raw)
	if err != nil {
		return errs.Wrap(op, errs.ErrValidation, err)
	}
	*target = raw
	*label = display
	return nil
}

// Timeline yields every event ordered by raw time. Equal times keep
// insertion order with goals ahead of incidents. Each call recomputes the
// order from the current sequences.
func (l *Log) Timeline() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		entries := make([]Entry, 0, len(l.goals)+len(l.incidents))
		for i, g := range l.goals {
			cp := *g
			entries = append(entries, Entry{Event: &cp, Kind: model.KindGoal, Index: i})
		}
		for i, inc := range l.incidents {
			cp := *inc
			if inc.Teams != nil {
				teams := *inc.Teams
				cp.Teams = &teams
			}
			entries = append(entries, Entry{Event: &cp, Kind: model.KindIncident, Index: i})
		}
		slices.SortStableFunc(entries, func(a, b Entry) int {
			return cmp.Compare(a.Event.RawSeconds(), b.Event.RawSeconds())
		})
		for _, e := range entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Goals returns a copy of the goal sequence.
func (l *Log) Goals() []model.Goal {
	out := make([]model.Goal, len(l.goals))
	for i, g := range l.goals {
		out[i] = *g
	}
	return out
}

// Incidents returns a copy of the incident sequence.
func (l *Log) Incidents() []model.Incident {
	out := make([]model.Incident, len(l.incidents))
	for i, inc := range l.incidents {
		out[i] = *inc
		if inc.Teams != nil {
			teams := *inc.Teams
			out[i].Teams = &teams
		}
	}
	return out
}

// Score counts goals per side.
func (l *Log) Score() (home, away int) {
	for _, g := range l.goals {
		switch g.Side {
		case model.Home:
			home++
		case model.Away:
			away++
		}
	}
	return home, away
}

// Len returns the number of goals and incidents.
func (l *Log) Len() (goals, incidents int) {
	return len(l.goals), len(l.incidents)
}

// Clear drops every event.
func (l *Log) Clear() {
	l.goals = nil
	l.incidents = nil
}

// Restore replaces both sequences with copies of goals and incidents.
// Stored labels are kept as they were.
func (l *Log) Restore(goals []model.Goal, incidents []model.Incident) {
	l.Clear()
	for i := range goals {
		g := goals[i]
		l.goals = append(l.goals, &g)
	}
	for i := range incidents {
		inc := incidents[i]
		l.incidents = append(l.incidents, &inc)
	}
}
