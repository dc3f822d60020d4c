// Package types contains the JSON read shapes shared by the HTTP layer, the
// websocket feed and the report binary.
package types

import (
	"github.com/okian/touchline/internal/domain/eventlog"
	"github.com/okian/touchline/internal/domain/matchtime"
	"github.com/okian/touchline/internal/domain/model"
)

// ClockView is the scoreboard clock as shown to clients.
type ClockView struct {
	ElapsedSeconds    int    `json:"elapsed_seconds"`
	Stopwatch         string `json:"stopwatch"`
	Label             string `json:"label"`
	Phase             string `json:"phase"`
	SecondHalf        bool   `json:"second_half"`
	RegulationSeconds int    `json:"regulation_seconds"`
}

// Scoreboard is the current score with the current team names.
type Scoreboard struct {
	Home      string `json:"home"`
	Away      string `json:"away"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
}

// State is the full live view pushed on connect and after each mutation.
type State struct {
	SessionID  string          `json:"session_id"`
	Clock      ClockView       `json:"clock"`
	Scoreboard Scoreboard      `json:"scoreboard"`
	Timeline   []TimelineEntry `json:"timeline"`
}

// Ack acknowledges a recorded goal or incident.
type Ack struct {
	Kind        string `json:"kind"`
	Index       int    `json:"index"`
	DisplayTime string `json:"display_time"`
}

// TimelineEntry is one row of the merged timeline. Goal rows carry scorer,
// assist and side; incident rows carry label and score.
type TimelineEntry struct {
	Kind           string `json:"kind"`
	Index          int    `json:"index"`
	RawTimeSeconds int    `json:"raw_time_seconds"`
	DisplayTime    string `json:"display_time"`

	Scorer string `json:"scorer,omitempty"`
	Assist string `json:"assist,omitempty"`
	Side   string `json:"side,omitempty"`

	Label string `json:"label,omitempty"`
	Score string `json:"score,omitempty"`
}

// NewClockView builds a ClockView. label is the formatted match time.
func NewClockView(elapsed int, label, phase string, secondHalf bool, regulation int) ClockView {
	return ClockView{
		ElapsedSeconds:    elapsed,
		Stopwatch:         matchtime.Stopwatch(elapsed),
		Label:             label,
		Phase:             phase,
		SecondHalf:        secondHalf,
		RegulationSeconds: regulation,
	}
}

// FromEntry converts a timeline entry, rendering incident labels with the
// current team names.
func FromEntry(e eventlog.Entry, home, away string) TimelineEntry {
	out := TimelineEntry{
		Kind:           e.Kind.String(),
		Index:          e.Index,
		RawTimeSeconds: e.Event.RawSeconds(),
		DisplayTime:    e.Event.DisplayTime(),
	}
	switch ev := e.Event.(type) {
	case *model.Goal:
		out.Scorer = ev.Scorer
		out.Assist = ev.Assist
		out.Side = ev.Side.String()
	case *model.Incident:
		out.Label, out.Score = ev.Describe(home, away)
		if ev.Side != model.SideNone {
			out.Side = ev.Side.String()
		}
	}
	return out
}

// Live feed message types.
const (
	FeedTick         = "tick"
	FeedNotification = "notification"
	FeedState        = "state"
)

// FeedMessage is one websocket frame of the live feed.
type FeedMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
