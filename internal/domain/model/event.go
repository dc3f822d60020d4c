// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Side identifies which team an event belongs to.
type Side int

// Team sides. SideNone marks incidents not tied to a team.
const (
	SideNone Side = iota
	Home
	Away
)

func (s Side) String() string {
	switch s {
	case Home:
		return "home"
	case Away:
		return "away"
	default:
		return ""
	}
}

// ParseSide accepts "home" or "away" (case-insensitive).
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home":
		return Home, nil
	case "away":
		return Away, nil
	case "":
		return SideNone, nil
	}
	return SideNone, fmt.Errorf("unknown side %q", s)
}

// MarshalText encodes the side as "home", "away" or "".
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes "home", "away" or "".
func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Kind tags the two event variants.
type Kind int

// Event kinds.
const (
	KindGoal Kind = iota
	KindIncident
)

func (k Kind) String() string {
	if k == KindGoal {
		return "goal"
	}
	return "incident"
}

// IncidentKind names a discrete match event. Any label outside the
// predefined set is a free-form ("other") incident.
type IncidentKind string

// Predefined incident kinds.
const (
	HalfTime IncidentKind = "Half Time"
	FullTime IncidentKind = "Full Time"
	Foul     IncidentKind = "Foul"
	Penalty  IncidentKind = "Penalty"
)

// IsOther reports whether k is a free-form label.
func (k IncidentKind) IsOther() bool {
	switch k {
	case HalfTime, FullTime, Foul, Penalty:
		return false
	}
	return true
}

// IsPeriodEnd reports whether k closes a half.
func (k IncidentKind) IsPeriodEnd() bool {
	return k == HalfTime || k == FullTime
}

// Event is one entry of the match log: a *Goal or an *Incident.
type Event interface {
	Kind() Kind
	RawSeconds() int
	DisplayTime() string
	isEvent()
}

// Goal records a goal.
type Goal struct {
	Scorer         string `json:"scorer"`
	Assist         string `json:"assist"`
	Side           Side   `json:"side"`
	RawTimeSeconds int    `json:"raw_time_seconds"`
	Display        string `json:"display_time"`
}

// Kind implements Event.
func (g *Goal) Kind() Kind { return KindGoal }

// RawSeconds implements Event.
func (g *Goal) RawSeconds() int { return g.RawTimeSeconds }

// DisplayTime implements Event.
func (g *Goal) DisplayTime() string { return g.Display }

func (*Goal) isEvent() {}

// TeamNames is a home/away pair captured when an incident was recorded.
type TeamNames struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// Incident records a discrete match event.
type Incident struct {
	Type           IncidentKind `json:"type"`
	RawTimeSeconds int          `json:"raw_time_seconds"`
	Display        string       `json:"display_time"`

	// Side and TeamName are set when the label mentioned a team by its
	// name at the time of recording.
	Side     Side   `json:"side,omitempty"`
	TeamName string `json:"team_name,omitempty"`

	// Score and Teams snapshot the scoreline at half and full time.
	Score string     `json:"score,omitempty"`
	Teams *TeamNames `json:"teams,omitempty"`
}

// Kind implements Event.
func (i *Incident) Kind() Kind { return KindIncident }

// RawSeconds implements Event.
func (i *Incident) RawSeconds() int { return i.RawTimeSeconds }

// DisplayTime implements Event.
func (i *Incident) DisplayTime() string { return i.Display }

func (*Incident) isEvent() {}

// Describe renders the incident label and score snapshot with the current
// team names in place of the names stored when it was recorded. The stored
// side decides which current name is used, so the association survives
// renames and reused names.
func (i *Incident) Describe(home, away string) (label, score string) {
	label = string(i.Type)
	if i.TeamName != "" {
		switch i.Side {
		case Home:
			label = strings.Replace(label, i.TeamName, home, 1)
		case Away:
			label = strings.Replace(label, i.TeamName, away, 1)
		}
	}

	score = i.Score
	if score != "" && i.Teams != nil {
		score = renameScore(score, *i.Teams, home, away)
	}
	return label, score
}

// renameScore rewrites a "{home} h - a {away}" label. The home name is the
// prefix and the away name the suffix, so each is replaced in its own slot.
func renameScore(score string, was TeamNames, home, away string) string {
	if strings.HasPrefix(score, was.Home) && strings.HasSuffix(score, was.Away) &&
		len(score) >= len(was.Home)+len(was.Away) {
		middle := score[len(was.Home) : len(score)-len(was.Away)]
		return home + middle + away
	}
	score = strings.Replace(score, was.Home, home, 1)
	return strings.Replace(score, was.Away, away, 1)
}

// ScoreLabel formats a scoreline as "{home} h - a {away}".
func ScoreLabel(home string, homeGoals, awayGoals int, away string) string {
	return fmt.Sprintf("%s %d - %d %s", home, homeGoals, awayGoals, away)
}
