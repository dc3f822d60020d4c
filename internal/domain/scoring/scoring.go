// Package scoring aggregates recorded goals into the match statistics shown
// on the summary: team totals, scorer and assist tallies and the result.
package scoring

import (
	"slices"
	"sort"
	"strings"

	"github.com/okian/touchline/internal/domain/model"
)

// notApplicable is the roster placeholder for "no assist"; it is never tallied.
const notApplicable = "N/A"

// Result classifies the match from the home side's point of view.
type Result string

// Match results.
const (
	Win  Result = "WIN"
	Loss Result = "LOSS"
	Draw Result = "DRAW"
)

// Tally is a name with its count.
type Tally struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary is the aggregate of a match's goals.
type Summary struct {
	HomeTeam        string  `json:"home_team"`
	AwayTeam        string  `json:"away_team"`
	TeamGoals       int     `json:"team_goals"`
	OppositionGoals int     `json:"opposition_goals"`
	Scorers         []Tally `json:"scorers"`
	Assists         []Tally `json:"assists"`
	Result          Result  `json:"result"`
}

// Summarize aggregates goals.
//
// A goal is the opposition's when its scorer is any name the away side has
// had this session; otherwise it counts for the home side when the scorer is
// a real name. Classifying by name history keeps earlier goals where they
// were after a team is renamed. Empty and "N/A" names are never tallied.
// Tallies are ordered by count, highest first, ties in order of first
// appearance.
func Summarize(goals []model.Goal, homeName, awayName string, homeHistory, awayHistory []string) Summary {
	s := Summary{HomeTeam: homeName, AwayTeam: awayName}
	scorers := newCounter()
	assists := newCounter()

	for _, g := range goals {
		if slices.Contains(awayHistory, g.Scorer) {
			s.OppositionGoals++
			continue
		}
		if !slices.Contains(homeHistory, g.Scorer) && g.Scorer == "" {
			continue
		}
		if countable(g.Scorer) {
			s.TeamGoals++
			scorers.add(g.Scorer)
		}
		if countable(g.Assist) {
			assists.add(g.Assist)
		}
	}

	s.Scorers = scorers.sorted()
	s.Assists = assists.sorted()
	s.Result = Classify(s.TeamGoals, s.OppositionGoals)
	return s
}

// Classify compares two totals.
func Classify(team, opposition int) Result {
	switch {
	case team > opposition:
		return Win
	case team < opposition:
		return Loss
	default:
		return Draw
	}
}

func countable(name string) bool {
	return strings.TrimSpace(name) != "" && name != notApplicable
}

// counter keeps first-seen order so ties sort stably.
type counter struct {
	order []string
	n     map[string]int
}

func newCounter() *counter {
	return &counter{n: make(map[string]int)}
}

func (c *counter) add(name string) {
	if _, ok := c.n[name]; !ok {
		c.order = append(c.order, name)
	}
	c.n[name]++
}

func (c *counter) sorted() []Tally {
	out := make([]Tally, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, Tally{Name: name, Count: c.n[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
