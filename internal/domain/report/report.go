// Package report renders the plain-text match summary that is shared
// with parents and coaches after the game.
package report

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/okian/touchline/internal/domain/eventlog"
	"github.com/okian/touchline/internal/domain/matchtime"
	"github.com/okian/touchline/internal/domain/model"
	"github.com/okian/touchline/internal/domain/scoring"
)

// ShareBase is the link prefix for sharing a summary through WhatsApp.
const ShareBase = "https://wa.me/?text="

// Match is everything the summary needs.
type Match struct {
	Home           string
	Away           string
	ElapsedSeconds int
	Summary        scoring.Summary
	Timeline       []eventlog.Entry
}

// Text renders the summary: header, one line per event in time order and
// the stats block.
func Text(m Match) string {
	var b strings.Builder
	s := m.Summary

	fmt.Fprintf(&b, "⚽ Match Summary: %s vs %s\n", m.Home, m.Away)
	fmt.Fprintf(&b, "⌚ Game Time: %s\n", matchtime.Stopwatch(m.ElapsedSeconds))
	fmt.Fprintf(&b, "🔢 Result: %s (%d - %d)\n\n", s.Result, s.TeamGoals, s.OppositionGoals)

	lines := make([]string, 0, len(m.Timeline))
	for _, e := range m.Timeline {
		lines = append(lines, line(e.Event, m.Home, m.Away))
	}
	b.WriteString(strings.Join(lines, "\n"))

	b.WriteString("\n\n📊 Stats:\n")
	fmt.Fprintf(&b, "Team Goals: %d\nOpposition Goals: %d\n\n", s.TeamGoals, s.OppositionGoals)
	b.WriteString("🥅 Team Goal Scorers:\n")
	b.WriteString(tallies(s.Scorers))
	b.WriteString("\n\n🤝 Team Assists:\n")
	b.WriteString(tallies(s.Assists))
	return b.String()
}

// ShareURL builds the WhatsApp share link for text.
func ShareURL(text string) string {
	return ShareBase + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

func line(ev model.Event, home, away string) string {
	switch e := ev.(type) {
	case *model.Goal:
		if e.Scorer == away {
			return fmt.Sprintf("🥅 %s' - %s Goal", e.Display, away)
		}
		return fmt.Sprintf("🥅 %s' - Goal: %s, Assist: %s", e.Display, e.Scorer, e.Assist)
	case *model.Incident:
		label, score := e.Describe(home, away)
		if score != "" {
			return fmt.Sprintf("%s %s - %s (%s)", icon(e.Type), e.Display, label, score)
		}
		return fmt.Sprintf("%s %s - %s", icon(e.Type), e.Display, label)
	default:
		return ""
	}
}

func icon(k model.IncidentKind) string {
	switch k {
	case model.HalfTime:
		return "⏸️"
	case model.FullTime:
		return "🏁"
	case model.Foul, model.Penalty:
		return "⚠️"
	default:
		return "📝"
	}
}

func tallies(ts []scoring.Tally) string {
	if len(ts) == 0 {
		return "None"
	}
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = fmt.Sprintf("%s: %d", t.Name, t.Count)
	}
	return strings.Join(parts, "\n")
}
