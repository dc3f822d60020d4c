package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/okian/touchline/internal/adapters/repository"
	"github.com/okian/touchline/internal/domain/clock"
	"github.com/okian/touchline/internal/domain/errs"
	"github.com/okian/touchline/internal/domain/model"
)

// Store keys. Each is one JSON document.
const (
	keySession   = "session"
	keyClock     = "clock"
	keyGoals     = "goals"
	keyIncidents = "incidents"
	keyTeams     = "teams"
)

type sessionDoc struct {
	ID string `json:"id"`
}

type teamsDoc struct {
	Home        string   `json:"home"`
	Away        string   `json:"away"`
	HomeHistory []string `json:"home_history"`
	AwayHistory []string `json:"away_history"`
}

// snapshotLocked encodes the whole match for SaveAll.
func (s *Session) snapshotLocked() (map[string][]byte, error) {
	docs := map[string]any{
		keySession:   sessionDoc{ID: s.id},
		keyClock:     s.clock.Snapshot(),
		keyGoals:     s.log.Goals(),
		keyIncidents: s.log.Incidents(),
		keyTeams: teamsDoc{
			Home:        s.home,
			Away:        s.away,
			HomeHistory: s.homeHistory,
			AwayHistory: s.awayHistory,
		},
	}
	out := make(map[string][]byte, len(docs))
	for k, v := range docs {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		out[k] = b
	}
	return out, nil
}

// restoreLocked loads the stored match. Missing keys keep their defaults;
// a store without a session document is a fresh match. Every document is
// decoded before any is applied, so a failure leaves the session untouched.
func (s *Session) restoreLocked(ctx context.Context) error {
	const op = "session.restore"

	var sess sessionDoc
	found, err := s.loadDoc(ctx, keySession, &sess)
	if err != nil {
		return errs.Wrap(op, errs.ErrPersistence, err)
	}
	if !found || sess.ID == "" {
		s.id = s.newID()
		s.persistLocked(ctx, op)
		return nil
	}

	var (
		teams     teamsDoc
		state     clock.State
		goals     []model.Goal
		incidents []model.Incident
	)
	hasTeams, err := s.loadDoc(ctx, keyTeams, &teams)
	if err != nil {
		return errs.Wrap(op, errs.ErrPersistence, err)
	}
	hasClock, err := s.loadDoc(ctx, keyClock, &state)
	if err != nil {
		return errs.Wrap(op, errs.ErrPersistence, err)
	}
	if _, err := s.loadDoc(ctx, keyGoals, &goals); err != nil {
		return errs.Wrap(op, errs.ErrPersistence, err)
	}
	if _, err := s.loadDoc(ctx, keyIncidents, &incidents); err != nil {
		return errs.Wrap(op, errs.ErrPersistence, err)
	}

	// Clock.Restore validates before it changes anything, so it goes first.
	if hasClock {
		if err := s.clock.Restore(state); err != nil {
			return errs.Wrap(op, errs.ErrPersistence, err)
		}
	}
	s.id = sess.ID
	if hasTeams {
		s.restoreTeamsLocked(teams)
	}
	s.log.Restore(goals, incidents)
	return nil
}

// loadDoc decodes key into v. It reports false when the key is absent.
func (s *Session) loadDoc(ctx context.Context, key string, v any) (bool, error) {
	b, err := s.store.Load(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Session) restoreTeamsLocked(t teamsDoc) {
	if t.Home != "" {
		s.home = t.Home
	}
	if t.Away != "" {
		s.away = t.Away
	}
	s.homeHistory = withName(t.HomeHistory, s.home)
	s.awayHistory = withName(t.AwayHistory, s.away)
}
