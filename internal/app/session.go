// Package service provides the match session: the single write path over
// one match's clock, event log and team names, persisted after every change.
package service

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/touchline/internal/adapters/notify"
	"github.com/okian/touchline/internal/adapters/repository"
	"github.com/okian/touchline/internal/domain/clock"
	"github.com/okian/touchline/internal/domain/dedupe"
	"github.com/okian/touchline/internal/domain/errs"
	"github.com/okian/touchline/internal/domain/eventlog"
	"github.com/okian/touchline/internal/domain/model"
	"github.com/okian/touchline/internal/domain/report"
	"github.com/okian/touchline/internal/domain/scoring"
	"github.com/okian/touchline/internal/domain/types"
	"github.com/okian/touchline/pkg/logger"
	"github.com/okian/touchline/pkg/metrics"
)

// Default team names.
const (
	DefaultHomeTeam = "Home"
	DefaultAwayTeam = "Opposition"
)

// Session owns one match. Every method is safe for concurrent use; clock
// ticks are serialized with user operations by the same mutex.
type Session struct {
	mu sync.Mutex

	id    string
	clock *clock.Clock
	log   *eventlog.Log

	home, away               string
	homeHistory, awayHistory []string
	defaultHome, defaultAway string
	roster                   []string

	src          clock.Source
	tickInterval time.Duration
	regulation   int
	dedupeSize   int

	store    repository.Store
	notifier notify.Notifier
	feed     notify.Broadcaster
	deduper  dedupe.Deduper[types.Ack]
	newID    func() string

	lastTick       int
	persistFailing bool
	started        bool

	logger logger.Logger
}

// New constructs a Session. Call Start before use to load any stored match.
func New(opts ...Option) *Session {
	s := &Session{
		defaultHome:  DefaultHomeTeam,
		defaultAway:  DefaultAwayTeam,
		src:          clock.NewRealSource(),
		tickInterval: clock.DefaultTickInterval,
		regulation:   clock.DefaultRegulationSeconds,
		dedupeSize:   dedupe.DefaultMaxSize,
		store:        repository.NewMemoryStore(),
		notifier:     notify.Multi{},
		newID:        uuid.NewString,
		lastTick:     -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("session")
	}

	s.store = repository.Instrument(s.store)
	s.clock = clock.New(
		clock.WithSource(s.src),
		clock.WithTickInterval(s.tickInterval),
		clock.WithRegulationSeconds(s.regulation),
		clock.WithTickHandler(s.onTick),
	)
	s.log = eventlog.New(s.clock)
	s.deduper = s.newDeduper()
	s.resetTeamsLocked()
	return s
}

// Start restores the stored match, if any. A clock stored as running
// resumes from its stored anchor.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if err := s.restoreLocked(ctx); err != nil {
		s.logger.Error(ctx, "failed to restore match", logger.Error(err))
		return err
	}
	s.started = true
	metrics.UpdateElapsedSeconds(s.clock.CurrentSeconds())

	goals, incidents := s.log.Len()
	s.logger.Info(ctx, "match session started",
		logger.String("session_id", s.id),
		logger.String("phase", s.clock.Phase().String()),
		logger.Int("elapsed", s.clock.CurrentSeconds()),
		logger.Int("goals", goals),
		logger.Int("incidents", incidents),
	)
	return nil
}

// Stop halts ticking and writes a final snapshot. A running clock is
// stored as running so the next Start resumes it.
func (s *Session) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.clock.Detach()
	s.persistLocked(ctx, "session.stop")
	s.started = false
	s.logger.Info(ctx, "match session stopped", logger.String("session_id", s.id))
}

// ID returns the session id. It changes on Reset.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// StartClock starts or resumes play.
func (s *Session) StartClock(ctx context.Context) error {
	const op = "session.start_clock"
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.clock.Start(); err != nil {
		s.rejectLocked(ctx, op, err)
		return err
	}
	s.lastTick = -1
	s.transitionedLocked(ctx, op, msgStarted, model.Success)
	return nil
}

// PauseClock pauses play.
func (s *Session) PauseClock(ctx context.Context) error {
	const op = "session.pause_clock"
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.clock.Pause(); err != nil {
		s.rejectLocked(ctx, op, err)
		return err
	}
	s.transitionedLocked(ctx, op, msgPaused, model.Danger)
	return nil
}

// HalfTime records the half time incident and moves the clock to the break.
func (s *Session) HalfTime(ctx context.Context) (types.Ack, error) {
	return s.RecordIncident(ctx, "", string(model.HalfTime))
}

// FullTime records the full time incident and ends the match.
func (s *Session) FullTime(ctx context.Context) (types.Ack, error) {
	return s.RecordIncident(ctx, "", string(model.FullTime))
}

// SetRegulationSeconds changes the match length.
func (s *Session) SetRegulationSeconds(ctx context.Context, n int) error {
	const op = "session.set_regulation"
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.clock.SetRegulationSeconds(n); err != nil {
		s.rejectLocked(ctx, op, err)
		return err
	}
	s.commitLocked(ctx, op)
	return nil
}

// Reset clears the match: clock, events, team names and seen request ids. The match length
// is kept and a new session id is issued.
func (s *Session) Reset(ctx context.Context) error {
	const op = "session.reset"
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock.Reset()
	s.log.Clear()
	s.resetTeamsLocked()
	s.deduper = s.newDeduper()
	s.id = s.newID()
	s.lastTick = -1

	if err := s.store.Clear(ctx); err != nil {
		s.persistResultLocked(ctx, op, err)
	}
	s.transitionedLocked(ctx, op, msgReset, model.Info)
	return nil
}

// RecordGoal records a goal at the current match time. An away goal is
// always credited to the away team by name, whatever scorer is given. A non-empty
// requestID that was seen before returns the first acknowledgement.
func (s *Session) RecordGoal(ctx context.Context, requestID, scorer, assist string, side model.Side) (types.Ack, error) {
	const op = "session.record_goal"
	s.mu.Lock()
	defer s.mu.Unlock()

	if ack, ok := s.duplicateLocked(requestID); ok {
		return ack, nil
	}

	scorer = strings.TrimSpace(scorer)
	assist = strings.TrimSpace(assist)
	switch {
	case side == model.Away:
		// Opposition players are not tracked by name.
		scorer, assist = s.away, s.away
	case side == model.Home && scorer == "":
		err := errs.Newf(op, errs.ErrValidation, "home goal needs a scorer")
		s.rejectLocked(ctx, op, err)
		return types.Ack{}, err
	}

	idx, err := s.log.RecordGoal(scorer, assist, s.clock.CurrentSeconds(), side)
	if err != nil {
		s.rejectLocked(ctx, op, err)
		return types.Ack{}, err
	}
	goals := s.log.Goals()
	ack := types.Ack{Kind: model.KindGoal.String(), Index: idx, DisplayTime: goals[idx].Display}
	s.deduper.Record(requestID, ack)
	metrics.RecordGoal(side.String())

	msg, sev := goalMessage(scorer, side)
	s.notifyLocked(ctx, msg, sev)
	s.commitLocked(ctx, op)
	return ack, nil
}

// RecordIncident records an incident at the current match time. Half Time
// and Full Time also move the clock; their label is taken before the move
// and they snapshot the score. An incident naming a team is tied to it.
func (s *Session) RecordIncident(ctx context.Context, requestID, label string) (types.Ack, error) {
	const op = "session.record_incident"
	s.mu.Lock()
	defer s.mu.Unlock()

	if ack, ok := s.duplicateLocked(requestID); ok {
		return ack, nil
	}

	kind := model.IncidentKind(strings.TrimSpace(label))

	var opts []eventlog.IncidentOption
	if kind.IsPeriodEnd() {
		h, a := s.log.Score()
		opts = append(opts, eventlog.WithScoreSnapshot(
			model.ScoreLabel(s.home, h, a, s.away),
			model.TeamNames{Home: s.home, Away: s.away},
		))
	} else if side, name := s.mentionedTeamLocked(string(kind)); side != model.SideNone {
		opts = append(opts, eventlog.WithTeam(side, name))
	}

	idx, err := s.log.RecordIncident(kind, s.clock.CurrentSeconds(), opts...)
	if err != nil {
		s.rejectLocked(ctx, op, err)
		return types.Ack{}, err
	}

	switch kind {
	case model.HalfTime:
		err = s.clock.TriggerHalfTime()
	case model.FullTime:
		err = s.clock.TriggerFullTime()
	}
	if err != nil {
		s.logger.Error(ctx, "clock transition failed after recording", logger.String("op", op), logger.Error(err))
	}
	if kind.IsPeriodEnd() {
		metrics.RecordClockTransition(s.clock.Phase().String())
		metrics.UpdateElapsedSeconds(s.clock.CurrentSeconds())
	}

	incidents := s.log.Incidents()
	ack := types.Ack{Kind: model.KindIncident.String(), Index: idx, DisplayTime: incidents[idx].Display}
	s.deduper.Record(requestID, ack)
	metrics.RecordIncident(incidentMetricLabel(kind))

	msg, sev := incidentMessage(kind)
	s.notifyLocked(ctx, msg, sev)
	s.commitLocked(ctx, op)
	return ack, nil
}

// Delete removes the event of kind at index.
func (s *Session) Delete(ctx context.Context, kind model.Kind, index int) error {
	const op = "session.delete"
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.log.Delete(kind, index) {
		err := errs.Newf(op, errs.ErrNotFound, "no %s at index %d", kind, index)
		s.rejectLocked(ctx, op, err)
		return err
	}
	metrics.RecordDeletion(kind.String())
	s.notifyLocked(ctx, msgDeleted, model.Danger)
	s.commitLocked(ctx, op)
	return nil
}

// EditTime sets the raw time of the event of kind at index and relabels it
// with the current clock configuration.
func (s *Session) EditTime(ctx context.Context, kind model.Kind, index, raw int) error {
	const op = "session.edit_time"
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.log.EditTime(kind, index, raw); err != nil {
		s.rejectLocked(ctx, op, err)
		return err
	}
	metrics.RecordTimeEdit(kind.String())
	s.notifyLocked(ctx, msgTimeEdited, model.Success)
	s.commitLocked(ctx, op)
	return nil
}

// RenameTeam sets the display name of side. Blank names are ignored. Every
// name a side has had is kept so earlier goals stay classified.
func (s *Session) RenameTeam(ctx context.Context, side model.Side, name string) error {
	const op = "session.rename_team"
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	switch side {
	case model.Home:
		s.home = name
		s.homeHistory = withName(s.homeHistory, name)
	case model.Away:
		s.away = name
		s.awayHistory = withName(s.awayHistory, name)
	default:
		err := errs.Newf(op, errs.ErrValidation, "unknown side")
		s.rejectLocked(ctx, op, err)
		return err
	}
	s.notifyLocked(ctx, renameMessage(name), model.Success)
	s.commitLocked(ctx, op)
	return nil
}

// ClockView returns the clock as shown on the scoreboard.
func (s *Session) ClockView() types.ClockView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clockViewLocked()
}

// Scoreboard returns the score by side with the current team names.
func (s *Session) Scoreboard() types.Scoreboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoreboardLocked()
}

// Timeline returns goals and incidents merged in time order.
func (s *Session) Timeline() []types.TimelineEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timelineLocked()
}

// Summary returns the match statistics.
func (s *Session) Summary() scoring.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

// SummaryText returns the shareable text summary and its share link.
func (s *Session) SummaryText() (text, shareURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text = report.Text(report.Match{
		Home:           s.home,
		Away:           s.away,
		ElapsedSeconds: s.clock.CurrentSeconds(),
		Summary:        s.summaryLocked(),
		Timeline:       slices.Collect(s.log.Timeline()),
	})
	return text, report.ShareURL(text)
}

// Roster returns the configured player names.
func (s *Session) Roster() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.roster...)
}

// State returns the full live view.
func (s *Session) State() types.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// onTick runs on the clock's timer goroutine.
func (s *Session) onTick(t clock.Tick) {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed, ok := s.clock.Sample(t)
	if !ok || elapsed == s.lastTick {
		return
	}
	s.lastTick = elapsed
	metrics.RecordClockTick(elapsed)

	b, err := json.Marshal(s.clock.Snapshot())
	if err == nil {
		err = s.store.Save(ctx, keyClock, b)
	}
	s.persistResultLocked(ctx, "session.tick", err)
	s.publishLocked(types.FeedTick, s.clockViewLocked())
}

func (s *Session) duplicateLocked(requestID string) (types.Ack, bool) {
	if requestID == "" {
		return types.Ack{}, false
	}
	ack, ok := s.deduper.Lookup(requestID)
	if ok {
		metrics.RecordDuplicate()
	}
	return ack, ok
}

func (s *Session) transitionedLocked(ctx context.Context, op, msg string, sev model.Severity) {
	phase := s.clock.Phase().String()
	metrics.RecordClockTransition(phase)
	metrics.UpdateElapsedSeconds(s.clock.CurrentSeconds())
	s.logger.Info(ctx, "clock transition",
		logger.String("op", op),
		logger.String("phase", phase),
		logger.Int("elapsed", s.clock.CurrentSeconds()),
	)
	s.notifyLocked(ctx, msg, sev)
	s.commitLocked(ctx, op)
}

func (s *Session) rejectLocked(ctx context.Context, op string, err error) {
	s.logger.Warn(ctx, "operation rejected", logger.String("op", op), logger.Error(err))
}

// commitLocked persists the full snapshot and pushes the new state.
func (s *Session) commitLocked(ctx context.Context, op string) {
	s.persistLocked(ctx, op)
	s.publishLocked(types.FeedState, s.stateLocked())
}

func (s *Session) persistLocked(ctx context.Context, op string) {
	values, err := s.snapshotLocked()
	if err == nil {
		err = s.store.SaveAll(ctx, values)
	}
	s.persistResultLocked(ctx, op, err)
}

// persistResultLocked logs a failed write and warns the user once per run
// of failures. The in-memory match is kept either way.
func (s *Session) persistResultLocked(ctx context.Context, op string, err error) {
	if err == nil {
		if s.persistFailing {
			s.persistFailing = false
			s.logger.Info(ctx, "persistence recovered", logger.String("op", op))
		}
		return
	}
	err = errs.Wrap(op, errs.ErrPersistence, err)
	s.logger.Error(ctx, "failed to persist match", logger.String("op", op), logger.Error(err))
	if !s.persistFailing {
		s.persistFailing = true
		s.notifyLocked(ctx, msgPersistFail, model.Warning)
	}
}

func (s *Session) notifyLocked(ctx context.Context, msg string, sev model.Severity) {
	s.notifier.Notify(ctx, model.NewNotification(s.newID(), msg, sev, s.src.Now()))
}

func (s *Session) publishLocked(kind string, data any) {
	if s.feed == nil {
		return
	}
	s.feed.Broadcast(types.FeedMessage{Type: kind, Data: data})
}

func (s *Session) resetTeamsLocked() {
	s.home, s.away = s.defaultHome, s.defaultAway
	s.homeHistory = []string{s.home}
	s.awayHistory = []string{s.away}
}

// mentionedTeamLocked finds the team whose current name appears in label.
func (s *Session) mentionedTeamLocked(label string) (model.Side, string) {
	switch {
	case s.home != "" && strings.Contains(label, s.home):
		return model.Home, s.home
	case s.away != "" && strings.Contains(label, s.away):
		return model.Away, s.away
	}
	return model.SideNone, ""
}

func (s *Session) clockViewLocked() types.ClockView {
	elapsed := s.clock.CurrentSeconds()
	label, err := s.clock.Label(elapsed)
	if err != nil {
		label = ""
	}
	return types.NewClockView(elapsed, label, s.clock.Phase().String(), s.clock.SecondHalf(), s.clock.RegulationSeconds())
}

func (s *Session) scoreboardLocked() types.Scoreboard {
	h, a := s.log.Score()
	return types.Scoreboard{Home: s.home, Away: s.away, HomeGoals: h, AwayGoals: a}
}

func (s *Session) timelineLocked() []types.TimelineEntry {
	out := []types.TimelineEntry{}
	for e := range s.log.Timeline() {
		out = append(out, types.FromEntry(e, s.home, s.away))
	}
	return out
}

func (s *Session) summaryLocked() scoring.Summary {
	return scoring.Summarize(s.log.Goals(), s.home, s.away, s.homeHistory, s.awayHistory)
}

func (s *Session) stateLocked() types.State {
	return types.State{
		SessionID:  s.id,
		Clock:      s.clockViewLocked(),
		Scoreboard: s.scoreboardLocked(),
		Timeline:   s.timelineLocked(),
	}
}

// incidentMetricLabel keeps free-form labels out of metric cardinality.
func incidentMetricLabel(kind model.IncidentKind) string {
	if kind.IsOther() {
		return "other"
	}
	return string(kind)
}

func withName(history []string, name string) []string {
	if name == "" || slices.Contains(history, name) {
		return history
	}
	return append(history, name)
}

func (s *Session) newDeduper() dedupe.Deduper[types.Ack] {
	return dedupe.NewInMemoryDeduper[types.Ack](dedupe.WithMaxSize(s.dedupeSize))
}
