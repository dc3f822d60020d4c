// Package clock tracks elapsed playing time and the match phase.
//
// Elapsed time while running is always derived from a wall-clock anchor
// rather than accumulated from ticks, so throttled or delayed ticks never
// cause drift. The periodic tick only samples the derived value for display
// and persistence.
//
// A Clock is not safe for concurrent use; its owner serializes access,
// including from the tick handler.
package clock

import (
	"time"

	"github.com/okian/touchline/internal/domain/errs"
	"github.com/okian/touchline/internal/domain/matchtime"
)

// Default clock configuration.
const (
	DefaultRegulationSeconds = 3600
	DefaultTickInterval      = 100 * time.Millisecond
	millisPerSecond          = 1000
)

// Phase is the clock's run state.
type Phase int

// Clock phases.
const (
	Stopped Phase = iota
	Running
	Paused
	HalfTimeBreak
	FullTime
)

var phaseNames = map[Phase]string{
	Stopped:       "stopped",
	Running:       "running",
	Paused:        "paused",
	HalfTimeBreak: "half_time",
	FullTime:      "full_time",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "unknown"
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, bool) {
	for p, name := range phaseNames {
		if name == s {
			return p, true
		}
	}
	return Stopped, false
}

// State is a read-only snapshot of the clock.
type State struct {
	ElapsedSeconds    int    `json:"elapsed_seconds"`
	Phase             string `json:"phase"`
	StartEpochMillis  *int64 `json:"start_epoch_millis,omitempty"`
	SecondHalf        bool   `json:"second_half"`
	RegulationSeconds int    `json:"regulation_seconds"`
}

// Tick identifies one firing of the clock's timer. Only ticks from the
// currently armed timer are accepted by Sample.
type Tick struct {
	gen uint64
}

// Clock is the match clock state machine.
type Clock struct {
	src      Source
	interval time.Duration
	onTick   func(Tick)

	elapsed    int
	phase      Phase
	anchor     int64 // epoch millis; meaningful only while Running
	secondHalf bool
	regulation int

	timer Timer
	gen   uint64
}

// New returns a stopped clock.
func New(opts ...Option) *Clock {
	c := &Clock{
		src:        NewRealSource(),
		interval:   DefaultTickInterval,
		regulation: DefaultRegulationSeconds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins or resumes play, including after full time for extra time.
// It fails only if the clock is already running.
func (c *Clock) Start() error {
	const op = "clock.start"
	if c.phase == Running {
		return errs.Newf(op, errs.ErrInvalidState, "cannot start while %s", c.phase)
	}
	c.anchor = c.nowMillis() - int64(c.elapsed)*millisPerSecond
	c.phase = Running
	c.arm()
	return nil
}

// Pause freezes the elapsed time. Valid only while running.
func (c *Clock) Pause() error {
	const op = "clock.pause"
	if c.phase != Running {
		return errs.Newf(op, errs.ErrInvalidState, "cannot pause while %s", c.phase)
	}
	c.disarm()
	c.elapsed = c.derived()
	c.anchor = 0
	c.phase = Paused
	return nil
}

// CurrentSeconds returns the elapsed playing time. It never mutates the clock.
func (c *Clock) CurrentSeconds() int {
	if c.phase != Running {
		return c.elapsed
	}
	return c.derived()
}

// TriggerHalfTime jumps to the half-time break at exactly half the regulation
// length and marks the second half.
func (c *Clock) TriggerHalfTime() error {
	c.disarm()
	c.elapsed = c.regulation / 2
	c.anchor = 0
	c.phase = HalfTimeBreak
	c.secondHalf = true
	return nil
}

// TriggerFullTime ends the match. The elapsed time keeps its sampled value,
// which may exceed the regulation length.
func (c *Clock) TriggerFullTime() error {
	if c.phase == Running {
		c.elapsed = c.derived()
	}
	c.disarm()
	c.anchor = 0
	c.phase = FullTime
	return nil
}

// SetRegulationSeconds changes the match length. Recorded event labels are
// not recomputed. Not allowed while the clock runs.
func (c *Clock) SetRegulationSeconds(n int) error {
	const op = "clock.set_regulation"
	if n <= 0 {
		return errs.Newf(op, errs.ErrValidation, "regulation seconds must be positive, got %d", n)
	}
	if c.phase == Running {
		return errs.Newf(op, errs.ErrInvalidState, "cannot change match length while running")
	}
	c.regulation = n
	return nil
}

// Reset returns the clock to kickoff. The regulation length is kept.
func (c *Clock) Reset() {
	c.disarm()
	c.elapsed = 0
	c.anchor = 0
	c.phase = Stopped
	c.secondHalf = false
}

// Detach stops the tick timer without changing the state. A running clock
// keeps its anchor, so a later Snapshot and Restore resume it.
func (c *Clock) Detach() {
	c.disarm()
}

// Sample records the derived elapsed time for tick t. It reports false when t
// belongs to a timer that has since been cancelled or the clock is no longer
// running, in which case nothing changes.
func (c *Clock) Sample(t Tick) (int, bool) {
	if c.phase != Running || t.gen != c.gen || c.timer == nil {
		return 0, false
	}
	c.elapsed = c.derived()
	return c.elapsed, true
}

// Label formats raw seconds with the clock's current configuration.
func (c *Clock) Label(raw int) (string, error) {
	return matchtime.Format(raw, c.regulation, c.secondHalf)
}

// Phase returns the current phase.
func (c *Clock) Phase() Phase { return c.phase }

// SecondHalf reports whether half time has been called.
func (c *Clock) SecondHalf() bool { return c.secondHalf }

// RegulationSeconds returns the configured match length.
func (c *Clock) RegulationSeconds() int { return c.regulation }

// Snapshot returns the clock state with the elapsed time derived as of now.
func (c *Clock) Snapshot() State {
	s := State{
		ElapsedSeconds:    c.CurrentSeconds(),
		Phase:             c.phase.String(),
		SecondHalf:        c.secondHalf,
		RegulationSeconds: c.regulation,
	}
	if c.phase == Running {
		anchor := c.anchor
		s.StartEpochMillis = &anchor
	}
	return s
}

// Restore replaces the clock state with s. A running state resumes from its
// stored anchor so time spent while the process was down is counted; a
// running state without an anchor is restored as paused.
func (c *Clock) Restore(s State) error {
	const op = "clock.restore"
	phase, ok := ParsePhase(s.Phase)
	if !ok {
		return errs.Newf(op, errs.ErrValidation, "unknown phase %q", s.Phase)
	}
	if s.ElapsedSeconds < 0 {
		return errs.Newf(op, errs.ErrValidation, "negative elapsed seconds %d", s.ElapsedSeconds)
	}
	c.disarm()
	if s.RegulationSeconds > 0 {
		c.regulation = s.RegulationSeconds
	}
	c.elapsed = s.ElapsedSeconds
	c.secondHalf = s.SecondHalf
	c.anchor = 0
	c.phase = phase
	if phase == Running {
		if s.StartEpochMillis == nil {
			c.phase = Paused
			return nil
		}
		c.anchor = *s.StartEpochMillis
		c.arm()
	}
	return nil
}

func (c *Clock) derived() int {
	secs := (c.nowMillis() - c.anchor) / millisPerSecond
	if secs < 0 {
		return 0
	}
	return int(secs)
}

func (c *Clock) nowMillis() int64 {
	return c.src.Now().UnixMilli()
}

// arm cancels any active timer before starting a new one, so at most one
// timer is ever live.
func (c *Clock) arm() {
	c.disarm()
	c.gen++
	tick := Tick{gen: c.gen}
	handler := c.onTick
	c.timer = c.src.Every(c.interval, func() {
		if handler != nil {
			handler(tick)
		}
	})
}

func (c *Clock) disarm() {
	if c.timer == nil {
		return
	}
	c.timer.Stop()
	c.timer = nil
}
