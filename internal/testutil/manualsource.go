// Package testutil holds test doubles shared across packages.
package testutil

import (
	"sync"
	"time"

	"github.com/okian/touchline/internal/domain/clock"
)

// ManualSource implements clock.Source with time that only moves when the
// test says so. Repeating callbacks fire synchronously inside Advance.
type ManualSource struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	src     *ManualSource
	every   time.Duration
	next    time.Time
	fn      func()
	stopped bool
}

// Compile-time assertion that ManualSource implements clock.Source.
var _ clock.Source = (*ManualSource)(nil)

// NewManualSource returns a source frozen at a fixed instant.
func NewManualSource() *ManualSource {
	return NewManualSourceAt(time.Date(2025, 2, 27, 10, 0, 0, 0, time.UTC))
}

// NewManualSourceAt returns a source frozen at t.
func NewManualSourceAt(t time.Time) *ManualSource {
	return &ManualSource{now: t}
}

// Now returns the source's current time.
func (m *ManualSource) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves time to t without firing any callbacks, like a suspended host
// that skipped its timers.
func (m *ManualSource) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Every schedules f every d starting one period from now.
func (m *ManualSource) Every(d time.Duration, f func()) clock.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{src: m, every: d, next: m.now.Add(d), fn: f}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves time forward by d, firing due callbacks in time order.
// It returns the number of callbacks fired.
func (m *ManualSource) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	fired := 0
	for {
		m.mu.Lock()
		var due *manualTimer
		for _, t := range m.timers {
			if t.stopped || t.next.After(target) {
				continue
			}
			if due == nil || t.next.Before(due.next) {
				due = t
			}
		}
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return fired
		}
		m.now = due.next
		due.next = due.next.Add(due.every)
		fn := due.fn
		m.mu.Unlock()

		fn()
		fired++
	}
}

// Active returns the number of timers that have not been stopped.
func (m *ManualSource) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (t *manualTimer) Stop() bool {
	t.src.mu.Lock()
	defer t.src.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}
