package clock

import (
	"sync"
	"time"
)

// Source abstracts wall-clock reads and the periodic tick so the clock can be
// driven deterministically in tests.
type Source interface {
	// Now returns the current wall-clock time.
	Now() time.Time
	// Every calls f every d until the returned Timer is stopped.
	Every(d time.Duration, f func()) Timer
}

// Timer is a handle on a repeating callback.
type Timer interface {
	// Stop cancels future calls. It reports false if the timer was already stopped.
	// Stop does not wait for a call that is already in flight.
	Stop() bool
}

// RealSource implements Source with the time package.
type RealSource struct{}

// NewRealSource returns a Source backed by time.Now and time.Ticker.
func NewRealSource() *RealSource {
	return &RealSource{}
}

// Now implements Source.Now.
func (RealSource) Now() time.Time {
	return time.Now()
}

// Every implements Source.Every with a ticker goroutine.
func (RealSource) Every(d time.Duration, f func()) Timer {
	t := &realTimer{
		ticker: time.NewTicker(d),
		stop:   make(chan struct{}),
	}
	go t.loop(f)
	return t
}

type realTimer struct {
	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

func (t *realTimer) loop(f func()) {
	for {
		select {
		case <-t.stop:
			return
		case <-t.ticker.C:
			select {
			case <-t.stop:
				return
			default:
			}
			f()
		}
	}
}

func (t *realTimer) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.stop)
		stopped = true
	})
	return stopped
}
