package clock

import "time"

// Option applies a configuration option to the Clock.
type Option func(*Clock)

// WithSource sets the time source.
func WithSource(src Source) Option {
	return func(c *Clock) {
		if src != nil {
			c.src = src
		}
	}
}

// WithTickInterval sets the sampling period used while running.
func WithTickInterval(d time.Duration) Option {
	return func(c *Clock) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithRegulationSeconds sets the full match length.
func WithRegulationSeconds(n int) Option {
	return func(c *Clock) {
		if n > 0 {
			c.regulation = n
		}
	}
}

// WithTickHandler registers the callback invoked on every tick while running.
// The handler runs on the timer's goroutine and must serialize its access to
// the clock with every other caller.
func WithTickHandler(fn func(Tick)) Option {
	return func(c *Clock) {
		c.onTick = fn
	}
}
