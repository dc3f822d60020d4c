package dedupe

type config struct {
	maxSize int
}

// Option configures an in-memory deduper.
type Option func(*config)

// WithMaxSize sets the maximum number of ids to remember. Zero or a
// negative value means unbounded.
func WithMaxSize(maxSize int) Option {
	return func(c *config) {
		c.maxSize = maxSize
	}
}
