package service

import (
	"time"

	"github.com/okian/touchline/internal/adapters/notify"
	"github.com/okian/touchline/internal/adapters/repository"
	"github.com/okian/touchline/internal/domain/clock"
	"github.com/okian/touchline/pkg/logger"
)

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithStore sets the persistence backend.
func WithStore(store repository.Store) Option {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithNotifier sets where user notifications go.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithFeed sets the live feed that receives ticks and state changes.
func WithFeed(feed notify.Broadcaster) Option {
	return func(s *Session) {
		s.feed = feed
	}
}

// WithSource sets the clock's time source.
func WithSource(src clock.Source) Option {
	return func(s *Session) {
		if src != nil {
			s.src = src
		}
	}
}

// WithTickInterval sets how often the running clock is sampled.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithRegulationSeconds sets the default match length.
func WithRegulationSeconds(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.regulation = n
		}
	}
}

// WithTeams sets the default team names used at kickoff and after reset.
func WithTeams(home, away string) Option {
	return func(s *Session) {
		if home != "" {
			s.defaultHome = home
		}
		if away != "" {
			s.defaultAway = away
		}
	}
}

// WithRoster sets the player names offered for scorer and assist.
func WithRoster(names []string) Option {
	return func(s *Session) {
		s.roster = append([]string(nil), names...)
	}
}

// WithDedupeSize bounds the request id cache.
func WithDedupeSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithIDGenerator replaces uuid generation for session and notification ids.
func WithIDGenerator(f func() string) Option {
	return func(s *Session) {
		if f != nil {
			s.newID = f
		}
	}
}

// WithLogger sets a custom logger for the session.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}
