package ficha

import (
	"time"

	"github.com/goliatone/go-ficha/pkg/activity"
	"github.com/rs/zerolog"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithActivityEmitter publishes an event after every successful write.
func WithActivityEmitter(emitter *activity.Emitter) Option {
	return func(s *Store) {
		s.emitter = emitter
	}
}

// WithClock overrides time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRecoveryPolicy replaces RecoverCorrupted.
func WithRecoveryPolicy(policy RecoveryPolicy) Option {
	return func(s *Store) {
		if policy != nil {
			s.recover = policy
		}
	}
}

// WithActor tags emitted events with the acting user or operator id.
func WithActor(actorID string) Option {
	return func(s *Store) {
		s.actorID = actorID
	}
}
