package rules

import (
	"time"

	"github.com/rs/zerolog"
)

// Evaluation describes one rule evaluated by a Runner.
type Evaluation struct {
	Engine   string
	Rule     Rule
	Session  string
	Matched  bool
	Duration time.Duration
	Err      error
}

// Observer receives every Evaluation a Runner performs.
type Observer func(Evaluation)

// LogTo returns an Observer that writes evaluations at debug level and
// failures at warn.
func LogTo(logger zerolog.Logger) Observer {
	return func(ev Evaluation) {
		event := logger.Debug()
		if ev.Err != nil {
			event = logger.Warn().Err(ev.Err)
		}
		event.
			Str("engine", ev.Engine).
			Str("rule", ev.Rule.Code).
			Str("section", ev.Rule.Section).
			Str("session", ev.Session).
			Bool("matched", ev.Matched).
			Dur("duration", ev.Duration).
			Msg("rule evaluated")
	}
}
