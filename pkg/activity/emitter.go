package activity

import (
	"context"
	"strings"
	"time"
)

// DefaultChannel labels events that do not name a channel.
const DefaultChannel = "ficha"

// Config controls an Emitter.
type Config struct {
	Enabled bool
	Channel string
	// Now stamps events that carry no OccurredAt.
	Now func() time.Time
}

// Emitter is the store's handle on its hooks.
type Emitter struct {
	hooks   Hooks
	channel string
	now     func() time.Time
	enabled bool
}

func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	e := &Emitter{
		hooks:   hooks.compact(),
		channel: strings.TrimSpace(cfg.Channel),
		now:     cfg.Now,
	}
	if e.channel == "" {
		e.channel = DefaultChannel
	}
	if e.now == nil {
		e.now = time.Now
	}
	e.enabled = cfg.Enabled && len(e.hooks) > 0
	return e
}

// Enabled reports whether Emit reaches any hook. A nil Emitter is disabled.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Emit fills the default channel and timestamp, then notifies every hook.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now()
	}
	return e.hooks.Notify(ctx, event)
}
