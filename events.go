package ficha

import (
	"context"

	"github.com/goliatone/go-ficha/pkg/activity"
)

func (s *Store) event(verb, sid, key string, c change) activity.Event {
	return activity.Event{
		Verb:       verb,
		ActorID:    s.actorID,
		SessionID:  sid,
		Key:        key,
		Section:    string(c.section),
		Operation:  c.operation,
		Index:      c.index,
		OccurredAt: s.now(),
	}
}

// queue holds event until the lock is released. Must be called with s.mu
// held.
func (s *Store) queue(event activity.Event) {
	if s.emitter.Enabled() {
		s.pending = append(s.pending, event)
	}
}

// unlock releases s.mu and then publishes the events queued while it was
// held, so hooks may call back into the Store.
func (s *Store) unlock(ctx context.Context) {
	events := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, event := range events {
		s.emit(ctx, event)
	}
}

// emit publishes event; hook failures are logged and never fail the write.
func (s *Store) emit(ctx context.Context, event activity.Event) {
	if !s.emitter.Enabled() {
		return
	}
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("verb", event.Verb).Str("object_id", event.ObjectID()).Msg("activity hook failed")
	}
}
