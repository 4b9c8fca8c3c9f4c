package ficha

import (
	"context"

	"github.com/goliatone/go-ficha/pkg/activity"
)

// migrateLegacy copies the pre-session document into the session key the
// first time a session is read. An existing session document always wins
// and the legacy key is then left alone. Failures are logged and retried on
// the next read. Must be called with s.mu held.
func (s *Store) migrateLegacy(ctx context.Context, sid, key string) {
	if s.migrated[sid] {
		return
	}
	legacyKey := s.keys.Legacy()
	log := s.logger.With().Str("legacy_key", legacyKey).Str("key", key).Logger()

	legacy, ok, err := s.backend.Get(ctx, legacyKey)
	if err != nil {
		log.Error().Err(err).Msg("legacy read failed")
		return
	}
	if !ok || legacy == "" {
		s.migrated[sid] = true
		return
	}

	_, exists, err := s.backend.Get(ctx, key)
	if err != nil {
		log.Error().Err(err).Msg("session read failed during migration")
		return
	}
	if exists {
		s.migrated[sid] = true
		log.Debug().Msg("session document present, legacy left untouched")
		return
	}

	if err := s.backend.Set(ctx, key, legacy); err != nil {
		log.Error().Err(err).Msg("legacy copy failed")
		return
	}
	s.migrated[sid] = true
	if err := s.backend.Delete(ctx, legacyKey); err != nil {
		log.Error().Err(err).Msg("legacy delete failed")
	}

	log.Info().Msg("legacy ficha migrated")
	s.queue(s.event(activity.VerbFichaMigrated, sid, key, change{operation: "migrate"}))
}
