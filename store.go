package ficha

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-ficha/internal/hydrate"
	"github.com/goliatone/go-ficha/pkg/activity"
	"github.com/goliatone/go-ficha/pkg/session"
	"github.com/goliatone/go-ficha/pkg/state"
	"github.com/rs/zerolog"
)

// Store is the read/write gateway to the current session's Ficha. Each
// operation runs its read-merge-write cycle under one lock.
type Store struct {
	backend  state.Backend
	sessions *session.Provider
	keys     session.Keys

	logger  zerolog.Logger
	emitter *activity.Emitter
	now     func() time.Time
	recover RecoveryPolicy
	actorID string

	mu       sync.Mutex
	migrated map[string]bool
	pending  []activity.Event
}

// New builds a Store over backend, namespaced by the provider's keys.
func New(backend state.Backend, sessions *session.Provider, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, ErrNoBackend
	}
	if sessions == nil {
		return nil, ErrNoSession
	}
	s := &Store{
		backend:  backend,
		sessions: sessions,
		keys:     sessions.Keys(),
		logger:   zerolog.Nop(),
		now:      time.Now,
		recover:  RecoverCorrupted,
		migrated: make(map[string]bool),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Keys returns the key deriver in use.
func (s *Store) Keys() session.Keys {
	return s.keys
}

// SessionID returns the current session id.
func (s *Store) SessionID(ctx context.Context) (string, error) {
	return s.sessions.ID(ctx)
}

// SessionKey returns the key holding the current session's document.
func (s *Store) SessionKey(ctx context.Context) (string, error) {
	sid, err := s.sessions.ID(ctx)
	if err != nil {
		return "", err
	}
	return s.keys.Session(sid), nil
}

// ChartKey returns the key a chart renderer writes its PNG data URI to.
func (s *Store) ChartKey(ctx context.Context) (string, error) {
	sid, err := s.sessions.ID(ctx)
	if err != nil {
		return "", err
	}
	return s.keys.Chart(sid), nil
}

// Chart returns the cached chart image data URI, empty when none is cached.
func (s *Store) Chart(ctx context.Context) (string, error) {
	key, err := s.ChartKey(ctx)
	if err != nil {
		return "", fmt.Errorf("ficha: session id: %w", err)
	}
	value, _, err := s.backend.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("ficha: read %s: %w", key, err)
	}
	return value, nil
}

// SetChart caches a rendered chart image. An empty value drops the cache.
func (s *Store) SetChart(ctx context.Context, dataURL string) error {
	key, err := s.ChartKey(ctx)
	if err != nil {
		return fmt.Errorf("ficha: session id: %w", err)
	}
	if dataURL == "" {
		if err := s.backend.Delete(ctx, key); err != nil {
			return fmt.Errorf("ficha: delete %s: %w", key, err)
		}
		return nil
	}
	if !strings.HasPrefix(dataURL, "data:image/") {
		return ErrInvalidChart
	}
	if err := s.backend.Set(ctx, key, dataURL); err != nil {
		return fmt.Errorf("ficha: write %s: %w", key, err)
	}
	return nil
}

// GetAll returns the merged snapshot. It never fails: corrupt payloads go
// through the recovery policy and backend errors degrade to Defaults.
func (s *Store) GetAll(ctx context.Context) Ficha {
	f, _ := s.Snapshot(ctx)
	return f
}

// Snapshot is GetAll plus the ETag of the stored payload, empty when nothing
// is stored. Pass the tag to Mutate to detect concurrent writers.
func (s *Store) Snapshot(ctx context.Context) (Ficha, string) {
	s.mu.Lock()
	defer s.unlock(ctx)

	current, err := s.load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("ficha read failed, serving defaults")
		return Defaults(), ""
	}
	return current.doc, state.ETag(current.raw)
}

// Mutate runs fn over the current snapshot and writes the result. A non-empty
// etag must match the stored payload or ErrETagMismatch is returned and
// nothing is written.
func (s *Store) Mutate(ctx context.Context, etag string, fn func(*Ficha) error) error {
	if fn == nil {
		return nil
	}
	return s.update(ctx, change{operation: "mutate", etag: etag}, func(f *Ficha) (bool, error) {
		if err := fn(f); err != nil {
			return false, err
		}
		return true, nil
	})
}

// ResetAll writes Defaults to the session key and drops the cached chart.
func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlock(ctx)

	sid, err := s.sessions.ID(ctx)
	if err != nil {
		return fmt.Errorf("ficha: session id: %w", err)
	}
	key := s.keys.Session(sid)
	if err := s.write(ctx, key, Defaults()); err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, s.keys.Chart(sid)); err != nil {
		return fmt.Errorf("ficha: delete %s: %w", s.keys.Chart(sid), err)
	}
	s.queue(s.event(activity.VerbFichaReset, sid, key, change{operation: "reset"}))
	return nil
}

// ResetAllSessions deletes the legacy key and every key under the namespace,
// then invalidates the session id so the next call starts a new session.
func (s *Store) ResetAllSessions(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlock(ctx)

	keys, err := s.backend.Keys(ctx, s.keys.Prefix)
	if err != nil {
		return fmt.Errorf("ficha: list %s: %w", s.keys.Prefix, err)
	}
	deleted, charts := 0, 0
	for _, key := range keys {
		if key != s.keys.Legacy() && !strings.HasPrefix(key, s.keys.Namespace()) {
			continue
		}
		if err := s.backend.Delete(ctx, key); err != nil {
			return fmt.Errorf("ficha: delete %s: %w", key, err)
		}
		deleted++
		if s.keys.IsChart(key) {
			charts++
		}
	}
	if err := s.sessions.Invalidate(ctx); err != nil {
		return fmt.Errorf("ficha: %w", err)
	}
	s.migrated = make(map[string]bool)

	s.logger.Info().
		Int("keys", deleted).
		Int("charts", charts).
		Str("namespace", s.keys.Namespace()).
		Msg("all sessions purged")
	purged := s.event(activity.VerbSessionsPurged, "", "", change{operation: "purge"})
	purged.Namespace = s.keys.Namespace()
	purged.Count = deleted
	s.queue(purged)
	return nil
}

type loaded struct {
	sid string
	key string
	raw string
	doc Ficha
}

// load must be called with s.mu held.
func (s *Store) load(ctx context.Context) (loaded, error) {
	sid, err := s.sessions.ID(ctx)
	if err != nil {
		return loaded{}, fmt.Errorf("ficha: session id: %w", err)
	}
	key := s.keys.Session(sid)
	s.migrateLegacy(ctx, sid, key)

	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return loaded{}, fmt.Errorf("ficha: read %s: %w", key, err)
	}
	out := loaded{sid: sid, key: key, raw: raw}
	if !ok || raw == "" {
		out.doc = Defaults()
		return out, nil
	}
	doc, err := decodeFicha(hydrate.Context{Key: key, SessionID: sid}, raw)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("corrupt ficha payload, recovering")
		doc = s.recover(key, raw, err)
		if err := normalize(hydrate.Context{Key: key, SessionID: sid}, &doc); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("recovered ficha did not normalize, using defaults")
			doc = Defaults()
		}
	}
	out.doc = doc
	return out, nil
}

func (s *Store) write(ctx context.Context, key string, f Ficha) error {
	raw, err := encodeFicha(f)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("ficha: write %s: %w", key, err)
	}
	return nil
}

// change describes a mutation for events and logs.
type change struct {
	section   Section
	operation string
	index     *int
	etag      string
}

// update runs one read-merge-write cycle. fn reports whether it changed the
// document; unchanged documents are not written.
func (s *Store) update(ctx context.Context, c change, fn func(*Ficha) (bool, error)) error {
	s.mu.Lock()
	defer s.unlock(ctx)

	current, err := s.load(ctx)
	if err != nil {
		return err
	}
	if c.etag != "" && c.etag != state.ETag(current.raw) {
		return fmt.Errorf("ficha: %s: %w", current.key, state.ErrETagMismatch)
	}
	doc := current.doc
	changed, err := fn(&doc)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := s.write(ctx, current.key, doc); err != nil {
		return err
	}
	s.logger.Debug().Str("key", current.key).Str("section", string(c.section)).Str("operation", c.operation).Msg("ficha updated")
	s.queue(s.event(activity.VerbFichaUpdated, current.sid, current.key, c))
	return nil
}
