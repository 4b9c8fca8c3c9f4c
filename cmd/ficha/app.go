package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	ficha "github.com/goliatone/go-ficha"
	"github.com/goliatone/go-ficha/internal/config"
	"github.com/goliatone/go-ficha/internal/exitcode"
	"github.com/goliatone/go-ficha/pkg/activity"
	"github.com/goliatone/go-ficha/pkg/session"
	"github.com/goliatone/go-ficha/pkg/state"
	"github.com/goliatone/go-ficha/pkg/state/dynamobackend"
	"github.com/goliatone/go-ficha/pkg/state/pgbackend"
)

// openBackend connects the configured backend. The returned func releases it.
func openBackend(ctx context.Context, log zerolog.Logger) (state.Backend, func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := pgbackend.NewPool(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		return pgbackend.New(pool, cfg.Table), pool.Close, nil
	case config.BackendDynamoDB:
		awsCfg, err := dynamobackend.NewConfigFromEnv(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("dynamodb: %w", err)
		}
		return dynamobackend.New(dynamobackend.NewClient(awsCfg), cfg.Table), func() {}, nil
	default:
		log.Warn().Msg("memory backend: state is discarded when the command exits")
		return state.NewMemoryBackend(), func() {}, nil
	}
}

// openStore validates cfg, opens the backend and builds a Store. Errors carry
// the matching exit code. The returned func releases the backend.
func openStore(ctx context.Context, log zerolog.Logger) (*ficha.Store, func(), error) {
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return nil, nil, exitcode.Wrap(exitcode.UsageError, err)
	}

	backend, release, err := openBackend(ctx, log)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.Backend).Msg("backend connection failed")
		return nil, nil, exitcode.Wrap(exitcode.BackendError, err)
	}

	keys := session.NewKeys(cfg.Prefix)
	sessions := session.NewProvider(keys, backend, session.WithFixedID(cfg.SessionID))
	emitter := activity.NewEmitter(activity.Hooks{logHook(log)}, activity.Config{Enabled: true})

	store, err := ficha.New(backend, sessions,
		ficha.WithLogger(log),
		ficha.WithActivityEmitter(emitter),
	)
	if err != nil {
		release()
		log.Error().Err(err).Msg("store setup failed")
		return nil, nil, exitcode.Wrap(exitcode.StoreError, err)
	}
	return store, release, nil
}

func logHook(log zerolog.Logger) activity.HookFunc {
	return func(_ context.Context, event activity.Event) error {
		log.Info().
			Str("verb", event.Verb).
			Str("object", event.ObjectID()).
			Fields(event.Metadata()).
			Msg("activity")
		return nil
	}
}
