package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-ficha/internal/config"
	"github.com/goliatone/go-ficha/internal/exitcode"
	"github.com/goliatone/go-ficha/internal/logging"
	"github.com/goliatone/go-ficha/pkg/state/pgbackend"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate-schema",
	Short: "Create the Postgres key-value table",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if cfg.Backend != config.BackendPostgres {
		log.Error().Str("backend", cfg.Backend).Msg("migrate-schema requires --backend postgres")
		return exitcode.Wrap(exitcode.UsageError, fmt.Errorf("backend %q does not support migrate-schema", cfg.Backend))
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return exitcode.Wrap(exitcode.UsageError, err)
	}

	pool, err := pgbackend.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		return exitcode.Wrap(exitcode.BackendError, err)
	}
	defer pool.Close()

	if err := pgbackend.New(pool, cfg.Table).EnsureSchema(ctx); err != nil {
		log.Error().Err(err).Msg("migration failed")
		return exitcode.Wrap(exitcode.StoreError, err)
	}

	log.Info().Msg("schema applied successfully")
	return nil
}
