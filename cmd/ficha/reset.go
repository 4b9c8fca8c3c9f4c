package main

import (
	"context"

	"github.com/spf13/cobra"

	ficha "github.com/goliatone/go-ficha"
	"github.com/goliatone/go-ficha/internal/exitcode"
	"github.com/goliatone/go-ficha/internal/logging"
)

var resetSection string

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the current session chart, or one section of it",
	RunE:  runReset,
}

var resetAllCmd = &cobra.Command{
	Use:   "reset-all",
	Short: "Delete every session chart under the prefix and rotate the session id",
	RunE:  runResetAll,
}

func init() {
	resetCmd.Flags().StringVar(&resetSection, "section", "", "Section to reset (paciente, cirurgia, intercorrencias, monitorizacao, vitais, meds, rpa)")
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(resetAllCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	var section ficha.Section
	if resetSection != "" {
		parsed, err := ficha.ParseSection(resetSection)
		if err != nil {
			log.Error().Err(err).Msg("invalid --section")
			return exitcode.Wrap(exitcode.UsageError, err)
		}
		section = parsed
	}

	store, release, err := openStore(ctx, log)
	if err != nil {
		return err
	}
	defer release()

	if section == "" {
		err = store.ResetAll(ctx)
	} else {
		err = store.ResetSection(ctx, section)
	}
	if err != nil {
		log.Error().Err(err).Msg("reset failed")
		return exitcode.Wrap(exitcode.StoreError, err)
	}

	sid, _ := store.SessionID(ctx)
	log.Info().Str("session", sid).Str("section", string(section)).Msg("chart reset")
	return nil
}

func runResetAll(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	store, release, err := openStore(ctx, log)
	if err != nil {
		return err
	}
	defer release()

	if err := store.ResetAllSessions(ctx); err != nil {
		log.Error().Err(err).Msg("reset-all failed")
		return exitcode.Wrap(exitcode.StoreError, err)
	}
	sid, err := store.SessionID(ctx)
	if err != nil {
		log.Error().Err(err).Msg("new session id")
		return exitcode.Wrap(exitcode.StoreError, err)
	}
	log.Info().Str("session", sid).Msg("all sessions purged")
	return nil
}
