package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-ficha/internal/exitcode"
	"github.com/goliatone/go-ficha/internal/logging"
)

var traceCmd = &cobra.Command{
	Use:   "trace <path>",
	Short: "Show which layer supplies a field, e.g. meds.equipamentos.ventilacao",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	store, release, err := openStore(ctx, log)
	if err != nil {
		return err
	}
	defer release()

	trace, err := store.Trace(ctx, args[0])
	if err != nil {
		log.Error().Err(err).Str("path", args[0]).Msg("trace failed")
		return exitcode.Wrap(exitcode.ValidationError, err)
	}
	payload, err := trace.ToJSON()
	if err != nil {
		log.Error().Err(err).Msg("encode trace")
		return exitcode.Wrap(exitcode.RenderError, err)
	}
	cmd.OutOrStdout().Write(append(payload, '\n'))
	return nil
}
