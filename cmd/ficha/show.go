package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-ficha/internal/exitcode"
	"github.com/goliatone/go-ficha/internal/logging"
)

var showETag bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current session chart as JSON",
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showETag, "etag", false, "Wrap the chart with its ETag")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	store, release, err := openStore(ctx, log)
	if err != nil {
		return err
	}
	defer release()

	doc, etag := store.Snapshot(ctx)
	var out any = doc
	if showETag {
		out = map[string]any{"etag": etag, "ficha": doc}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error().Err(err).Msg("encode chart")
		return exitcode.Wrap(exitcode.RenderError, err)
	}
	return nil
}
