package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-ficha/internal/exitcode"
	"github.com/goliatone/go-ficha/internal/logging"
	"github.com/goliatone/go-ficha/internal/report"
)

var (
	exportOut   string
	exportTitle string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the current session chart as a PDF",
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportOut, "out", "ficha.pdf", "Output PDF path")
	f.StringVar(&exportTitle, "title", "", "Document title")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	store, release, err := openStore(ctx, log)
	if err != nil {
		return err
	}
	defer release()

	sid, err := store.SessionID(ctx)
	if err != nil {
		log.Error().Err(err).Msg("session id")
		return exitcode.Wrap(exitcode.StoreError, err)
	}
	chart, err := store.Chart(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("chart image unavailable")
	}

	file, err := os.Create(exportOut)
	if err != nil {
		log.Error().Err(err).Str("out", exportOut).Msg("create output")
		return exitcode.Wrap(exitcode.UsageError, err)
	}
	defer file.Close()

	in := report.Input{
		SessionID:   sid,
		Chart:       chart,
		Title:       exportTitle,
		GeneratedAt: time.Now(),
	}
	if err := report.Render(file, store.GetAll(ctx), in); err != nil {
		log.Error().Err(err).Msg("render pdf")
		return exitcode.Wrap(exitcode.RenderError, err)
	}
	log.Info().Str("session", sid).Str("out", exportOut).Msg("chart exported")
	return nil
}
