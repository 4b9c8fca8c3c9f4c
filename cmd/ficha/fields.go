package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	ficha "github.com/goliatone/go-ficha"
	"github.com/goliatone/go-ficha/internal/exitcode"
	"github.com/goliatone/go-ficha/internal/logging"
	"github.com/goliatone/go-ficha/schema/openapi"
)

var fieldsFormat string

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Describe the persisted document fields",
	RunE:  runFields,
}

func init() {
	fieldsCmd.Flags().StringVar(&fieldsFormat, "format", "descriptors", "Output format: descriptors or openapi")
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	var out any
	switch fieldsFormat {
	case "descriptors":
		out = ficha.Fields()
	case "openapi":
		doc, err := openapi.NewGenerator().Generate(ficha.Defaults())
		if err != nil {
			log.Error().Err(err).Msg("generate openapi document")
			return exitcode.Wrap(exitcode.RenderError, err)
		}
		out = doc
	default:
		err := fmt.Errorf("unknown format %q", fieldsFormat)
		log.Error().Err(err).Msg("invalid --format")
		return exitcode.Wrap(exitcode.UsageError, err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error().Err(err).Msg("encode fields")
		return exitcode.Wrap(exitcode.RenderError, err)
	}
	return nil
}
