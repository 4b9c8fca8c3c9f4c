package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	ficha "github.com/goliatone/go-ficha"
	"github.com/goliatone/go-ficha/internal/exitcode"
	"github.com/goliatone/go-ficha/internal/logging"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the consistency rules over the current session chart",
	Long:  "Evaluates the built-in consistency rules, or the set loaded with --rules, and prints the findings. Exits 6 when any rule matched.",
	RunE:  runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&cfg.Engine, "engine", cfg.Engine, "Rule engine: expr, cel or js (or set FICHA_ENGINE)")
	f.StringVar(&cfg.RulesFile, "rules", cfg.RulesFile, "YAML rule set replacing the built-in rules (or set FICHA_RULES)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if cmd.Flags().Changed("engine") {
		cfg.EngineExplicit = true
	}
	if cfg.RulesFile != "" {
		if err := cfg.LoadRulesFile(cfg.RulesFile); err != nil {
			log.Error().Err(err).Str("file", cfg.RulesFile).Msg("load rules")
			return exitcode.Wrap(exitcode.ValidationError, err)
		}
	}

	store, release, err := openStore(ctx, log)
	if err != nil {
		return err
	}
	defer release()

	opts := []ficha.CheckOption{ficha.WithEngine(cfg.Engine)}
	if len(cfg.Rules) > 0 {
		opts = append(opts, ficha.WithRules(cfg.Rules))
	}
	findings, err := store.Check(ctx, opts...)
	if errors.Is(err, ficha.ErrRulesRequired) {
		log.Error().Err(err).Str("engine", cfg.Engine).Msg("--engine other than expr needs --rules")
		return exitcode.Wrap(exitcode.UsageError, err)
	}
	if err != nil {
		log.Error().Err(err).Str("engine", cfg.Engine).Msg("check failed")
		return exitcode.Wrap(exitcode.ValidationError, err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(findings); err != nil {
		log.Error().Err(err).Msg("encode findings")
		return exitcode.Wrap(exitcode.RenderError, err)
	}
	if len(findings) > 0 {
		log.Warn().Int("findings", len(findings)).Msg("consistency findings")
		return exitcode.Wrap(exitcode.FindingsFound, fmt.Errorf("%d consistency findings", len(findings)))
	}
	return nil
}
