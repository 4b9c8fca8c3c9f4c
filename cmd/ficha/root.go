package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-ficha/internal/config"
)

var cfg = config.FromEnv()

var rootCmd = &cobra.Command{
	Use:           "ficha",
	Short:         "Anesthesia chart (ficha anestésica) store tooling",
	Long:          "Inspects, checks, exports and resets session-scoped anesthesia charts kept in memory, Postgres or DynamoDB.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.Backend, "backend", cfg.Backend, "Storage backend: memory, postgres or dynamodb (or set FICHA_BACKEND)")
	pf.StringVar(&cfg.DSN, "dsn", cfg.DSN, "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.Table, "table", cfg.Table, "Key-value table name (or set FICHA_TABLE)")
	pf.StringVar(&cfg.Prefix, "prefix", cfg.Prefix, "Storage key prefix (or set FICHA_PREFIX)")
	pf.StringVar(&cfg.SessionID, "session", cfg.SessionID, "Session id to operate on (or set FICHA_SESSION_ID)")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
}
