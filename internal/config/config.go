package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-ficha/pkg/rules"
	"github.com/goliatone/go-ficha/pkg/session"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
)

// Config holds all runtime configuration for a ficha run.
type Config struct {
	Backend   string
	DSN       string
	Table     string
	Prefix    string
	SessionID string
	LogFormat string // "text" or "json"
	Engine    string
	RulesFile string

	// EngineExplicit marks Engine as chosen by flag or environment, so a
	// rules file cannot override it.
	EngineExplicit bool

	// Rules replaces the built-in consistency rules when non-empty.
	Rules []rules.Rule
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Engine string     `yaml:"engine"`
	Rules  []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	Code    string `yaml:"code"`
	Section string `yaml:"section"`
	Message string `yaml:"message"`
	Expr    string `yaml:"expr"`
}

// FromEnv returns a Config seeded from the environment.
func FromEnv() Config {
	return Config{
		Backend:   getenvDefault("FICHA_BACKEND", BackendMemory),
		DSN:       os.Getenv("DATABASE_URL"),
		Table:     os.Getenv("FICHA_TABLE"),
		Prefix:    getenvDefault("FICHA_PREFIX", session.DefaultPrefix),
		SessionID: os.Getenv("FICHA_SESSION_ID"),
		LogFormat: getenvDefault("LOG_FORMAT", "text"),
		Engine:    getenvDefault("FICHA_ENGINE", rules.EngineExpr),
		RulesFile: os.Getenv("FICHA_RULES"),

		EngineExplicit: os.Getenv("FICHA_ENGINE") != "",
	}
}

// LoadRulesFile reads a YAML rule set and merges it into Config. An engine
// named in the file applies unless EngineExplicit is set.
func (c *Config) LoadRulesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse rules file: %w", err)
	}
	if yc.Engine != "" && !c.EngineExplicit {
		c.Engine = yc.Engine
	}
	c.Rules = make([]rules.Rule, 0, len(yc.Rules))
	for i, r := range yc.Rules {
		if strings.TrimSpace(r.Code) == "" || strings.TrimSpace(r.Expr) == "" {
			return fmt.Errorf("rule %d: code and expr are required", i)
		}
		c.Rules = append(c.Rules, rules.Rule{
			Code:    r.Code,
			Section: r.Section,
			Message: r.Message,
			Expr:    r.Expr,
		})
	}
	return nil
}

// Validate checks the backend selection and its connection settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendDynamoDB:
	case BackendPostgres:
		if c.DSN == "" {
			return fmt.Errorf("--dsn or DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (memory, postgres or dynamodb)", c.Backend)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (text or json)", c.LogFormat)
	}
	switch c.Engine {
	case "", rules.EngineExpr, rules.EngineCEL, rules.EngineJS:
	default:
		return fmt.Errorf("unknown rule engine %q", c.Engine)
	}
	if strings.ContainsAny(c.SessionID, ": ") {
		return fmt.Errorf("session id %q must not contain ':' or spaces", c.SessionID)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
