package rules

import (
	"fmt"
	"strings"
)

// Engine names accepted by NewEvaluator.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// Option configures any of the evaluators.
type Option func(*engineConfig)

type engineConfig struct {
	cache     ProgramCache
	functions *FunctionRegistry
}

// WithCache shares compiled programs through cache.
func WithCache(cache ProgramCache) Option {
	return func(cfg *engineConfig) {
		cfg.cache = cache
	}
}

// WithFunctions exposes the helpers in registry to expressions.
func WithFunctions(registry *FunctionRegistry) Option {
	return func(cfg *engineConfig) {
		cfg.functions = registry
	}
}

func configure(opts []Option) engineConfig {
	var cfg engineConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.functions == nil {
		cfg.functions = NewFunctionRegistry()
	}
	return cfg
}

// NewEvaluator builds the named engine. An empty name selects expr; js is
// only available in binaries built with the js_eval tag.
func NewEvaluator(engine string, opts ...Option) (Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineExpr:
		return NewExprEvaluator(opts...), nil
	case EngineCEL:
		return NewCELEvaluator(opts...), nil
	case EngineJS:
		if !JSAvailable() {
			return nil, fmt.Errorf("%w: %s (build with -tags js_eval)", ErrEngineUnavailable, EngineJS)
		}
		return NewJSEvaluator(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrEngineUnavailable, engine)
	}
}
