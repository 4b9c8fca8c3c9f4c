//go:build js_eval

package rules

import (
	"strings"

	"github.com/dop251/goja"
)

type jsEvaluator struct {
	engineConfig
}

// NewJSEvaluator returns an Evaluator backed by goja. Each evaluation runs in
// a fresh runtime.
func NewJSEvaluator(opts ...Option) Evaluator {
	return &jsEvaluator{configure(opts)}
}

// JSAvailable reports whether the goja engine was compiled in.
func JSAvailable() bool { return true }

func (e *jsEvaluator) Engine() string { return EngineJS }

func (e *jsEvaluator) Evaluate(env Env, expression string) (any, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, failure(EngineJS, expression, env.session(), ErrEmptyExpression)
	}
	program, err := compile(e.cache, EngineJS+":"+expression, func() (*goja.Program, error) {
		return goja.Compile("rule", "(function(){ return ("+expression+"); })()", true)
	})
	if err != nil {
		return nil, failure(EngineJS, expression, env.session(), err)
	}
	runtime := goja.New()
	for name, value := range env.bindings() {
		if err := runtime.Set(name, value); err != nil {
			return nil, failure(EngineJS, expression, env.session(), err)
		}
	}
	for _, name := range e.functions.Names() {
		if err := runtime.Set(name, e.functions.bind(name)); err != nil {
			return nil, failure(EngineJS, expression, env.session(), err)
		}
	}
	value, err := runtime.RunProgram(program)
	if err != nil {
		return nil, failure(EngineJS, expression, env.session(), err)
	}
	return value.Export(), nil
}
