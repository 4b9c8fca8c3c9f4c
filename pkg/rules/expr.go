package rules

import (
	"strings"

	exprlang "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type exprEvaluator struct {
	engineConfig
}

// NewExprEvaluator returns an Evaluator backed by expr-lang. Undefined
// identifiers evaluate to nil, so rules can test optional fields.
func NewExprEvaluator(opts ...Option) Evaluator {
	return &exprEvaluator{configure(opts)}
}

func (e *exprEvaluator) Engine() string { return EngineExpr }

func (e *exprEvaluator) Evaluate(env Env, expression string) (any, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, failure(EngineExpr, expression, env.session(), ErrEmptyExpression)
	}
	program, err := compile(e.cache, EngineExpr+":"+expression, func() (*vm.Program, error) {
		opts := []exprlang.Option{
			exprlang.Env(map[string]any{}),
			exprlang.AllowUndefinedVariables(),
		}
		for _, name := range e.functions.Names() {
			opts = append(opts, exprlang.Function(name, e.functions.bind(name)))
		}
		return exprlang.Compile(expression, opts...)
	})
	if err != nil {
		return nil, failure(EngineExpr, expression, env.session(), err)
	}
	out, err := exprlang.Run(program, env.bindings())
	if err != nil {
		return nil, failure(EngineExpr, expression, env.session(), err)
	}
	return out, nil
}
