package rules

import (
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

type celEvaluator struct {
	engineConfig
}

// NewCELEvaluator returns an Evaluator backed by cel-go. Snapshot keys are
// declared as dyn variables, so a program is cached per expression and key
// set.
func NewCELEvaluator(opts ...Option) Evaluator {
	return &celEvaluator{configure(opts)}
}

func (e *celEvaluator) Engine() string { return EngineCEL }

func (e *celEvaluator) Evaluate(env Env, expression string) (any, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, failure(EngineCEL, expression, env.session(), ErrEmptyExpression)
	}
	vars := env.bindings()
	names := sortedNames(vars)
	key := EngineCEL + ":" + strings.Join(names, ",") + ":" + expression
	program, err := compile(e.cache, key, func() (cel.Program, error) {
		return e.program(names, expression)
	})
	if err != nil {
		return nil, failure(EngineCEL, expression, env.session(), err)
	}
	out, _, err := program.Eval(vars)
	if err != nil {
		return nil, failure(EngineCEL, expression, env.session(), err)
	}
	return out.Value(), nil
}

func (e *celEvaluator) program(names []string, expression string) (cel.Program, error) {
	helpers := e.functions.Names()
	opts := make([]cel.EnvOption, 0, len(names)+len(helpers))
	for _, name := range names {
		opts = append(opts, cel.Variable(name, variableType(name)))
	}
	for _, name := range helpers {
		opts = append(opts, e.declare(name))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expression)
	if err := issues.Err(); err != nil {
		return nil, err
	}
	return env.Program(ast)
}

func variableType(name string) *cel.Type {
	switch name {
	case "now":
		return cel.TimestampType
	case "session":
		return cel.StringType
	default:
		return cel.DynType
	}
}

// declare exposes a helper with one and two dyn arguments, the arities the
// ficha helpers use.
func (e *celEvaluator) declare(name string) cel.EnvOption {
	return cel.Function(name,
		cel.Overload(name+"_1", []*cel.Type{cel.DynType}, cel.DynType,
			cel.UnaryBinding(func(arg ref.Val) ref.Val {
				return e.invoke(name, arg)
			}),
		),
		cel.Overload(name+"_2", []*cel.Type{cel.DynType, cel.DynType}, cel.DynType,
			cel.BinaryBinding(func(lhs, rhs ref.Val) ref.Val {
				return e.invoke(name, lhs, rhs)
			}),
		),
	)
}

func (e *celEvaluator) invoke(name string, vals ...ref.Val) ref.Val {
	args := make([]any, len(vals))
	for i, val := range vals {
		args[i] = val.Value()
	}
	result, err := e.functions.Call(name, args...)
	switch {
	case err != nil:
		return types.NewErr("%s: %v", name, err)
	case result == nil:
		return types.NullValue
	default:
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
