package rules

import (
	"context"
	"fmt"
	"time"
)

// Rule is a boolean expression that flags a finding when it evaluates true.
type Rule struct {
	Code    string
	Section string
	Message string
	Expr    string
}

// Finding is a rule that matched the snapshot.
type Finding struct {
	Code    string `json:"code"`
	Section string `json:"section"`
	Message string `json:"message"`
}

// Runner evaluates a fixed rule set with one evaluator.
type Runner struct {
	evaluator Evaluator
	observe   Observer
	rules     []Rule
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithObserver reports every evaluation to observe.
func WithObserver(observe Observer) RunnerOption {
	return func(r *Runner) {
		r.observe = observe
	}
}

// NewRunner returns a Runner; a nil evaluator falls back to expr.
func NewRunner(evaluator Evaluator, rules []Rule, opts ...RunnerOption) *Runner {
	if evaluator == nil {
		evaluator = NewExprEvaluator()
	}
	r := &Runner{evaluator: evaluator, rules: append([]Rule(nil), rules...)}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run evaluates the rules in order against env. The first failing rule
// aborts the run; a rule yielding anything but a boolean is a failure.
func (r *Runner) Run(ctx context.Context, env Env) ([]Finding, error) {
	if env.Now.IsZero() {
		env.Now = time.Now()
	}
	engine := r.evaluator.Engine()
	findings := []Finding{}
	for _, rule := range r.rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		matched, err := r.evaluate(env, rule)
		if r.observe != nil {
			r.observe(Evaluation{
				Engine:   engine,
				Rule:     rule,
				Session:  env.session(),
				Matched:  matched,
				Duration: time.Since(start),
				Err:      err,
			})
		}
		if err != nil {
			return nil, fmt.Errorf("rules: %s: %w", rule.Code, err)
		}
		if matched {
			findings = append(findings, Finding{Code: rule.Code, Section: rule.Section, Message: rule.Message})
		}
	}
	return findings, nil
}

func (r *Runner) evaluate(env Env, rule Rule) (bool, error) {
	value, err := r.evaluator.Evaluate(env, rule.Expr)
	if err != nil {
		return false, err
	}
	matched, ok := value.(bool)
	if !ok {
		return false, failure(r.evaluator.Engine(), rule.Expr, env.session(),
			fmt.Errorf("%w: got %T", ErrNonBooleanResult, value))
	}
	return matched, nil
}
