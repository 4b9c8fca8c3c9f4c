package rules

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyExpression   = errors.New("rules: empty expression")
	ErrNonBooleanResult  = errors.New("rules: rule did not return a boolean")
	ErrEngineUnavailable = errors.New("rules: engine unavailable")
	ErrUnknownFunction   = errors.New("rules: unknown function")
)

// EvaluationError ties a compile or run failure to the engine, expression
// and session it happened under.
type EvaluationError struct {
	Engine  string
	Expr    string
	Session string
	Err     error
}

func (e *EvaluationError) Error() string {
	if e.Expr == "" {
		return fmt.Sprintf("rules: %s: %v", e.Engine, e.Err)
	}
	return fmt.Sprintf("rules: %s %q: %v", e.Engine, e.Expr, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// failure wraps err as an EvaluationError. An error that already carries
// one only has its blank fields filled in.
func failure(engine, expression, session string, err error) error {
	if err == nil {
		return nil
	}
	var existing *EvaluationError
	if errors.As(err, &existing) {
		if existing.Engine == "" {
			existing.Engine = engine
		}
		if existing.Expr == "" {
			existing.Expr = expression
		}
		if existing.Session == "" {
			existing.Session = session
		}
		return err
	}
	return &EvaluationError{Engine: engine, Expr: expression, Session: session, Err: err}
}
