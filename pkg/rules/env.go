package rules

import (
	"sort"
	"time"
)

// Env is the input of one evaluation: the document snapshot and the session
// and clock it is evaluated under. Snapshot keys become top-level
// identifiers; now and session are always bound and win over snapshot keys
// of the same name.
type Env struct {
	Snapshot  map[string]any
	SessionID string
	Now       time.Time
}

// Evaluator runs a single expression against an Env.
type Evaluator interface {
	Engine() string
	Evaluate(env Env, expression string) (any, error)
}

func (e Env) bindings() map[string]any {
	out := make(map[string]any, len(e.Snapshot)+2)
	for key, value := range e.Snapshot {
		out[key] = value
	}
	now := e.Now
	if now.IsZero() {
		now = time.Now()
	}
	out["now"] = now
	out["session"] = e.SessionID
	return out
}

func (e Env) session() string {
	if e.SessionID == "" {
		return "unknown"
	}
	return e.SessionID
}

func sortedNames(values map[string]any) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
