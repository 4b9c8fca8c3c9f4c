package rules

import (
	"errors"
	"testing"
)

func TestFailureWrapsWithMetadata(t *testing.T) {
	base := errors.New("boom")
	err := failure(EngineExpr, "intercorrencias.houve && missing", "sid-1", base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != EngineExpr || evalErr.Session != "sid-1" {
		t.Fatalf("unexpected metadata %+v", evalErr)
	}
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
	if want := `rules: expr "intercorrencias.houve && missing": boom`; err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestFailureFillsExistingError(t *testing.T) {
	existing := &EvaluationError{Engine: EngineExpr, Err: errors.New("compile")}
	err := failure(EngineCEL, "rule", "sid-9", existing)
	if err != error(existing) {
		t.Fatalf("expected the existing error back, got %v", err)
	}
	if existing.Engine != EngineExpr || existing.Expr != "rule" || existing.Session != "sid-9" {
		t.Fatalf("unexpected metadata %+v", existing)
	}
}

func TestFailureIgnoresNil(t *testing.T) {
	if err := failure(EngineExpr, "x", "", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
