package rules

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fichaSnapshot() map[string]any {
	return map[string]any{
		"intercorrencias": map[string]any{"houve": false, "texto": "hipotensão"},
		"rpa": map[string]any{
			"aldrete": map[string]any{"atividade": 2.0, "respiracao": 1.0, "circulacao": 2.0, "consciencia": 1.0, "saturacao": 2.0},
		},
		"vitais": map[string]any{
			"registros": []any{
				map[string]any{"hora": "08:00", "fc": 72.0},
				map[string]any{"hora": "", "fc": 75.0},
			},
		},
	}
}

func sumRegistry() *FunctionRegistry {
	return NewFunctionRegistry().MustRegister("total", func(args ...any) (any, error) {
		scores, ok := args[0].(map[string]any)
		if !ok {
			return nil, errors.New("total expects a map")
		}
		sum := 0.0
		for _, value := range scores {
			if f, ok := value.(float64); ok {
				sum += f
			}
		}
		return sum, nil
	})
}

func TestExprEvaluatorReadsSnapshot(t *testing.T) {
	got, err := NewExprEvaluator().Evaluate(Env{Snapshot: fichaSnapshot()}, `intercorrencias.texto != "" && !intercorrencias.houve`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != true {
		t.Fatalf("expected true, got %v", got)
	}
}

func TestExprEvaluatorClosuresOverSequences(t *testing.T) {
	got, err := NewExprEvaluator().Evaluate(Env{Snapshot: fichaSnapshot()}, `any(vitais.registros, {#.hora == ""})`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != true {
		t.Fatalf("expected a vital without time, got %v", got)
	}
}

func TestExprEvaluatorBindsSessionAndClock(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	env := Env{Snapshot: map[string]any{"session": "shadowed"}, SessionID: "sid-7", Now: now}
	got, err := NewExprEvaluator().Evaluate(env, `session == "sid-7" && now != nil`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != true {
		t.Fatalf("expected session and clock bindings, got %v", got)
	}
}

func TestExprEvaluatorCallsRegistry(t *testing.T) {
	got, err := NewExprEvaluator(WithFunctions(sumRegistry())).Evaluate(Env{Snapshot: fichaSnapshot()}, `total(rpa.aldrete)`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != 8.0 {
		t.Fatalf("expected 8, got %v", got)
	}
}

func TestExprEvaluatorUsesProgramCache(t *testing.T) {
	cache := NewMapCache()
	evaluator := NewExprEvaluator(WithCache(cache))
	for i := 0; i < 3; i++ {
		if _, err := evaluator.Evaluate(Env{Snapshot: fichaSnapshot()}, `intercorrencias.houve`); err != nil {
			t.Fatalf("evaluate: %v", err)
		}
	}
	if cache.Len() != 1 {
		t.Fatalf("expected one cached program, got %d", cache.Len())
	}
}

func TestSharedCacheKeepsEnginesApart(t *testing.T) {
	cache := NewMapCache()
	for _, evaluator := range []Evaluator{
		NewExprEvaluator(WithCache(cache)),
		NewCELEvaluator(WithCache(cache)),
		NewExprEvaluator(WithCache(cache)),
	} {
		got, err := evaluator.Evaluate(Env{Snapshot: fichaSnapshot()}, `intercorrencias.houve`)
		if err != nil {
			t.Fatalf("%s: %v", evaluator.Engine(), err)
		}
		if got != false {
			t.Fatalf("%s: expected false, got %v", evaluator.Engine(), got)
		}
	}
	if cache.Len() != 2 {
		t.Fatalf("expected one program per engine, got %d", cache.Len())
	}
}

func TestEvaluatorsRejectEmptyExpression(t *testing.T) {
	for _, evaluator := range []Evaluator{NewExprEvaluator(), NewCELEvaluator()} {
		if _, err := evaluator.Evaluate(Env{}, "  "); !errors.Is(err, ErrEmptyExpression) {
			t.Fatalf("%s: expected ErrEmptyExpression, got %v", evaluator.Engine(), err)
		}
	}
}

func TestExprCompileErrorCarriesMetadata(t *testing.T) {
	_, err := NewExprEvaluator().Evaluate(Env{SessionID: "sid-1"}, `intercorrencias.houve &&`)
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %v", err)
	}
	if evalErr.Engine != EngineExpr || evalErr.Session != "sid-1" || evalErr.Expr != `intercorrencias.houve &&` {
		t.Fatalf("unexpected metadata %+v", evalErr)
	}
}

func TestCELEvaluatorReadsSnapshotAndRegistry(t *testing.T) {
	evaluator := NewCELEvaluator(WithFunctions(sumRegistry()), WithCache(NewMapCache()))
	got, err := evaluator.Evaluate(Env{Snapshot: fichaSnapshot()}, `intercorrencias.texto != "" && !intercorrencias.houve`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != true {
		t.Fatalf("expected true, got %v", got)
	}

	total, err := evaluator.Evaluate(Env{Snapshot: fichaSnapshot()}, `total(rpa.aldrete)`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if total != 8.0 {
		t.Fatalf("expected 8, got %v", total)
	}
}

func TestCELEvaluatorSurfacesHelperErrors(t *testing.T) {
	evaluator := NewCELEvaluator(WithFunctions(sumRegistry()))
	_, err := evaluator.Evaluate(Env{Snapshot: fichaSnapshot()}, `total(intercorrencias.texto) > 0.0`)
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) || evalErr.Engine != EngineCEL {
		t.Fatalf("expected cel EvaluationError, got %v", err)
	}
}

func TestNewEvaluatorSelectsEngine(t *testing.T) {
	cases := map[string]string{"": EngineExpr, "expr": EngineExpr, " CEL ": EngineCEL}
	for name, want := range cases {
		evaluator, err := NewEvaluator(name)
		if err != nil {
			t.Fatalf("engine %q: %v", name, err)
		}
		if got := evaluator.Engine(); got != want {
			t.Fatalf("engine %q: expected %s, got %s", name, want, got)
		}
	}
	if _, err := NewEvaluator("lua"); !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
}

func TestRunnerCollectsFindingsInOrder(t *testing.T) {
	var seen []Evaluation
	runner := NewRunner(nil, []Rule{
		{Code: "texto", Section: "intercorrencias", Message: "text without occurrence", Expr: `intercorrencias.texto != "" && !intercorrencias.houve`},
		{Code: "never", Section: "rpa", Message: "never", Expr: `false`},
		{Code: "hora", Section: "vitais", Message: "vital without time", Expr: `any(vitais.registros, {#.hora == ""})`},
	}, WithObserver(func(ev Evaluation) {
		seen = append(seen, ev)
	}))

	findings, err := runner.Run(context.Background(), Env{Snapshot: fichaSnapshot(), SessionID: "sid-1"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(findings) != 2 || findings[0].Code != "texto" || findings[1].Code != "hora" {
		t.Fatalf("unexpected findings %+v", findings)
	}
	if len(seen) != 3 || seen[0].Session != "sid-1" || seen[0].Engine != EngineExpr {
		t.Fatalf("unexpected evaluations %+v", seen)
	}
	if !seen[0].Matched || seen[1].Matched || seen[1].Rule.Code != "never" {
		t.Fatalf("unexpected match flags %+v", seen)
	}
}

func TestRunnerRejectsNonBooleanRule(t *testing.T) {
	var observed error
	runner := NewRunner(NewExprEvaluator(), []Rule{{Code: "count", Expr: `len(vitais.registros)`}},
		WithObserver(func(ev Evaluation) { observed = ev.Err }))
	_, err := runner.Run(context.Background(), Env{Snapshot: fichaSnapshot()})
	if !errors.Is(err, ErrNonBooleanResult) {
		t.Fatalf("expected ErrNonBooleanResult, got %v", err)
	}
	if !errors.Is(observed, ErrNonBooleanResult) {
		t.Fatalf("observer should see the failure, got %v", observed)
	}
}

func TestRunnerHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := NewRunner(nil, []Rule{{Code: "x", Expr: `true`}})
	if _, err := runner.Run(ctx, Env{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFunctionRegistryRejectsDuplicates(t *testing.T) {
	registry := NewFunctionRegistry()
	fn := func(args ...any) (any, error) { return nil, nil }
	if err := registry.Register(" IMC ", fn); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("imc", fn); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register("", fn); err == nil {
		t.Fatalf("expected empty name error")
	}
	if names := registry.Names(); len(names) != 1 || names[0] != "imc" {
		t.Fatalf("unexpected names %v", names)
	}
	if _, err := registry.Call("missing"); !errors.Is(err, ErrUnknownFunction) {
		t.Fatalf("expected ErrUnknownFunction, got %v", err)
	}
}
