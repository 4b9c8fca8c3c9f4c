package ficha

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-ficha/pkg/rules"
	"github.com/rs/zerolog"
)

// DefaultRules flag inconsistent data. They describe the record, not the
// patient, and are written for the expr engine.
var DefaultRules = []rules.Rule{
	{
		Code:    "intercorrencias.texto_sem_ocorrencia",
		Section: string(SectionIntercorrencias),
		Message: "description filled while no adverse event is recorded",
		Expr:    `intercorrencias.texto != "" && !intercorrencias.houve`,
	},
	{
		Code:    "rpa.aldrete_fora_da_faixa",
		Section: string(SectionRPA),
		Message: "an Aldrete index is outside 0..2",
		Expr:    `any(values(rpa.aldrete), {# < 0 || # > 2})`,
	},
	{
		Code:    "vitais.registro_sem_hora",
		Section: string(SectionVitais),
		Message: "a vitals row has no time of day",
		Expr:    `any(vitais.registros, {#.hora == ""})`,
	},
	{
		Code:    "meds.tci_sem_bomba",
		Section: string(SectionMeds),
		Message: "TCI settings filled while no TCI pump is flagged",
		Expr:    `!meds.equipamentos.tci && (meds.equipamentos.tci_alvo != "" || meds.equipamentos.tci_taxa_ml_h != "" || meds.equipamentos.tci_conc_val != "")`,
	},
	{
		Code:    "meds.ventilador_em_espontanea",
		Section: string(SectionMeds),
		Message: "ventilator settings filled under spontaneous breathing",
		Expr:    `meds.equipamentos.ventilacao == "Espontânea" && (meds.equipamentos.vent_modo != "" || meds.equipamentos.vent_vt_ml != "" || meds.equipamentos.vent_peep != "" || meds.equipamentos.vent_rr != "")`,
	},
	{
		Code:    "paciente.imc_indisponivel",
		Section: string(SectionPaciente),
		Message: "weight and height are filled but BMI cannot be derived",
		Expr:    `paciente.peso != "" && paciente.altura != "" && imc(paciente.peso, paciente.altura) == nil`,
	},
}

// Functions returns the registry exposed to rule expressions: imc(peso,
// altura) and aldrete_total(aldrete).
func Functions() *rules.FunctionRegistry {
	registry := rules.NewFunctionRegistry()
	registry.MustRegister("imc", func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("imc expects 2 arguments, got %d", len(args))
		}
		peso, _ := args[0].(string)
		altura, _ := args[1].(string)
		value, ok := BMI(Paciente{Peso: peso, Altura: altura})
		if !ok {
			return nil, nil
		}
		return value, nil
	})
	registry.MustRegister("aldrete_total", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("aldrete_total expects 1 argument, got %d", len(args))
		}
		scores, ok := args[0].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("aldrete_total expects an object, got %T", args[0])
		}
		total := 0
		for _, field := range AldreteFields {
			if value, ok := scores[string(field)].(float64); ok {
				total += int(value)
			}
		}
		return total, nil
	})
	return registry
}

type checkConfig struct {
	engine    string
	rules     []rules.Rule
	custom    bool
	logger    *zerolog.Logger
	sessionID string
	cache     rules.ProgramCache
}

// CheckOption configures Check.
type CheckOption func(*checkConfig)

// WithEngine selects the rule engine: expr (default), cel or js.
func WithEngine(engine string) CheckOption {
	return func(cfg *checkConfig) {
		cfg.engine = engine
	}
}

// WithRules replaces DefaultRules.
func WithRules(set []rules.Rule) CheckOption {
	return func(cfg *checkConfig) {
		cfg.rules = set
		cfg.custom = true
	}
}

// WithCheckLogger logs every rule evaluation.
func WithCheckLogger(logger zerolog.Logger) CheckOption {
	return func(cfg *checkConfig) {
		cfg.logger = &logger
	}
}

// WithSessionID labels evaluations and errors with the session id.
func WithSessionID(sid string) CheckOption {
	return func(cfg *checkConfig) {
		cfg.sessionID = sid
	}
}

// WithProgramCache reuses compiled programs across checks.
func WithProgramCache(cache rules.ProgramCache) CheckOption {
	return func(cfg *checkConfig) {
		cfg.cache = cache
	}
}

// Check runs the consistency rules over f and returns the matching findings
// in rule order.
func Check(ctx context.Context, f Ficha, opts ...CheckOption) ([]rules.Finding, error) {
	cfg := checkConfig{rules: DefaultRules}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	evaluator, err := rules.NewEvaluator(cfg.engine, rules.WithCache(cfg.cache), rules.WithFunctions(Functions()))
	if err != nil {
		return nil, err
	}
	if !cfg.custom && evaluator.Engine() != rules.EngineExpr {
		return nil, fmt.Errorf("%w: engine %q", ErrRulesRequired, evaluator.Engine())
	}
	var runnerOpts []rules.RunnerOption
	if cfg.logger != nil {
		runnerOpts = append(runnerOpts, rules.WithObserver(rules.LogTo(*cfg.logger)))
	}
	snapshot, err := snapshotMap(f)
	if err != nil {
		return nil, err
	}
	runner := rules.NewRunner(evaluator, cfg.rules, runnerOpts...)
	return runner.Run(ctx, rules.Env{Snapshot: snapshot, SessionID: cfg.sessionID})
}

// Check runs Check over the current session snapshot.
func (s *Store) Check(ctx context.Context, opts ...CheckOption) ([]rules.Finding, error) {
	sid, err := s.sessions.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("ficha: session id: %w", err)
	}
	base := []CheckOption{WithSessionID(sid), WithCheckLogger(s.logger)}
	return Check(ctx, s.GetAll(ctx), append(base, opts...)...)
}

func snapshotMap(f Ficha) (map[string]any, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("ficha: encode snapshot: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("ficha: decode snapshot: %w", err)
	}
	return out, nil
}
