package ficha

import "errors"

var (
	ErrUnknownMonitor = errors.New("ficha: unknown monitor")
	ErrInvalidAldrete = errors.New("ficha: invalid aldrete score")
	ErrInvalidVital   = errors.New("ficha: invalid vital")
	ErrInvalidTecnica = errors.New("ficha: invalid technique")
	ErrUnknownSection = errors.New("ficha: unknown section")
	ErrInvalidChart   = errors.New("ficha: chart must be an image data URI")
	ErrNoSession      = errors.New("ficha: session provider not configured")
	ErrNoBackend      = errors.New("ficha: backend not configured")
	ErrRulesRequired  = errors.New("ficha: built-in rules are expr expressions, supply a rule set for this engine")
)
