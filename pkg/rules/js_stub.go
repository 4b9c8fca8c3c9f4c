//go:build !js_eval

package rules

// NewJSEvaluator returns nil unless the binary is built with -tags js_eval.
func NewJSEvaluator(opts ...Option) Evaluator { return nil }

// JSAvailable reports whether the goja engine was compiled in.
func JSAvailable() bool { return false }
