// Package rules evaluates boolean consistency expressions against a document
// snapshot rendered as map[string]any. expr is the default engine and CEL is
// always compiled in. The goja JavaScript engine needs the js_eval build tag.
package rules
