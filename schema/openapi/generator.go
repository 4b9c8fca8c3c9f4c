// Package openapi describes the Ficha document as an OpenAPI 3 document.
// Every named struct becomes a component schema; constraints come from the
// doc, default, enum, minimum, maximum and pattern struct tags.
package openapi

import (
	"fmt"
	"reflect"
	"strings"
)

const (
	Version         = "3.0.3"
	DefaultBasePath = "/sessions/{sid}/ficha"
)

// Generator renders OpenAPI documents for a document type.
type Generator struct {
	title       string
	version     string
	description string
	basePath    string
}

// Option configures a Generator.
type Option func(*Generator)

// WithInfo sets info.title and info.version. Empty values keep the defaults.
func WithInfo(title, version string) Option {
	return func(g *Generator) {
		if title != "" {
			g.title = title
		}
		if version != "" {
			g.version = version
		}
	}
}

func WithDescription(description string) Option {
	return func(g *Generator) {
		g.description = description
	}
}

// WithBasePath mounts the document operations under path.
func WithBasePath(path string) Option {
	return func(g *Generator) {
		if path = strings.TrimRight(strings.TrimSpace(path), "/"); path != "" {
			g.basePath = path
		}
	}
}

func NewGenerator(opts ...Option) Generator {
	g := Generator{
		title:    "Ficha Anestésica",
		version:  "1.0.0",
		basePath: DefaultBasePath,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&g)
		}
	}
	return g
}

// Generate builds the document for value, which must be a struct. Pass a
// populated sample (for a Ficha, Defaults) so map keys such as the monitor
// names are listed as properties.
func (g Generator) Generate(value any) (map[string]any, error) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct || rv.Type().Name() == "" {
		return nil, fmt.Errorf("openapi: expected a named struct, got %T", value)
	}

	w := newWalker()
	root, err := w.schema(rv, rv.Type())
	if err != nil {
		return nil, err
	}
	sections := w.components[rv.Type().Name()]["properties"].(map[string]any)

	info := map[string]any{"title": g.title, "version": g.version}
	if g.description != "" {
		info["description"] = g.description
	}
	return map[string]any{
		"openapi":    Version,
		"info":       info,
		"paths":      g.paths(root, sortedKeys(sections)),
		"components": map[string]any{"schemas": w.components},
	}, nil
}

// paths exposes the whole document under the base path and each top-level
// property under base/{section}.
func (g Generator) paths(root map[string]any, sections []string) map[string]any {
	params := g.pathParams()
	document := map[string]any{
		"get": map[string]any{
			"operationId": "getFicha",
			"summary":     "Read the session document",
			"responses": map[string]any{
				"200": jsonResponse("Current document", root, true),
			},
		},
		"put": map[string]any{
			"operationId": "replaceFicha",
			"summary":     "Replace the session document",
			"parameters":  []any{ifMatchHeader()},
			"requestBody": map[string]any{"required": true, "content": jsonContent(root)},
			"responses": map[string]any{
				"204": map[string]any{"description": "Stored"},
				"412": map[string]any{"description": "ETag mismatch"},
			},
		},
	}
	if len(params) > 0 {
		document["parameters"] = params
	}

	sectionParam := map[string]any{
		"name":     "section",
		"in":       "path",
		"required": true,
		"schema":   map[string]any{"type": "string", "enum": toAny(sections)},
	}
	section := map[string]any{
		"parameters": append(append([]any{}, params...), sectionParam),
		"get": map[string]any{
			"operationId": "getFichaSection",
			"summary":     "Read one section",
			"responses": map[string]any{
				"200": jsonResponse("Section value", map[string]any{}, false),
			},
		},
		"delete": map[string]any{
			"operationId": "resetFichaSection",
			"summary":     "Restore one section to its defaults",
			"responses": map[string]any{
				"204": map[string]any{"description": "Reset"},
			},
		},
	}
	return map[string]any{
		g.basePath:                document,
		g.basePath + "/{section}": section,
	}
}

func (g Generator) pathParams() []any {
	var params []any
	rest := g.basePath
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			return params
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return params
		}
		params = append(params, map[string]any{
			"name":     rest[start+1 : start+end],
			"in":       "path",
			"required": true,
			"schema":   map[string]any{"type": "string"},
		})
		rest = rest[start+end+1:]
	}
}

func jsonContent(schema map[string]any) map[string]any {
	return map[string]any{"application/json": map[string]any{"schema": schema}}
}

func jsonResponse(description string, schema map[string]any, etag bool) map[string]any {
	response := map[string]any{"description": description, "content": jsonContent(schema)}
	if etag {
		response["headers"] = map[string]any{
			"ETag": map[string]any{"schema": map[string]any{"type": "string"}},
		}
	}
	return response
}

func ifMatchHeader() map[string]any {
	return map[string]any{
		"name":     "If-Match",
		"in":       "header",
		"required": false,
		"schema":   map[string]any{"type": "string"},
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}
	return out
}
