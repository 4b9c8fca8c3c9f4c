package ficha

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Layers a read merges, strongest first.
const (
	LayerSession  = "session"
	LayerDefaults = "defaults"
)

// Trace reports where the value at a dotted path comes from. Source names
// the strongest layer holding the path, or is empty when no layer does.
type Trace struct {
	Path   string       `json:"path"`
	Source string       `json:"source,omitempty"`
	Layers []Provenance `json:"layers"`
}

// Provenance is one layer's view of a traced path.
type Provenance struct {
	Layer string `json:"layer"`
	Key   string `json:"key,omitempty"`
	Value any    `json:"value,omitempty"`
	Found bool   `json:"found"`
}

// ToJSON serialises the trace for logs and the CLI.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON parses a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// Trace looks path up in the stored session payload and in Defaults.
// Segments are object keys or sequence indices, e.g. "vitais.registros.0.hora".
// A payload that is not a JSON object counts as absent.
func (s *Store) Trace(ctx context.Context, path string) (Trace, error) {
	path = strings.Trim(strings.TrimSpace(path), ".")
	if path == "" {
		return Trace{}, fmt.Errorf("ficha: trace: empty path")
	}

	s.mu.Lock()
	sid, err := s.sessions.ID(ctx)
	if err != nil {
		s.unlock(ctx)
		return Trace{}, fmt.Errorf("ficha: session id: %w", err)
	}
	key := s.keys.Session(sid)
	s.migrateLegacy(ctx, sid, key)
	raw, ok, err := s.backend.Get(ctx, key)
	s.unlock(ctx)
	if err != nil {
		return Trace{}, fmt.Errorf("ficha: read %s: %w", key, err)
	}

	var stored map[string]any
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			stored = nil
		}
	}

	segments := strings.Split(path, ".")
	trace := Trace{Path: path}
	for _, layer := range []struct {
		name string
		key  string
		doc  map[string]any
	}{
		{LayerSession, key, stored},
		{LayerDefaults, "", defaultsMap()},
	} {
		value, found := lookup(layer.doc, segments)
		trace.Layers = append(trace.Layers, Provenance{Layer: layer.name, Key: layer.key, Value: value, Found: found})
		if found && trace.Source == "" {
			trace.Source = layer.name
		}
	}
	return trace, nil
}

func lookup(doc map[string]any, segments []string) (any, bool) {
	if doc == nil {
		return nil, false
	}
	var current any = doc
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}
			current = node[index]
		default:
			return nil, false
		}
	}
	return current, true
}
