package ficha

import (
	"sort"
	"strings"
)

// FieldDescriptor describes one persisted path, its JSON type and default.
type FieldDescriptor struct {
	Path    string `json:"path"`
	Type    string `json:"type"`
	Default any    `json:"default,omitempty"`
}

// Fields lists every leaf of the default document sorted by path. Sequences
// are reported as a single "array" entry.
func Fields() []FieldDescriptor {
	fields := deriveFieldDescriptors(defaultsMap(), "")
	if fields == nil {
		return []FieldDescriptor{}
	}
	return fields
}

func deriveFieldDescriptors(value any, prefix string) []FieldDescriptor {
	switch typed := value.(type) {
	case map[string]any:
		if len(typed) == 0 {
			return []FieldDescriptor{{Path: prefix, Type: "object"}}
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var fields []FieldDescriptor
		for _, key := range keys {
			fields = append(fields, deriveFieldDescriptors(typed[key], joinPath(prefix, key))...)
		}
		return fields
	case []any:
		return []FieldDescriptor{{Path: prefix, Type: "array"}}
	default:
		if prefix == "" {
			return nil
		}
		descriptor := FieldDescriptor{Path: prefix, Type: jsonType(typed)}
		if !isZeroJSON(typed) {
			descriptor.Default = typed
		}
		return []FieldDescriptor{descriptor}
	}
}

func jsonType(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	default:
		return "unknown"
	}
}

func isZeroJSON(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case bool:
		return !typed
	case float64:
		return typed == 0
	case string:
		return typed == ""
	default:
		return false
	}
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return strings.Join([]string{prefix, segment}, ".")
}
