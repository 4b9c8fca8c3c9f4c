package openapi

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// walker renders Go values as schema maps. Named structs are published once
// in components and referenced from every use, which also ends recursion.
type walker struct {
	components map[string]map[string]any
	building   map[reflect.Type]bool
}

func newWalker() *walker {
	return &walker{
		components: map[string]map[string]any{},
		building:   map[reflect.Type]bool{},
	}
}

// schema describes t. rv is an optional sample used for map keys and slice
// elements; it may be the zero Value.
func (w *walker) schema(rv reflect.Value, t reflect.Type) (map[string]any, error) {
	if t.Kind() == reflect.Pointer {
		if rv.IsValid() && !rv.IsNil() {
			rv = rv.Elem()
		} else {
			rv = reflect.Value{}
		}
		out, err := w.schema(rv, t.Elem())
		if err != nil {
			return nil, err
		}
		if _, ref := out["$ref"]; ref {
			return map[string]any{"allOf": []any{out}, "nullable": true}, nil
		}
		out["nullable"] = true
		return out, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Interface:
		return map[string]any{}, nil
	case reflect.Slice, reflect.Array:
		var elem reflect.Value
		if rv.IsValid() && rv.Len() > 0 {
			elem = rv.Index(0)
		}
		items, err := w.schema(elem, t.Elem())
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "array", "items": items}, nil
	case reflect.Map:
		return w.mapSchema(rv, t)
	case reflect.Struct:
		if t == timeType {
			return map[string]any{"type": "string", "format": "date-time"}, nil
		}
		if t.Name() == "" {
			return w.object(rv, t)
		}
		return w.component(rv, t)
	default:
		return nil, fmt.Errorf("openapi: unsupported kind %s", t.Kind())
	}
}

func (w *walker) component(rv reflect.Value, t reflect.Type) (map[string]any, error) {
	ref := map[string]any{"$ref": "#/components/schemas/" + t.Name()}
	if _, done := w.components[t.Name()]; done || w.building[t] {
		return ref, nil
	}
	w.building[t] = true
	defer delete(w.building, t)
	body, err := w.object(rv, t)
	if err != nil {
		return nil, err
	}
	w.components[t.Name()] = body
	return ref, nil
}

func (w *walker) object(rv reflect.Value, t reflect.Type) (map[string]any, error) {
	if !rv.IsValid() {
		rv = reflect.Zero(t)
	}
	props := map[string]any{}
	var required []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, optional, ok := jsonName(field)
		if !ok {
			continue
		}
		prop, err := w.schema(rv.Field(i), field.Type)
		if err != nil {
			return nil, fmt.Errorf("openapi: %s.%s: %w", t.Name(), field.Name, err)
		}
		if err := constrain(prop, field); err != nil {
			return nil, fmt.Errorf("openapi: %s.%s: %w", t.Name(), field.Name, err)
		}
		props[name] = prop
		if !optional && field.Type.Kind() != reflect.Pointer {
			required = append(required, name)
		}
	}
	out := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		sort.Strings(required)
		out["required"] = required
	}
	return out, nil
}

// mapSchema lists the sample's keys as properties and admits any other key
// with the same value schema.
func (w *walker) mapSchema(rv reflect.Value, t reflect.Type) (map[string]any, error) {
	if t.Key().Kind() != reflect.String {
		return nil, fmt.Errorf("openapi: map key type %s unsupported", t.Key())
	}
	values, err := w.schema(reflect.Value{}, t.Elem())
	if err != nil {
		return nil, err
	}
	out := map[string]any{"type": "object", "additionalProperties": values}
	if !rv.IsValid() || rv.Len() == 0 {
		return out, nil
	}
	props := map[string]any{}
	iter := rv.MapRange()
	for iter.Next() {
		prop, err := w.schema(iter.Value(), t.Elem())
		if err != nil {
			return nil, err
		}
		props[iter.Key().String()] = prop
	}
	out["properties"] = props
	return out, nil
}

func jsonName(field reflect.StructField) (name string, optional, ok bool) {
	if !field.IsExported() {
		return "", false, false
	}
	tag, hasTag := field.Tag.Lookup("json")
	if tag == "-" {
		return "", false, false
	}
	if !hasTag {
		return field.Name, false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" {
			optional = true
		}
	}
	return name, optional, true
}

// tagKeywords maps struct tags onto schema keywords that take a scalar of
// the field's own type.
var tagKeywords = []struct {
	tag, keyword string
	numeric      bool
}{
	{"minimum", "minimum", true},
	{"maximum", "maximum", true},
	{"default", "default", false},
}

func constrain(schema map[string]any, field reflect.StructField) error {
	base := field.Type
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	if doc := field.Tag.Get("doc"); doc != "" {
		schema["description"] = doc
	}
	if pattern := field.Tag.Get("pattern"); pattern != "" {
		schema["pattern"] = pattern
	}
	for _, kw := range tagKeywords {
		raw := field.Tag.Get(kw.tag)
		if raw == "" {
			continue
		}
		if kw.numeric {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("%s tag: %w", kw.tag, err)
			}
			schema[kw.keyword] = value
			continue
		}
		value, err := scalar(base.Kind(), raw)
		if err != nil {
			return fmt.Errorf("%s tag: %w", kw.tag, err)
		}
		schema[kw.keyword] = value
	}
	if enum := field.Tag.Get("enum"); enum != "" {
		var values []any
		for _, part := range strings.Split(enum, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			value, err := scalar(base.Kind(), part)
			if err != nil {
				return fmt.Errorf("enum tag: %w", err)
			}
			values = append(values, value)
		}
		schema["enum"] = values
	}
	return nil
}

func scalar(kind reflect.Kind, raw string) (any, error) {
	switch kind {
	case reflect.Bool:
		return strconv.ParseBool(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.ParseInt(raw, 10, 64)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseUint(raw, 10, 64)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(raw, 64)
	default:
		return raw, nil
	}
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
