package ficha

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-ficha/internal/hydrate"
)

var fichaType = reflect.TypeOf(Ficha{})

// coerceScalars rewrites leaves whose JSON type differs from the field type
// but whose value is still usable. The older form writer kept every input
// as typed, so readings arrive as "120" and Aldrete indices as "2". Numeric
// text becomes a number (or null when blank), numbers in text fields become
// text. A section of the wrong shape is left as is and fails decoding.
func coerceScalars(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	coerced, _ := coerce(payload, fichaType).(map[string]any)
	if coerced == nil {
		return payload, nil
	}
	return coerced, nil
}

func coerce(value any, t reflect.Type) any {
	if value == nil {
		return nil
	}
	switch t.Kind() {
	case reflect.Pointer:
		if text, ok := value.(string); ok && isFloat(t.Elem().Kind()) {
			if reading := ParseReading(text); reading != nil {
				return *reading
			}
			return nil
		}
		return coerce(value, t.Elem())
	case reflect.Struct:
		object, ok := value.(map[string]any)
		if !ok {
			return value
		}
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if current, present := object[name]; present && name != "" && name != "-" {
				object[name] = coerce(current, field.Type)
			}
		}
		return object
	case reflect.Slice:
		items, ok := value.([]any)
		if !ok {
			return value
		}
		for i, item := range items {
			items[i] = coerce(item, t.Elem())
		}
		return items
	case reflect.Map:
		object, ok := value.(map[string]any)
		if !ok {
			return value
		}
		for key, item := range object {
			object[key] = coerce(item, t.Elem())
		}
		return object
	case reflect.String:
		switch v := value.(type) {
		case float64:
			return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
		case bool:
			return strconv.FormatBool(v)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch v := value.(type) {
		case string:
			if n, ok := parseDecimal(v); ok {
				return math.Trunc(n)
			}
			return nil
		case float64:
			return math.Trunc(v)
		}
	case reflect.Float32, reflect.Float64:
		if text, ok := value.(string); ok {
			if n, ok := parseDecimal(text); ok {
				return n
			}
			return nil
		}
	case reflect.Bool:
		switch v := value.(type) {
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b
			}
			return nil
		case float64:
			return v != 0
		}
	}
	return value
}

func isFloat(kind reflect.Kind) bool {
	return kind == reflect.Float32 || kind == reflect.Float64
}
