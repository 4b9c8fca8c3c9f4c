// Package layering deep-copies and merges document snapshots. The ficha store
// uses it to hand out detached copies of the defaults and to backfill
// fixed-vocabulary maps from older persisted documents.
package layering

import "reflect"

// Clone returns a deep copy of value. Maps, slices and pointers in the result
// share no memory with the input. Unexported struct fields are copied shallowly.
func Clone[T any](value T) T {
	out, _ := valueOf(deepCopy(reflect.ValueOf(value))).(T)
	return out
}

// MergeLayers composes snapshots ordered from strongest to weakest. Map keys
// absent from a stronger layer come from the weaker one; nil maps, slices and
// pointers fall through; any other value in a stronger layer wins, including
// a zero scalar. Non-nil slices replace weaker ones wholesale.
func MergeLayers[T any](layers ...T) T {
	var merged reflect.Value
	for i := len(layers) - 1; i >= 0; i-- {
		merged = merge(reflect.ValueOf(layers[i]), merged)
	}
	out, _ := valueOf(merged).(T)
	return out
}

// Backfill stores in dst a detached copy of every src entry whose key dst
// lacks and returns dst, allocating it when nil. Existing entries are kept
// as they are.
func Backfill[K comparable, V any](dst, src map[K]V) map[K]V {
	if dst == nil {
		dst = make(map[K]V, len(src))
	}
	for key, value := range src {
		if _, ok := dst[key]; !ok {
			dst[key] = Clone(value)
		}
	}
	return dst
}

func valueOf(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

func merge(strong, weak reflect.Value) reflect.Value {
	if !strong.IsValid() || nilable(strong) && strong.IsNil() {
		if weak.IsValid() {
			return deepCopy(weak)
		}
		return deepCopy(strong)
	}

	switch strong.Kind() {
	case reflect.Pointer:
		out := reflect.New(strong.Type().Elem())
		out.Elem().Set(merge(strong.Elem(), elem(weak, reflect.Pointer)))
		return out
	case reflect.Interface:
		out := reflect.New(strong.Type()).Elem()
		out.Set(merge(strong.Elem(), elem(weak, reflect.Interface)))
		return out
	case reflect.Struct:
		out := deepCopy(strong)
		sameType := weak.IsValid() && weak.Type() == strong.Type()
		for i := 0; i < strong.NumField(); i++ {
			if !out.Field(i).CanSet() {
				continue
			}
			var weakField reflect.Value
			if sameType {
				weakField = weak.Field(i)
			}
			out.Field(i).Set(merge(strong.Field(i), weakField))
		}
		return out
	case reflect.Map:
		out := reflect.MakeMapWithSize(strong.Type(), strong.Len())
		if weak.IsValid() && weak.Type() == strong.Type() && !weak.IsNil() {
			for iter := weak.MapRange(); iter.Next(); {
				out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
			}
		}
		for iter := strong.MapRange(); iter.Next(); {
			key := iter.Key()
			out.SetMapIndex(key, merge(iter.Value(), out.MapIndex(key)))
		}
		return out
	case reflect.Array:
		out := reflect.New(strong.Type()).Elem()
		for i := 0; i < strong.Len(); i++ {
			var weakElem reflect.Value
			if weak.IsValid() && weak.Type() == strong.Type() {
				weakElem = weak.Index(i)
			}
			out.Index(i).Set(merge(strong.Index(i), weakElem))
		}
		return out
	default:
		return deepCopy(strong)
	}
}

func elem(v reflect.Value, kind reflect.Kind) reflect.Value {
	if !v.IsValid() || v.Kind() != kind || v.IsNil() {
		return reflect.Value{}
	}
	return v.Elem()
}

func nilable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	default:
		return false
	}
}

func deepCopy(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}
	t := v.Type()
	if nilable(v) && v.IsNil() {
		return reflect.Zero(t)
	}

	switch v.Kind() {
	case reflect.Pointer:
		out := reflect.New(t.Elem())
		out.Elem().Set(deepCopy(v.Elem()))
		return out
	case reflect.Interface:
		out := reflect.New(t).Elem()
		out.Set(deepCopy(v.Elem()))
		return out
	case reflect.Map:
		out := reflect.MakeMapWithSize(t, v.Len())
		for iter := v.MapRange(); iter.Next(); {
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out
	case reflect.Slice:
		out := reflect.MakeSlice(t, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Struct:
		out := reflect.New(t).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if out.Field(i).CanSet() {
				out.Field(i).Set(deepCopy(v.Field(i)))
			}
		}
		return out
	case reflect.Array:
		out := reflect.New(t).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	default:
		return v
	}
}
