package coerce

import (
	"math"
	"reflect"

	"github.com/wippyai/serialization/value"
)

// To converts a decoded generic value into a value assignable to t.
// Numeric conversions are range checked; sequences and maps are converted
// element-wise; pointers are allocated or dereferenced as needed.
func To(v any, t reflect.Type) (reflect.Value, bool) {
	if v == nil {
		return reflect.Zero(t), true
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, true
	}

	switch t.Kind() {
	case reflect.Interface:
		return reflect.Value{}, false

	case reflect.Pointer:
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return reflect.Zero(t), true
			}
			return To(rv.Elem().Interface(), t)
		}
		inner, ok := To(v, t.Elem())
		if !ok {
			return reflect.Value{}, false
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(inner)
		return p, true
	}

	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Zero(t), true
		}
		return To(rv.Elem().Interface(), t)
	}

	switch t.Kind() {
	case reflect.Bool:
		if rv.Kind() == reflect.Bool {
			return rv.Convert(t), true
		}

	case reflect.String:
		if rv.Kind() == reflect.String {
			return rv.Convert(t), true
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i, ok := ToInt64(v); ok {
			out := reflect.New(t).Elem()
			if out.OverflowInt(i) {
				return reflect.Value{}, false
			}
			out.SetInt(i)
			return out, true
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u, ok := ToUint64(v); ok {
			out := reflect.New(t).Elem()
			if out.OverflowUint(u) {
				return reflect.Value{}, false
			}
			out.SetUint(u)
			return out, true
		}

	case reflect.Float32, reflect.Float64:
		if f, ok := ToFloat64(v); ok {
			out := reflect.New(t).Elem()
			if t.Kind() == reflect.Float32 && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
				return reflect.Value{}, false
			}
			out.SetFloat(f)
			return out, true
		}

	case reflect.Slice:
		items, ok := value.AsSequence(v)
		if !ok {
			return reflect.Value{}, false
		}
		out := reflect.MakeSlice(t, len(items), len(items))
		for i, item := range items {
			ev, ok := To(item, t.Elem())
			if !ok {
				return reflect.Value{}, false
			}
			out.Index(i).Set(ev)
		}
		return out, true

	case reflect.Array:
		items, ok := value.AsSequence(v)
		if !ok || len(items) != t.Len() {
			return reflect.Value{}, false
		}
		out := reflect.New(t).Elem()
		for i, item := range items {
			ev, ok := To(item, t.Elem())
			if !ok {
				return reflect.Value{}, false
			}
			out.Index(i).Set(ev)
		}
		return out, true

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		m, ok := value.AsMap(v)
		if !ok {
			return reflect.Value{}, false
		}
		out := reflect.MakeMapWithSize(t, m.Len())
		var failed bool
		m.Range(func(k string, item any) bool {
			ev, ok := To(item, t.Elem())
			if !ok {
				failed = true
				return false
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), ev)
			return true
		})
		if failed {
			return reflect.Value{}, false
		}
		return out, true

	case reflect.Struct:
		if rv.Kind() == reflect.Struct && rv.Type().ConvertibleTo(t) {
			return rv.Convert(t), true
		}
	}

	return reflect.Value{}, false
}
