package value

import "reflect"

// Shape is the closed set of runtime shapes the registry dispatches on.
type Shape uint8

const (
	ShapeInvalid Shape = iota
	ShapeNil
	ShapeScalar
	ShapeSequence
	ShapeMap
	ShapeObject
)

var shapeNames = [...]string{
	ShapeInvalid:  "invalid",
	ShapeNil:      "nil",
	ShapeScalar:   "scalar",
	ShapeSequence: "sequence",
	ShapeMap:      "map",
	ShapeObject:   "object",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "unknown"
}

var mapPtrType = reflect.TypeOf((*Map)(nil))

// ShapeOf classifies v. Pointers to structs are objects; other pointers take
// the shape of what they point to.
func ShapeOf(v any) Shape {
	switch v.(type) {
	case nil:
		return ShapeNil
	case *Map:
		if v.(*Map) == nil {
			return ShapeNil
		}
		return ShapeMap
	case Map:
		return ShapeMap
	}
	return ShapeOfValue(reflect.ValueOf(v))
}

// ShapeOfValue is ShapeOf for an already reflected value.
func ShapeOfValue(rv reflect.Value) Shape {
	if !rv.IsValid() {
		return ShapeNil
	}

	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return ShapeScalar
	case reflect.Slice, reflect.Array:
		return ShapeSequence
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			if rv.IsNil() {
				return ShapeNil
			}
			return ShapeMap
		}
		return ShapeInvalid
	case reflect.Struct:
		return ShapeObject
	case reflect.Interface:
		if rv.IsNil() {
			return ShapeNil
		}
		return ShapeOfValue(rv.Elem())
	case reflect.Pointer:
		if rv.IsNil() {
			return ShapeNil
		}
		if rv.Type() == mapPtrType {
			return ShapeMap
		}
		if rv.Type().Elem().Kind() == reflect.Struct {
			return ShapeObject
		}
		return ShapeOfValue(rv.Elem())
	}
	return ShapeInvalid
}

// AsMap views v as an ordered map if it has map shape. Plain Go maps are
// copied with sorted keys.
func AsMap(v any) (*Map, bool) {
	switch m := v.(type) {
	case *Map:
		return m, m != nil
	case Map:
		return &m, true
	case map[string]any:
		return FromMap(m), true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, false
	}
	plain := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		plain[iter.Key().String()] = iter.Value().Interface()
	}
	return FromMap(plain), true
}

// AsSequence views v as a slice of generic elements if it has sequence shape.
func AsSequence(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() != reflect.Struct {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
