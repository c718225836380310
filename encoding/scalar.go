package encoding

import (
	"reflect"

	"github.com/iwind/TeaGo/types"

	"github.com/wippyai/serialization/encoding/internal/coerce"
	"github.com/wippyai/serialization/encoding/internal/typename"
	"github.com/wippyai/serialization/errors"
	"github.com/wippyai/serialization/value"
)

// ScalarEncoder handles bool, int, float and string values and their aliases.
//
// Decode coerces loosely: "12" decodes as int 12, 0 as bool false, and
// unparseable input as the zero value of the requested kind.
type ScalarEncoder struct{}

func (ScalarEncoder) Encode(v any, _ *Context) (any, error) {
	if v == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Pointer {
		return nil, nil
	}
	if typename.KindOf(rv.Kind()) == typename.KindNone {
		return nil, errors.InvalidArgument(errors.PhaseEncode, nil, coerce.TypeName(v), "value must be a scalar")
	}
	if rv.Type() == reflect.TypeOf(v) {
		return v, nil
	}
	return rv.Interface(), nil
}

func (ScalarEncoder) Decode(v any, typeName string) (any, error) {
	kind := typename.ScalarKind(typeName)
	if kind == typename.KindNone {
		return nil, errors.InvalidType(errors.PhaseDecode, nil, typeName)
	}

	switch value.ShapeOf(v) {
	case value.ShapeNil, value.ShapeScalar:
	default:
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidArgument).
			TypeName(typeName).
			GoType(coerce.TypeName(v)).
			Detail("cannot decode a %s as %s", value.ShapeOf(v), typeName).
			Build()
	}

	v = basic(v)
	switch kind {
	case typename.KindBool:
		return types.Bool(v), nil
	case typename.KindInt:
		return types.Int(v), nil
	case typename.KindFloat:
		return types.Float64(v), nil
	default:
		return types.String(v), nil
	}
}

// basic dereferences v and converts named scalar types to the predeclared
// type of their kind.
func basic(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	}
	return nil
}
