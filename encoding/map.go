package encoding

import (
	"github.com/wippyai/serialization/encoding/internal/coerce"
	"github.com/wippyai/serialization/errors"
	"github.com/wippyai/serialization/value"
)

// mapEncoder handles string-keyed maps that are not classes. Keys are data,
// so the property name formatter does not apply.
type mapEncoder struct {
	registry *Registry
}

func (e *mapEncoder) Encode(v any, ctx *Context) (any, error) {
	m, ok := value.AsMap(v)
	if !ok {
		return nil, errors.InvalidArgument(errors.PhaseEncode, nil, coerce.TypeName(v), "value must be a map")
	}
	if ctx == nil {
		ctx = e.registry.NewContext()
	}

	if err := ctx.enter(); err != nil {
		return nil, err
	}
	defer ctx.leave()

	out := value.NewMap(m.Len())
	var err error
	m.Range(func(key string, item any) bool {
		var enc Encoder
		if enc, err = e.registry.EncoderForValue(item); err != nil {
			return false
		}
		var encoded any
		if encoded, err = enc.Encode(item, ctx); err != nil {
			return false
		}
		if !IsOmitted(encoded) {
			out.Set(key, encoded)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *mapEncoder) Decode(v any, typeName string) (any, error) {
	m, ok := value.AsMap(v)
	if !ok {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidArgument).
			TypeName(typeName).
			GoType(coerce.TypeName(v)).
			Detail("value must be a map").
			Build()
	}
	return m, nil
}
