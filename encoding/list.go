package encoding

import (
	"github.com/wippyai/serialization/encoding/internal/coerce"
	"github.com/wippyai/serialization/encoding/internal/typename"
	"github.com/wippyai/serialization/errors"
	"github.com/wippyai/serialization/value"
)

// ListEncoder handles sequences. Decode resolves one encoder for the element
// type; encode resolves one per element from its runtime value.
type ListEncoder struct {
	registry *Registry
}

// NewListEncoder creates a list encoder that resolves element encoders
// through r.
func NewListEncoder(r *Registry) *ListEncoder {
	return &ListEncoder{registry: r}
}

func (e *ListEncoder) Encode(v any, ctx *Context) (any, error) {
	items, ok := value.AsSequence(v)
	if !ok {
		return nil, errors.InvalidArgument(errors.PhaseEncode, nil, coerce.TypeName(v), "value must be a sequence")
	}
	if len(items) == 0 {
		return []any{}, nil
	}
	if ctx == nil {
		ctx = e.registry.NewContext()
	}

	if err := ctx.enter(); err != nil {
		return nil, err
	}
	defer ctx.leave()

	out := make([]any, len(items))
	for i, item := range items {
		enc, err := e.registry.EncoderForValue(item)
		if err != nil {
			return nil, err
		}
		encoded, err := enc.Encode(item, ctx)
		if err != nil {
			return nil, err
		}
		if IsOmitted(encoded) {
			encoded = nil
		}
		out[i] = encoded
	}
	return out, nil
}

func (e *ListEncoder) Decode(v any, typeName string) (any, error) {
	if !typename.IsList(typeName) {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidArgument).
			TypeName(typeName).
			Detail("type %q is not a list type", typeName).
			Build()
	}

	items, ok := value.AsSequence(v)
	if !ok {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidArgument).
			TypeName(typeName).
			GoType(coerce.TypeName(v)).
			Detail("value must be a sequence").
			Build()
	}

	elemType := typename.Elem(typeName)
	enc, err := e.registry.EncoderForType(elemType)
	if err != nil {
		return nil, err
	}

	out := make([]any, len(items))
	for i, item := range items {
		decoded, err := enc.Decode(item, elemType)
		if err != nil {
			return nil, err
		}
		out[i] = decoded
	}
	return out, nil
}
