package encoding

// Encoder converts between one type (or type family) and generic values.
//
// Encode receives the Context of the enclosing top-level encode call and must
// pass it on to any nested encode. Decode receives the type name the caller
// resolved the encoder for.
type Encoder interface {
	Encode(v any, ctx *Context) (any, error)
	Decode(v any, typeName string) (any, error)
}

// omitted is returned by an encoder whose value must not appear in the
// output, such as a back-reference under CycleOmit.
type omitted struct{}

// IsOmitted reports whether an encoded value is the marker for "leave this
// out". Custom encoders that encode nested values should drop such entries.
func IsOmitted(v any) bool {
	_, ok := v.(omitted)
	return ok
}

// nullEncoder handles values with nil shape.
type nullEncoder struct{}

func (nullEncoder) Encode(any, *Context) (any, error) {
	return nil, nil
}

func (nullEncoder) Decode(any, string) (any, error) {
	return nil, nil
}
