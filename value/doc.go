// Package value defines the format-agnostic generic value model.
//
// A generic value is one of:
//
//	scalar    bool, any Go integer or float kind, string, or nil
//	sequence  []any
//	map       *Map, an insertion-ordered string-keyed map
//
// Encoders produce these values and decoders consume them. Key order of a Map
// is significant: it is the order in which a wire-format writer renders keys.
//
// Map implements json.Marshaler/Unmarshaler and yaml.Marshaler/Unmarshaler so
// that readers and writers layered above the encoding engine keep key order
// without any extra plumbing.
package value
