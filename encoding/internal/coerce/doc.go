// Package coerce converts decoded generic values into concrete Go types.
//
// Decoders produce canonical generic results (int, float64, string, bool,
// []any, *value.Map). Constructor parameters and struct fields declare their
// own Go types (int32, []string, *Address, map[string]int ...); To bridges the
// two with range-checked numeric conversion and element-wise container
// conversion.
//
// This package is internal to the encoding package.
package coerce
