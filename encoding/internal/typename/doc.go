// Package typename implements the type-name grammar routed through the
// encoder registry:
//
//	TypeName := ScalarName | ClassName | TypeName "[]"
//
// Scalar names are bool/boolean, float/double, int/integer and string; any
// other well-formed name denotes a class.
//
// This package is internal to the encoding package.
package typename
