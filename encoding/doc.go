// Package encoding converts Go values to generic values and back.
//
// Generic values are what a wire format reader produces and a writer
// consumes: scalars (bool, integers, floats, string, nil), ordered maps
// (*value.Map) and sequences ([]any). The conversion is driven by type names:
//
//	bool | boolean | int | integer | float | double | string  scalars
//	User                                                     a class
//	User[]                                                   a list of User
//
// # Registry
//
// A Registry maps type names to Encoders. Lookups resolve in this order:
// an explicit registration, the list encoder for names ending in "[]", the
// default scalar encoder for scalar names, and finally the generic object
// encoder, which treats the name as a class.
//
//	r := encoding.NewDefaultRegistry(
//	    encoding.WithPropertyNameFormatter(encoding.SnakeCaseFormatter{}),
//	)
//	r.MustRegisterClass(encoding.ClassOf[User]("User",
//	    encoding.WithConstructor(NewUser,
//	        encoding.Param("id"),
//	        encoding.Optional("role", "member"),
//	    ),
//	))
//
//	u, err := encoding.DecodeAs[*User](r, input, "User")
//	out, err := r.Encode(u)
//
// # Classes
//
// A class is a struct type bound to a name. Embedded structs act as base
// classes: their properties come first in encoded output and a field of the
// same name further down replaces the base one in place. Properties are
// named by the "encoding" struct tag or by the field name with its leading
// capitals lowered. Unexported fields are encoded as well; a method Foo,
// GetFoo, IsFoo or HasFoo is used to read property foo when present.
//
// Struct types reached through a constructor parameter or field are
// registered implicitly under their Go type string (for example
// "model.Address"). Types with no meaningful field layout, such as
// time.Time, need an explicitly registered Encoder.
//
// # Cycles
//
// Each top-level encode call owns a Context recording every object it has
// encoded. Reaching one again either omits the back-reference (CycleOmit,
// the default) or fails with a circular_reference error (CycleError).
package encoding
