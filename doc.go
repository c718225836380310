// Package serialization converts between typed Go values and generic data
// (nil, scalars, []any and string-keyed maps) suitable for JSON or YAML.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	serialization/       Root package (documentation only)
//	├── encoding/        Registry, Encoder interface, scalar/list/object encoders
//	├── value/           Ordered Map, shape classification, YAML/JSON parsing
//	├── errors/          Structured error types for debugging
//	└── cmd/transcode/   CLI and interactive TUI over a default registry
//
// # Quick Start
//
// Register a class and round-trip an instance:
//
//	type User struct {
//	    id    int
//	    Email string
//	}
//
//	func NewUser(id int, email string) *User { return &User{id: id, Email: email} }
//	func (u *User) ID() int { return u.id }
//
//	r := encoding.NewDefaultRegistry()
//	r.MustRegisterClass(encoding.ClassOf[User]("User",
//	    encoding.WithConstructor(NewUser, encoding.Param("id"), encoding.Param("email"))))
//
//	data, err := r.Encode(NewUser(1, "ada@example.com"))
//	// data is a *value.Map: {"id": 1, "email": "ada@example.com"}
//
//	u, err := encoding.DecodeAs[*User](r, data, "User")
//
// # Type Names
//
// Decoding is driven by a type name: a scalar kind (bool, int, float, string),
// a registered class name, or either followed by one or more "[]" suffixes.
//
// # Thread Safety
//
// Registry and Compiler are safe for concurrent use once configured. A
// Context belongs to a single encode call and must not be shared.
package serialization
