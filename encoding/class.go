package encoding

import (
	"reflect"
)

// Class binds a type name to a Go struct type and, optionally, to the
// constructor used to build instances during decode.
//
// Without a constructor, decode allocates a zero value and assigns exported
// fields from the map.
type Class struct {
	name   string
	typ    reflect.Type
	ctor   reflect.Value
	params []ParamSpec
}

// ClassOption configures a Class.
type ClassOption func(*Class)

// ClassOf defines a class for the struct type T.
func ClassOf[T any](name string, opts ...ClassOption) *Class {
	return NewClass(name, reflect.TypeOf((*T)(nil)).Elem(), opts...)
}

// NewClass defines a class for t. Pointer types are dereferenced.
func NewClass(name string, t reflect.Type, opts ...ClassOption) *Class {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	c := &Class{name: name, typ: t}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithConstructor sets the constructor. fn must be a func whose parameters
// are described, in order, by params and which returns T, *T, or either of
// them together with an error.
func WithConstructor(fn any, params ...ParamSpec) ClassOption {
	return func(c *Class) {
		c.ctor = reflect.ValueOf(fn)
		c.params = params
	}
}

// Name returns the class name.
func (c *Class) Name() string {
	return c.name
}

// Type returns the struct type.
func (c *Class) Type() reflect.Type {
	return c.typ
}

// HasConstructor reports whether instances are built by a constructor.
func (c *Class) HasConstructor() bool {
	return c.ctor.IsValid()
}

// ParamSpec describes one constructor parameter.
type ParamSpec struct {
	Default    any
	Name       string
	TypeName   string
	HasDefault bool
	Nullable   bool
}

// Param declares a required parameter.
func Param(name string) ParamSpec {
	return ParamSpec{Name: name}
}

// Optional declares a parameter that falls back to def when absent.
func Optional(name string, def any) ParamSpec {
	return ParamSpec{Name: name, Default: def, HasDefault: true}
}

// Nullable declares a parameter that receives its zero value when absent.
func Nullable(name string) ParamSpec {
	return ParamSpec{Name: name, Nullable: true}
}

// Typed declares a parameter decoded as typeName instead of its Go type.
func Typed(name, typeName string) ParamSpec {
	return ParamSpec{Name: name, TypeName: typeName}
}

// As returns a copy of p decoded as typeName.
func (p ParamSpec) As(typeName string) ParamSpec {
	p.TypeName = typeName
	return p
}
