package typename

import (
	"reflect"
	"strings"
)

// ListSuffix marks "ordered sequence of the prefix type".
const ListSuffix = "[]"

// Canonical scalar names.
const (
	Bool   = "bool"
	Float  = "float"
	Int    = "int"
	String = "string"
)

// Kind is the scalar kind a type name denotes.
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

var kindNames = [...]string{
	KindNone:   "",
	KindBool:   Bool,
	KindInt:    Int,
	KindFloat:  Float,
	KindString: String,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

var scalarKinds = map[string]Kind{
	"bool":    KindBool,
	"boolean": KindBool,
	"int":     KindInt,
	"integer": KindInt,
	"float":   KindFloat,
	"double":  KindFloat,
	"string":  KindString,
}

var aliases = map[Kind][]string{
	KindBool:   {"bool", "boolean"},
	KindInt:    {"int", "integer"},
	KindFloat:  {"float", "double"},
	KindString: {"string"},
}

// ScalarKind returns the scalar kind named by name, or KindNone.
func ScalarKind(name string) Kind {
	return scalarKinds[name]
}

// IsScalar reports whether name is one of the recognised scalar names.
func IsScalar(name string) bool {
	return scalarKinds[name] != KindNone
}

// Aliases returns every name that denotes kind, canonical first.
func Aliases(kind Kind) []string {
	return aliases[kind]
}

// IsList reports whether name carries the list suffix.
func IsList(name string) bool {
	return strings.HasSuffix(name, ListSuffix)
}

// Elem strips one list suffix.
func Elem(name string) string {
	return strings.TrimSuffix(name, ListSuffix)
}

// ListOf appends one list suffix.
func ListOf(name string) string {
	return name + ListSuffix
}

// Valid reports whether name is well formed: non-empty, no surrounding
// whitespace, and a non-empty element name under any list suffix.
func Valid(name string) bool {
	if name == "" || strings.TrimSpace(name) != name {
		return false
	}
	for IsList(name) {
		name = Elem(name)
		if name == "" {
			return false
		}
	}
	return !strings.ContainsAny(name, " \t\r\n[]")
}

// KindOf returns the scalar kind of a Go reflect kind.
func KindOf(k reflect.Kind) Kind {
	switch k {
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindString
	}
	return KindNone
}

// OfValue returns the canonical scalar name of a scalar value, or "".
func OfValue(v any) string {
	if v == nil {
		return ""
	}
	return KindOf(reflect.TypeOf(v).Kind()).String()
}
