package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // Go value to generic value
	PhaseDecode   Phase = "decode"   // generic value to Go value
	PhaseResolve  Phase = "resolve"  // registry lookups
	PhaseRegister Phase = "register" // class and encoder registration
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidArgument      Kind = "invalid_argument"
	KindInvalidType          Kind = "invalid_type"
	KindUnresolvableType     Kind = "unresolvable_type"
	KindMissingRequiredValue Kind = "missing_required_value"
	KindInstantiation        Kind = "instantiation"
	KindCircularReference    Kind = "circular_reference"
	KindDepthExceeded        Kind = "depth_exceeded"
)

// Sentinels for errors.Is checks. They carry no phase, so they match any
// error of the same kind regardless of where it was raised.
var (
	ErrInvalidArgument      = &Error{Kind: KindInvalidArgument}
	ErrInvalidType          = &Error{Kind: KindInvalidType}
	ErrUnresolvableType     = &Error{Kind: KindUnresolvableType}
	ErrMissingRequiredValue = &Error{Kind: KindMissingRequiredValue}
	ErrInstantiation        = &Error{Kind: KindInstantiation}
	ErrCircularReference    = &Error{Kind: KindCircularReference}
	ErrDepthExceeded        = &Error{Kind: KindDepthExceeded}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	GoType   string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.TypeName != "" || e.GoType != "" {
		b.WriteString(": ")
		if e.TypeName != "" && e.GoType != "" {
			b.WriteString("type ")
			b.WriteString(e.TypeName)
			b.WriteString(", Go type ")
			b.WriteString(e.GoType)
		} else if e.TypeName != "" {
			b.WriteString("type ")
			b.WriteString(e.TypeName)
		} else {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		}
	}

	if e.Detail != "" {
		if e.TypeName != "" || e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the class/property path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// TypeName sets the requested type name
func (b *Builder) TypeName(t string) *Builder {
	b.err.TypeName = t
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidArgument creates an error for a top-level input of the wrong kind
func InvalidArgument(phase Phase, path []string, goType, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArgument,
		Path:   path,
		GoType: goType,
		Detail: detail,
	}
}

// InvalidType creates an error for a well-formed but unsupported type name
func InvalidType(phase Phase, path []string, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidType,
		Path:     path,
		TypeName: typeName,
		Detail:   fmt.Sprintf("%q is not a valid type here", typeName),
	}
}

// UnresolvableType creates an error for a type name or value no encoder handles
func UnresolvableType(phase Phase, path []string, typeName, goType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnresolvableType,
		Path:     path,
		TypeName: typeName,
		GoType:   goType,
		Detail:   "no encoder can be resolved",
	}
}

// MissingRequiredValue creates an error for an absent required parameter
func MissingRequiredValue(className, paramName string) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindMissingRequiredValue,
		Path:     []string{className, paramName},
		TypeName: className,
		Detail:   fmt.Sprintf("no value for required parameter %q", paramName),
	}
}

// Instantiation creates an error for a constructor that rejected its arguments
func Instantiation(className string, cause error) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindInstantiation,
		Path:     []string{className},
		TypeName: className,
		Detail:   "construct instance",
		Cause:    cause,
	}
}

// CircularReference creates an error for an object reached twice during encode
func CircularReference(path []string, goType string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindCircularReference,
		Path:   path,
		GoType: goType,
		Detail: "object already encoded in this call",
	}
}

// DepthExceeded creates an error for nesting beyond the configured limit
func DepthExceeded(phase Phase, path []string, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDepthExceeded,
		Path:   path,
		Detail: fmt.Sprintf("nesting exceeds %d levels", limit),
	}
}
