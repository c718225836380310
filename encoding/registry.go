package encoding

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/serialization/encoding/internal/coerce"
	"github.com/wippyai/serialization/encoding/internal/typename"
	"github.com/wippyai/serialization/errors"
	"github.com/wippyai/serialization/value"
)

// Registry maps type names to encoders and keeps the class catalog.
//
// Lookups are safe for concurrent use. Registration should happen before
// the registry is shared, but is serialised if it does not.
type Registry struct {
	compiler      *Compiler
	defaultScalar Encoder
	encoders      map[string]Encoder
	classes       map[string]*Class
	classNames    map[reflect.Type]string
	list          *ListEncoder
	object        *ObjectEncoder
	maps          *mapEncoder
	logger        *zap.Logger
	cyclePolicy   CyclePolicy
	maxDepth      int
	mu            sync.RWMutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithPropertyNameFormatter sets the formatter applied to property names by
// the object encoder.
func WithPropertyNameFormatter(f PropertyNameFormatter) Option {
	return func(r *Registry) {
		r.object.formatter = f
	}
}

// WithCyclePolicy sets how encode treats an object reached twice.
func WithCyclePolicy(p CyclePolicy) Option {
	return func(r *Registry) {
		r.cyclePolicy = p
	}
}

// WithMaxDepth bounds encode nesting.
func WithMaxDepth(depth int) Option {
	return func(r *Registry) {
		r.maxDepth = depth
	}
}

// WithLogger sets the logger used by this registry instead of the package
// logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry creates an empty registry. Scalars are unresolvable until an
// encoder is registered for them or a default scalar encoder is set.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		compiler:   NewCompiler(),
		encoders:   make(map[string]Encoder),
		classes:    make(map[string]*Class),
		classNames: make(map[reflect.Type]string),
		maxDepth:   DefaultMaxDepth,
	}
	r.list = NewListEncoder(r)
	r.object = NewObjectEncoder(r, nil)
	r.maps = &mapEncoder{registry: r}

	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = Logger()
	}
	return r
}

// NewDefaultRegistry creates a registry with ScalarEncoder as the default
// scalar encoder.
func NewDefaultRegistry(opts ...Option) *Registry {
	r := NewRegistry(opts...)
	r.RegisterDefaultScalarEncoder(ScalarEncoder{})
	return r
}

// RegisterEncoder binds typeName to enc. An explicit registration always wins
// over the built-in encoders.
func (r *Registry) RegisterEncoder(typeName string, enc Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoders[typeName] = enc
}

// RegisterDefaultScalarEncoder sets the encoder used for scalar type names
// with no explicit registration.
func (r *Registry) RegisterDefaultScalarEncoder(enc Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultScalar = enc
}

// RegisterClass adds cls to the class catalog. The class is compiled
// immediately so that definition errors surface here.
func (r *Registry) RegisterClass(cls *Class) error {
	if _, err := r.compiler.Compile(cls); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.classes[cls.name]; ok && prev.typ != cls.typ {
		return errors.New(errors.PhaseRegister, errors.KindInvalidType).
			Path(cls.name).
			TypeName(cls.name).
			GoType(cls.typ.String()).
			Detail("name already bound to %s", prev.typ).
			Build()
	}
	if prevName, ok := r.classNames[cls.typ]; ok && prevName != cls.name {
		if prev := r.classes[prevName]; prev != nil {
			r.compiler.Forget(prev)
		}
		delete(r.classes, prevName)
	}
	if prev, ok := r.classes[cls.name]; ok {
		r.compiler.Forget(prev)
	}

	r.classes[cls.name] = cls
	r.classNames[cls.typ] = cls.name
	return nil
}

// MustRegisterClass is RegisterClass that panics on error.
func (r *Registry) MustRegisterClass(cls *Class) {
	if err := r.RegisterClass(cls); err != nil {
		panic(err)
	}
}

// Class returns the class registered under name.
func (r *Registry) Class(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cls, ok := r.classes[name]
	return cls, ok
}

// ObjectEncoder returns the generic object encoder.
func (r *Registry) ObjectEncoder() *ObjectEncoder {
	return r.object
}

// ListEncoder returns the list encoder.
func (r *Registry) ListEncoder() *ListEncoder {
	return r.list
}

// NewContext creates the context for one top-level encode call.
func (r *Registry) NewContext() *Context {
	return newContext(r.cyclePolicy, r.maxDepth)
}

// TypeNameOf returns the type name a Go type decodes as, or "" when it has
// none. Struct types without a registered class are registered implicitly
// under their Go type string.
func (r *Registry) TypeNameOf(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}

	if k := typename.KindOf(t.Kind()); k != typename.KindNone {
		return k.String()
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		elem := r.TypeNameOf(t.Elem())
		if elem == "" {
			return ""
		}
		return typename.ListOf(elem)
	case reflect.Struct:
		if t == mapType {
			return ""
		}
		return r.classNameOf(t)
	}
	return ""
}

var mapType = reflect.TypeOf(value.Map{})

func (r *Registry) classNameOf(t reflect.Type) string {
	r.mu.RLock()
	name, ok := r.classNames[t]
	r.mu.RUnlock()
	if ok {
		return name
	}

	name = t.String()
	if !typename.Valid(name) {
		return ""
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.classNames[t]; ok {
		return existing
	}
	if _, taken := r.classes[name]; taken {
		name = t.PkgPath() + "." + t.Name()
	}
	cls := &Class{name: name, typ: t}
	r.classes[name] = cls
	r.classNames[t] = name
	r.logger.Debug("implicit class registered",
		zap.String("class", name),
		zap.Stringer("type", t))
	return name
}

// compiled returns the descriptor of the class registered under name.
func (r *Registry) compiled(name string) (*CompiledClass, error) {
	cls, ok := r.Class(name)
	if !ok {
		return nil, errors.UnresolvableType(errors.PhaseDecode, []string{name}, name, "")
	}
	return r.compiler.Compile(cls)
}

// compiledFor returns the descriptor of the class of struct type t.
func (r *Registry) compiledFor(t reflect.Type) (*CompiledClass, error) {
	name := r.TypeNameOf(t)
	if name == "" {
		return nil, errors.UnresolvableType(errors.PhaseEncode, nil, "", t.String())
	}
	return r.compiled(name)
}

// EncoderForType returns the encoder for a type name.
func (r *Registry) EncoderForType(typeName string) (Encoder, error) {
	if !typename.Valid(typeName) {
		return nil, errors.UnresolvableType(errors.PhaseResolve, nil, typeName, "")
	}

	r.mu.RLock()
	enc, ok := r.encoders[typeName]
	r.mu.RUnlock()

	switch {
	case ok:
		return enc, nil
	case typename.IsList(typeName):
		return r.list, nil
	case typename.IsScalar(typeName):
		return r.scalarEncoder(typename.ScalarKind(typeName), typeName, "")
	}
	return r.object, nil
}

// EncoderForValue returns the encoder for a runtime value.
func (r *Registry) EncoderForValue(v any) (Encoder, error) {
	switch value.ShapeOf(v) {
	case value.ShapeNil:
		return nullEncoder{}, nil
	case value.ShapeSequence:
		return r.list, nil
	case value.ShapeMap:
		return r.maps, nil
	case value.ShapeScalar:
		return r.scalarEncoderFor(v)
	case value.ShapeObject:
		t := reflect.TypeOf(v)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		name := r.TypeNameOf(t)
		r.mu.RLock()
		enc, ok := r.encoders[name]
		r.mu.RUnlock()
		if ok {
			return enc, nil
		}
		return r.object, nil
	}
	return nil, errors.UnresolvableType(errors.PhaseResolve, nil, "", coerce.TypeName(v))
}

func (r *Registry) scalarEncoderFor(v any) (Encoder, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	kind := typename.KindOf(rv.Kind())
	return r.scalarEncoder(kind, kind.String(), coerce.TypeName(v))
}

// scalarEncoder resolves a scalar kind: a registration under any of its
// names, then the default scalar encoder.
func (r *Registry) scalarEncoder(kind typename.Kind, typeName, goType string) (Encoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range typename.Aliases(kind) {
		if enc, ok := r.encoders[name]; ok {
			return enc, nil
		}
	}
	if r.defaultScalar != nil {
		return r.defaultScalar, nil
	}
	return nil, errors.UnresolvableType(errors.PhaseResolve, nil, typeName, goType)
}

// Encode encodes v with a fresh context.
func (r *Registry) Encode(v any) (any, error) {
	enc, err := r.EncoderForValue(v)
	if err != nil {
		return nil, err
	}
	encoded, err := enc.Encode(v, r.NewContext())
	if err != nil {
		return nil, err
	}
	if IsOmitted(encoded) {
		return nil, nil
	}
	return encoded, nil
}

// Decode decodes v as typeName.
func (r *Registry) Decode(v any, typeName string) (any, error) {
	enc, err := r.EncoderForType(typeName)
	if err != nil {
		return nil, err
	}
	return enc.Decode(v, typeName)
}

// DecodeAs decodes v as typeName and converts the result to T.
func DecodeAs[T any](r *Registry, v any, typeName string) (T, error) {
	var zero T
	decoded, err := r.Decode(v, typeName)
	if err != nil {
		return zero, err
	}

	t := reflect.TypeOf((*T)(nil)).Elem()
	rv, ok := coerce.To(decoded, t)
	if !ok {
		return zero, errors.New(errors.PhaseDecode, errors.KindInvalidArgument).
			TypeName(typeName).
			GoType(t.String()).
			Detail("decoded %s is not assignable", coerce.TypeName(decoded)).
			Build()
	}
	out, _ := rv.Interface().(T)
	return out, nil
}
