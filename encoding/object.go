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

// ObjectEncoder encodes any registered (or implicitly registered) struct by
// introspecting its class descriptor.
//
// Decode builds an instance through the class constructor, binding map
// entries to constructor parameters by name, then assigns the remaining
// exported fields. Encode produces an ordered map with one entry per
// property, base class properties first.
type ObjectEncoder struct {
	registry  *Registry
	formatter PropertyNameFormatter
	ignored   map[string]map[string]struct{}
	mu        sync.RWMutex
}

// NewObjectEncoder creates an object encoder resolving nested encoders
// through r. A nil formatter leaves property names unchanged.
func NewObjectEncoder(r *Registry, f PropertyNameFormatter) *ObjectEncoder {
	return &ObjectEncoder{
		registry:  r,
		formatter: f,
		ignored:   make(map[string]map[string]struct{}),
	}
}

// AddIgnoredProperty excludes a property from the encoding of exactly the
// named class.
func (e *ObjectEncoder) AddIgnoredProperty(className, propertyName string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	props, ok := e.ignored[className]
	if !ok {
		props = make(map[string]struct{})
		e.ignored[className] = props
	}
	props[propertyName] = struct{}{}
}

func (e *ObjectEncoder) isIgnored(className, propertyName string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.ignored[className][propertyName]
	return ok
}

func (e *ObjectEncoder) key(name string) string {
	return formatName(e.formatter, name)
}

func (e *ObjectEncoder) Decode(v any, typeName string) (any, error) {
	m, ok := value.AsMap(v)
	if !ok {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidArgument).
			Path(typeName).
			TypeName(typeName).
			GoType(coerce.TypeName(v)).
			Detail("value must be a map").
			Build()
	}

	cc, err := e.registry.compiled(typeName)
	if err != nil {
		return nil, err
	}

	args := make([]reflect.Value, 0, len(cc.Params))
	for _, p := range cc.Params {
		raw, present := m.Get(e.key(p.Name))

		if p.Variadic {
			if !present {
				continue
			}
			var hint string
			if p.TypeName != "" {
				hint = typename.ListOf(p.TypeName)
			}
			rest, err := e.decodeValue(cc, p.Name, reflect.SliceOf(p.Type), hint, raw)
			if err != nil {
				return nil, err
			}
			for i := 0; i < rest.Len(); i++ {
				args = append(args, rest.Index(i))
			}
			continue
		}

		if !present {
			switch {
			case p.HasDefault:
				args = append(args, p.defaultArg())
			case p.Nullable:
				args = append(args, reflect.Zero(p.Type))
			default:
				return nil, errors.MissingRequiredValue(cc.Name, p.Name)
			}
			continue
		}

		if raw == nil && p.Nullable {
			args = append(args, reflect.Zero(p.Type))
			continue
		}

		arg, err := e.decodeValue(cc, p.Name, p.Type, p.TypeName, raw)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	inst, err := cc.instantiate(args, e.registry.logger)
	if err != nil {
		return nil, err
	}

	for _, prop := range cc.Properties {
		if !prop.Exported || prop.Bound {
			continue
		}
		raw, present := m.Get(e.key(prop.Name))
		if !present {
			continue
		}
		fv, err := e.decodeValue(cc, prop.Name, prop.Type, "", raw)
		if err != nil {
			return nil, err
		}
		prop.Set(inst, fv)
	}

	return inst.Interface(), nil
}

// decodeValue decodes one parameter or property value and converts it to t.
func (e *ObjectEncoder) decodeValue(cc *CompiledClass, name string, t reflect.Type, hint string, raw any) (reflect.Value, error) {
	if raw == nil && nullableType(t) {
		return reflect.Zero(t), nil
	}

	typeName := e.effectiveType(cc, name, t, hint, raw)
	decoded := raw
	if typeName != "" {
		enc, err := e.registry.EncoderForType(typeName)
		if err != nil {
			return reflect.Value{}, err
		}
		if decoded, err = enc.Decode(raw, typeName); err != nil {
			return reflect.Value{}, err
		}
	}

	rv, ok := coerce.To(decoded, t)
	if !ok {
		return reflect.Value{}, errors.New(errors.PhaseDecode, errors.KindInvalidArgument).
			Path(cc.Name, name).
			TypeName(typeName).
			GoType(t.String()).
			Value(raw).
			Detail("decoded %s is not assignable", coerce.TypeName(decoded)).
			Build()
	}
	return rv, nil
}

// effectiveType picks the type name a value is decoded as: an explicit hint,
// then the declared Go type, then the type of a matching accessor, then
// whatever the raw value itself suggests. An empty result means the raw
// value is used as is.
func (e *ObjectEncoder) effectiveType(cc *CompiledClass, name string, t reflect.Type, hint string, raw any) string {
	if hint != "" {
		return hint
	}
	if !untyped(t) {
		return e.registry.TypeNameOf(t)
	}
	if at, ok := cc.AccessorType(name); ok && !untyped(at) {
		if n := e.registry.TypeNameOf(at); n != "" {
			return n
		}
	}
	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		items, ok := value.AsSequence(raw)
		if !ok {
			return ""
		}
		if elem := inferElemType(items); elem != "" {
			return typename.ListOf(elem)
		}
		return ""
	}
	return typename.OfValue(raw)
}

// untyped reports whether t carries no type information: an interface or a
// sequence of interfaces.
func untyped(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface:
		return true
	case reflect.Slice, reflect.Array:
		return untyped(t.Elem())
	}
	return false
}

// inferElemType returns the common scalar type of items. An empty sequence or
// a mix of scalar kinds is treated as strings; any non-scalar element leaves
// the sequence untyped.
func inferElemType(items []any) string {
	if len(items) == 0 {
		return typename.String
	}
	var common string
	for _, item := range items {
		name := typename.OfValue(item)
		if name == "" {
			return ""
		}
		if common == "" {
			common = name
		} else if common != name {
			common = typename.String
		}
	}
	return common
}

func (e *ObjectEncoder) Encode(v any, ctx *Context) (any, error) {
	if value.ShapeOf(v) != value.ShapeObject {
		return nil, errors.InvalidArgument(errors.PhaseEncode, nil, coerce.TypeName(v), "value must be an object")
	}
	if ctx == nil {
		ctx = e.registry.NewContext()
	}

	// identity stays the struct value itself when v is not a pointer
	rv, identity := reflect.ValueOf(v), v
	for rv.Kind() == reflect.Pointer && rv.Elem().Kind() == reflect.Pointer {
		rv = rv.Elem()
		identity = rv.Interface()
	}
	if rv.Kind() != reflect.Pointer {
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		rv = p
	}

	cc, err := e.registry.compiledFor(rv.Type().Elem())
	if err != nil {
		return nil, err
	}

	if ctx.IsCircularReference(identity) {
		if ctx.Policy() == CycleError {
			return nil, errors.CircularReference([]string{cc.Name}, rv.Type().String())
		}
		e.registry.logger.Debug("circular reference omitted", zap.String("class", cc.Name))
		return omitted{}, nil
	}

	if err := ctx.enter(cc.Name); err != nil {
		return nil, err
	}
	defer ctx.leave()

	out := value.NewMap(len(cc.Properties))
	for _, prop := range cc.Properties {
		if e.isIgnored(cc.Name, prop.Name) {
			continue
		}

		fv := prop.Get(rv)
		enc, err := e.registry.EncoderForValue(fv)
		if err != nil {
			return nil, err
		}
		encoded, err := enc.Encode(fv, ctx)
		if err != nil {
			return nil, err
		}
		if IsOmitted(encoded) {
			continue
		}
		out.Set(e.key(prop.Name), encoded)
	}
	return out, nil
}
