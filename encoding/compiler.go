package encoding

import (
	"fmt"
	"reflect"
	"sync"
	"unicode"
	"unsafe"

	"github.com/viant/xunsafe"
	"go.uber.org/zap"

	"github.com/wippyai/serialization/encoding/internal/coerce"
	"github.com/wippyai/serialization/encoding/internal/typename"
	"github.com/wippyai/serialization/errors"
)

// PropertyTag is the struct tag that renames a property. A value of "-"
// excludes the field.
const PropertyTag = "encoding"

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// CompiledClass is the cached descriptor of a class: its constructor
// parameters in declaration order and its properties in base-before-derived
// order.
type CompiledClass struct {
	Type       reflect.Type
	accessors  map[string]reflect.Method
	ctor       reflect.Value
	Name       string
	Params     []*CompiledParam
	Properties []*Property
	ctorErr    bool
}

// CompiledParam describes one constructor parameter. For a variadic
// parameter, Type is the element type.
type CompiledParam struct {
	Type       reflect.Type
	Default    any
	Name       string
	TypeName   string
	HasDefault bool
	Nullable   bool
	Variadic   bool
}

// Property describes one struct field, possibly promoted from an embedded
// base struct.
type Property struct {
	Type     reflect.Type
	field    *xunsafe.Field
	accessor *reflect.Method
	Name     string
	GoName   string
	path     []step
	Exported bool
	Bound    bool
}

// step is one embedded struct on the way from the instance to the field.
type step struct {
	field *xunsafe.Field
	elem  reflect.Type
	ptr   bool
}

// Compiler builds class descriptors and caches them.
type Compiler struct {
	cache sync.Map // *Class -> *CompiledClass
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile returns the descriptor of cls, building it on first use.
func (c *Compiler) Compile(cls *Class) (*CompiledClass, error) {
	if cls == nil {
		return nil, errors.New(errors.PhaseRegister, errors.KindInvalidArgument).
			Detail("class cannot be nil").
			Build()
	}

	if cached, ok := c.cache.Load(cls); ok {
		return cached.(*CompiledClass), nil
	}

	cc, err := c.compile(cls)
	if err != nil {
		return nil, err
	}

	actual, _ := c.cache.LoadOrStore(cls, cc)
	return actual.(*CompiledClass), nil
}

// Forget drops the cached descriptor of cls.
func (c *Compiler) Forget(cls *Class) {
	c.cache.Delete(cls)
}

func (c *Compiler) compile(cls *Class) (*CompiledClass, error) {
	path := []string{cls.name}

	if !typename.Valid(cls.name) || typename.IsList(cls.name) || typename.IsScalar(cls.name) {
		return nil, errors.InvalidType(errors.PhaseRegister, path, cls.name)
	}
	if cls.typ == nil || cls.typ.Kind() != reflect.Struct {
		goType := "nil"
		if cls.typ != nil {
			goType = cls.typ.String()
		}
		return nil, errors.InvalidArgument(errors.PhaseRegister, path, goType, "class type must be a struct")
	}

	cc := &CompiledClass{
		Name:      cls.name,
		Type:      cls.typ,
		accessors: make(map[string]reflect.Method),
	}

	cc.Properties = collectProperties(cls.typ, nil)

	if cls.HasConstructor() {
		if err := c.compileConstructor(cc, cls); err != nil {
			return nil, err
		}
	}

	for _, p := range cc.Properties {
		if m, ok := findAccessor(cls.typ, p.Name, p.GoName, p.Type); ok {
			p.accessor = &m
			cc.accessors[p.Name] = m
		}
	}
	for _, p := range cc.Params {
		if prop, ok := cc.Property(p.Name); ok {
			prop.Bound = true
			continue
		}
		if m, ok := findAccessor(cls.typ, p.Name, "", nil); ok {
			cc.accessors[p.Name] = m
		}
	}

	return cc, nil
}

func (c *Compiler) compileConstructor(cc *CompiledClass, cls *Class) error {
	path := []string{cls.name}
	fn := cls.ctor
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return errors.InvalidArgument(errors.PhaseRegister, path, fn.Type().String(), "constructor must be a func")
	}

	ft := fn.Type()
	if ft.NumIn() != len(cls.params) {
		return errors.InvalidArgument(errors.PhaseRegister, path, ft.String(),
			fmt.Sprintf("constructor takes %d parameters, %d described", ft.NumIn(), len(cls.params)))
	}

	switch {
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
		cc.ctorErr = true
	case ft.NumOut() == 1:
	default:
		return errors.InvalidArgument(errors.PhaseRegister, path, ft.String(),
			"constructor must return the instance and optionally an error")
	}
	if out := ft.Out(0); out != cls.typ && out != reflect.PointerTo(cls.typ) {
		return errors.InvalidArgument(errors.PhaseRegister, path, ft.String(),
			fmt.Sprintf("constructor must return %s or *%s", cls.typ, cls.typ))
	}

	seen := make(map[string]bool, len(cls.params))
	for i, spec := range cls.params {
		ppath := []string{cls.name, spec.Name}
		if spec.Name == "" || seen[spec.Name] {
			return errors.InvalidArgument(errors.PhaseRegister, ppath, ft.In(i).String(),
				"parameter names must be non-empty and unique")
		}
		seen[spec.Name] = true

		if spec.TypeName != "" && !typename.Valid(spec.TypeName) {
			return errors.InvalidType(errors.PhaseRegister, ppath, spec.TypeName)
		}

		p := &CompiledParam{
			Name:     spec.Name,
			TypeName: spec.TypeName,
			Type:     ft.In(i),
			Variadic: ft.IsVariadic() && i == ft.NumIn()-1,
		}
		if p.Variadic {
			p.Type = p.Type.Elem()
			if spec.HasDefault {
				return errors.InvalidArgument(errors.PhaseRegister, ppath, ft.In(i).String(),
					"variadic parameter cannot have a default")
			}
		}
		p.Nullable = spec.Nullable || (!p.Variadic && nullableType(p.Type))

		if spec.HasDefault {
			if _, ok := coerce.To(spec.Default, p.Type); !ok {
				return errors.New(errors.PhaseRegister, errors.KindInvalidArgument).
					Path(ppath...).
					GoType(p.Type.String()).
					Value(spec.Default).
					Detail("default %s is not assignable", coerce.TypeName(spec.Default)).
					Build()
			}
			p.Default = spec.Default
			p.HasDefault = true
		}

		cc.Params = append(cc.Params, p)
	}

	cc.ctor = fn
	return nil
}

// defaultArg converts the declared default to the parameter type.
func (p *CompiledParam) defaultArg() reflect.Value {
	v, _ := coerce.To(p.Default, p.Type)
	return v
}

// nullableType reports whether a missing value may be represented by the
// zero value of t. Slices are required.
func nullableType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map:
		return true
	}
	return false
}

// collectProperties walks t's fields. Embedded structs contribute their
// properties before t's own fields wherever they are declared; a property
// declared again shadows the earlier one but keeps its position.
func collectProperties(t reflect.Type, path []step) []*Property {
	var props []*Property
	index := make(map[string]int)

	add := func(p *Property) {
		if i, ok := index[p.Name]; ok {
			props[i] = p
			return
		}
		index[p.Name] = len(props)
		props = append(props, p)
	}

	var own []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, tagged := f.Tag.Lookup(PropertyTag)
		if tag == "-" || f.Name == "_" {
			continue
		}

		if f.Anonymous && !tagged {
			elem, isPtr := f.Type, false
			if elem.Kind() == reflect.Pointer {
				elem, isPtr = elem.Elem(), true
			}
			if elem.Kind() == reflect.Struct {
				inner := append(append([]step{}, path...), step{
					field: xunsafe.NewField(f),
					elem:  elem,
					ptr:   isPtr,
				})
				for _, p := range collectProperties(elem, inner) {
					add(p)
				}
				continue
			}
		}
		own = append(own, f)
	}

	for _, f := range own {
		name := f.Tag.Get(PropertyTag)
		if name == "" {
			name = propertyName(f.Name)
		}
		add(&Property{
			Name:     name,
			GoName:   f.Name,
			Type:     f.Type,
			Exported: f.IsExported(),
			field:    xunsafe.NewField(f),
			path:     path,
		})
	}

	return props
}

// propertyName lowers the leading upper-case run of a Go field name:
// Name -> name, ID -> id, URLPath -> urlPath.
func propertyName(goName string) string {
	runes := []rune(goName)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	if n == 0 {
		return goName
	}
	if n > 1 && n < len(runes) && unicode.IsLower(runes[n]) {
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

var accessorPrefixes = []string{"", "Get", "Is", "Has"}

// findAccessor looks for a niladic single-result method named after the
// property: Foo, GetFoo, IsFoo or HasFoo. With a field type the result must be
// assignable to it; without one, IsFoo and HasFoo must return bool.
func findAccessor(t reflect.Type, name, goName string, fieldType reflect.Type) (reflect.Method, bool) {
	pt := reflect.PointerTo(t)
	bases := []string{upperFirst(name)}
	if goName != "" && upperFirst(goName) != bases[0] {
		bases = append(bases, upperFirst(goName))
	}

	for _, base := range bases {
		for _, prefix := range accessorPrefixes {
			m, ok := pt.MethodByName(prefix + base)
			if !ok {
				continue
			}
			if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
				continue
			}
			out := m.Type.Out(0)
			if fieldType != nil && !out.AssignableTo(fieldType) {
				continue
			}
			if fieldType == nil && (prefix == "Is" || prefix == "Has") && out.Kind() != reflect.Bool {
				continue
			}
			return m, true
		}
	}
	return reflect.Method{}, false
}

// AccessorType returns the result type of the accessor named after a
// parameter or property.
func (cc *CompiledClass) AccessorType(name string) (reflect.Type, bool) {
	m, ok := cc.accessors[name]
	if !ok {
		return nil, false
	}
	return m.Type.Out(0), true
}

// Property returns the property with the given name.
func (cc *CompiledClass) Property(name string) (*Property, bool) {
	for _, p := range cc.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// instantiate builds a new instance and returns a pointer to it.
func (cc *CompiledClass) instantiate(args []reflect.Value, log *zap.Logger) (inst reflect.Value, err error) {
	if !cc.ctor.IsValid() {
		return reflect.New(cc.Type), nil
	}

	defer func() {
		if r := recover(); r != nil {
			log.Debug("constructor panicked",
				zap.String("class", cc.Name),
				zap.Any("panic", r))
			err = errors.Instantiation(cc.Name, fmt.Errorf("constructor panicked: %v", r))
		}
	}()

	out := cc.ctor.Call(args)
	if cc.ctorErr && !out[1].IsNil() {
		return reflect.Value{}, errors.Instantiation(cc.Name, out[1].Interface().(error))
	}

	res := out[0]
	if res.Kind() == reflect.Pointer {
		if res.IsNil() {
			return reflect.Value{}, errors.Instantiation(cc.Name, fmt.Errorf("constructor returned nil"))
		}
		return res, nil
	}
	p := reflect.New(cc.Type)
	p.Elem().Set(res)
	return p, nil
}

// owner returns the address of the struct that declares p, allocating nil
// embedded pointers when alloc is set.
func (p *Property) owner(inst reflect.Value, alloc bool) (unsafe.Pointer, bool) {
	addr := inst.UnsafePointer()
	for _, s := range p.path {
		fieldAddr := s.field.Pointer(addr)
		if !s.ptr {
			addr = fieldAddr
			continue
		}
		next := *(*unsafe.Pointer)(fieldAddr)
		if next == nil {
			if !alloc {
				return nil, false
			}
			next = reflect.New(s.elem).UnsafePointer()
			*(*unsafe.Pointer)(fieldAddr) = next
		}
		addr = next
	}
	return addr, true
}

// Get reads the property of the instance pointed to by inst, through its
// accessor when it has one. A property of a nil embedded base reads as nil.
func (p *Property) Get(inst reflect.Value) any {
	addr, ok := p.owner(inst, false)
	if !ok {
		return nil
	}
	if p.accessor != nil {
		return p.accessor.Func.Call([]reflect.Value{inst})[0].Interface()
	}
	return p.field.Value(addr)
}

// Set assigns v, which must be assignable to the property type.
func (p *Property) Set(inst reflect.Value, v reflect.Value) {
	addr, _ := p.owner(inst, true)
	if p.Type.Kind() == reflect.Interface || !v.IsValid() {
		target := reflect.NewAt(p.Type, p.field.Pointer(addr)).Elem()
		if !v.IsValid() {
			target.Set(reflect.Zero(p.Type))
			return
		}
		target.Set(v)
		return
	}
	p.field.SetValue(addr, v.Interface())
}
