package encoding

import (
	stderrors "errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/serialization/errors"
	"github.com/wippyai/serialization/value"
)

func newTestRegistry(t *testing.T, classes ...*Class) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, c := range classes {
		if err := r.RegisterClass(c); err != nil {
			t.Fatalf("RegisterClass(%s) failed: %v", c.Name(), err)
		}
	}
	return r
}

func TestObjectEncoder_DecodeArrayParamRejectsScalar(t *testing.T) {
	r := newTestRegistry(t, ClassOf[arrayParams]("ArrayParams",
		WithConstructor(newArrayParams, Param("foo"))))

	_, err := r.ObjectEncoder().Decode(newMap("foo", "bar"), "ArrayParams")
	if !stderrors.Is(err, errors.ErrInvalidArgument) {
		t.Fatalf("expected invalid_argument, got %v", err)
	}
}

func TestObjectEncoder_DecodeArrayParamOfScalars(t *testing.T) {
	r := newTestRegistry(t, ClassOf[arrayParams]("ArrayParams",
		WithConstructor(newArrayParams, Param("foo"))))
	enc := &mockEncoder{}
	r.RegisterEncoder("string[]", enc)

	got, err := r.ObjectEncoder().Decode(newMap("foo", []any{"bar", "baz"}), "ArrayParams")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	enc.expectDecodes(t, call{[]any{"bar", "baz"}, "string[]"})

	v, ok := got.(*arrayParams)
	if !ok {
		t.Fatalf("expected *arrayParams, got %T", got)
	}
	if !reflect.DeepEqual(v.foo, []any{"bar", "baz"}) {
		t.Errorf("foo = %v", v.foo)
	}
}

func TestObjectEncoder_DecodeWithoutConstructor(t *testing.T) {
	r := newTestRegistry(t, ClassOf[noConstructor]("NoConstructor"))

	got, err := r.ObjectEncoder().Decode(value.NewMap(0), "NoConstructor")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if _, ok := got.(*noConstructor); !ok {
		t.Fatalf("expected *noConstructor, got %T", got)
	}
}

func TestObjectEncoder_DecodeSetsPublicPropertyAfterConstruction(t *testing.T) {
	r := newTestRegistry(t, ClassOf[typedParamAndPublicProperty]("TypedParamAndPublicProperty",
		WithConstructor(newTypedParamAndPublicProperty, Param("bar"))))
	enc := &mockEncoder{}
	r.RegisterEncoder("string", enc)

	got, err := r.ObjectEncoder().Decode(newMap("foo", "dave", "bar", "young"), "TypedParamAndPublicProperty")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	enc.expectDecodes(t, call{"young", "string"}, call{"dave", "string"})

	v := got.(*typedParamAndPublicProperty)
	if v.Foo != "dave" || v.Bar() != "young" {
		t.Errorf("got Foo=%q bar=%q", v.Foo, v.Bar())
	}
}

func TestObjectEncoder_DecodeByConstructorTypes(t *testing.T) {
	r := newTestRegistry(t, ClassOf[typedParamsNoGetters]("TypedParamsNoGetters",
		WithConstructor(newTypedParamsNoGetters, Param("foo"), Param("bar"))))
	enc := &mockEncoder{}
	r.RegisterEncoder("string", enc)

	got, err := r.ObjectEncoder().Decode(newMap("foo", "dave", "bar", "young"), "TypedParamsNoGetters")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	enc.expectDecodes(t, call{"dave", "string"}, call{"young", "string"})

	v := got.(*typedParamsNoGetters)
	if v.foo != "dave" || v.bar != "young" {
		t.Errorf("got %+v", *v)
	}
}

func TestObjectEncoder_DecodeClassTypedParam(t *testing.T) {
	r := newTestRegistry(t, userClass, ClassOf[typedParams]("TypedParams",
		WithConstructor(newTypedParams, Param("user"))))

	expected := newUser(123, "foo@bar.com")
	enc := &mockEncoder{decodeFn: func(any, string) (any, error) { return expected, nil }}
	r.RegisterEncoder("User", enc)

	raw := newMap("id", 123, "email", "foo@bar.com")
	got, err := r.ObjectEncoder().Decode(newMap("user", raw), "TypedParams")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	enc.expectDecodes(t, call{raw, "User"})

	if v := got.(*typedParams); v.user != expected {
		t.Errorf("user = %v, want %v", v.user, expected)
	}
}

func TestObjectEncoder_DecodeTypedVariadic(t *testing.T) {
	r := newTestRegistry(t, userClass, ClassOf[typedVariadicParams]("TypedVariadicParams",
		WithConstructor(newTypedVariadicParams, Param("users"))))

	expected := []any{newUser(123, "foo@bar.com"), newUser(456, "bar@baz.com")}
	enc := &mockEncoder{decodeFn: func(any, string) (any, error) { return expected, nil }}
	r.RegisterEncoder("User[]", enc)

	raw := []any{
		newMap("id", 123, "email", "foo@bar.com"),
		newMap("id", 456, "email", "bar@baz.com"),
	}
	got, err := r.ObjectEncoder().Decode(newMap("users", raw), "TypedVariadicParams")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	enc.expectDecodes(t, call{raw, "User[]"})

	v := got.(*typedVariadicParams)
	if len(v.users) != 2 || v.users[0] != expected[0] || v.users[1] != expected[1] {
		t.Errorf("users = %v", v.users)
	}
}

func TestObjectEncoder_DecodeTypedVariadicThroughListEncoder(t *testing.T) {
	r := newTestRegistry(t, userClass, ClassOf[typedVariadicParams]("TypedVariadicParams",
		WithConstructor(newTypedVariadicParams, Param("users"))))
	r.RegisterDefaultScalarEncoder(ScalarEncoder{})

	raw := []any{
		newMap("id", 123, "email", "foo@bar.com"),
		newMap("id", 456, "email", "bar@baz.com"),
	}
	got, err := r.ObjectEncoder().Decode(newMap("users", raw), "TypedVariadicParams")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	v := got.(*typedVariadicParams)
	if len(v.users) != 2 {
		t.Fatalf("users = %v", v.users)
	}
	if *v.users[0] != (user{123, "foo@bar.com"}) || *v.users[1] != (user{456, "bar@baz.com"}) {
		t.Errorf("users = %+v, %+v", *v.users[0], *v.users[1])
	}
}

func TestObjectEncoder_DecodeUntypedScalarsByValueType(t *testing.T) {
	r := newTestRegistry(t, ClassOf[untypedScalars]("UntypedScalars",
		WithConstructor(newUntypedScalars, Param("foo"), Param("bar"))))
	enc := &mockEncoder{}
	r.RegisterEncoder("integer", enc)

	got, err := r.ObjectEncoder().Decode(newMap("foo", 123, "bar", 456), "UntypedScalars")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	enc.expectDecodes(t, call{123, "int"}, call{456, "int"})

	v := got.(*untypedScalars)
	if v.foo != 123 || v.bar != 456 {
		t.Errorf("got %+v", *v)
	}
}

func TestObjectEncoder_DecodeUntypedParamsUsesAccessorTypes(t *testing.T) {
	r := newTestRegistry(t, userClass, ClassOf[untypedParamsTypedGetters]("UntypedParamsTypedGetters",
		WithConstructor(newUntypedParamsTypedGetters, Param("foo"), Param("bar"), Param("baz"))))

	expected := newUser(123, "foo@bar.com")
	userEnc := &mockEncoder{decodeFn: func(any, string) (any, error) { return expected, nil }}
	r.RegisterEncoder("User", userEnc)
	boolEnc := &mockEncoder{}
	r.RegisterEncoder("bool", boolEnc)

	raw := newMap("id", 123, "email", "foo@bar.com")
	got, err := r.ObjectEncoder().Decode(newMap("foo", raw, "bar", true, "baz", true), "UntypedParamsTypedGetters")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	userEnc.expectDecodes(t, call{raw, "User"})
	boolEnc.expectDecodes(t, call{true, "bool"}, call{true, "bool"})

	v := got.(*untypedParamsTypedGetters)
	if v.Foo() != expected || !v.IsBar() || !v.HasBaz() {
		t.Errorf("got %+v", *v)
	}
}

func TestObjectEncoder_DecodeUntypedVariadic(t *testing.T) {
	cls := ClassOf[untypedVariadicParams]("UntypedVariadicParams",
		WithConstructor(newUntypedVariadicParams, Param("foo")))

	t.Run("rejects scalar", func(t *testing.T) {
		r := newTestRegistry(t, cls)
		_, err := r.ObjectEncoder().Decode(newMap("foo", "bar"), "UntypedVariadicParams")
		if !stderrors.Is(err, errors.ErrInvalidArgument) {
			t.Fatalf("expected invalid_argument, got %v", err)
		}
	})

	t.Run("decodes by element type", func(t *testing.T) {
		r := newTestRegistry(t, cls)
		enc := &mockEncoder{}
		r.RegisterEncoder("string[]", enc)

		got, err := r.ObjectEncoder().Decode(newMap("foo", []any{"bar", "baz"}), "UntypedVariadicParams")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		enc.expectDecodes(t, call{[]any{"bar", "baz"}, "string[]"})
		if v := got.(*untypedVariadicParams); !reflect.DeepEqual(v.foo, []any{"bar", "baz"}) {
			t.Errorf("foo = %v", v.foo)
		}
	})

	t.Run("absent means no arguments", func(t *testing.T) {
		r := newTestRegistry(t, cls)
		got, err := r.ObjectEncoder().Decode(value.NewMap(0), "UntypedVariadicParams")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if v := got.(*untypedVariadicParams); len(v.foo) != 0 {
			t.Errorf("foo = %v", v.foo)
		}
	})
}

func TestInferElemType(t *testing.T) {
	tests := []struct {
		name  string
		items []any
		want  string
	}{
		{"empty", []any{}, "string"},
		{"ints", []any{1, 2}, "int"},
		{"bools", []any{true}, "bool"},
		{"mixed scalars", []any{1, "a"}, "string"},
		{"nested map", []any{1, newMap("a", 1)}, ""},
		{"nil element", []any{nil}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inferElemType(tt.items); got != tt.want {
				t.Errorf("inferElemType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObjectEncoder_DecodeMissingValues(t *testing.T) {
	t.Run("nullable", func(t *testing.T) {
		r := newTestRegistry(t, ClassOf[nullableParams]("NullableParams",
			WithConstructor(newNullableParams, Param("foo"))))
		got, err := r.ObjectEncoder().Decode(value.NewMap(0), "NullableParams")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if v := got.(*nullableParams); v.foo != nil {
			t.Errorf("foo = %v, want nil", *v.foo)
		}
	})

	t.Run("explicit null", func(t *testing.T) {
		r := newTestRegistry(t, ClassOf[nullableParams]("NullableParams",
			WithConstructor(newNullableParams, Param("foo"))))
		got, err := r.ObjectEncoder().Decode(newMap("foo", nil), "NullableParams")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if v := got.(*nullableParams); v.foo != nil {
			t.Errorf("foo = %v, want nil", *v.foo)
		}
	})

	t.Run("optional", func(t *testing.T) {
		r := newTestRegistry(t, ClassOf[untypedOptionalParams]("UntypedOptionalParams",
			WithConstructor(newUntypedOptionalParams, Optional("foo", 1))))
		got, err := r.ObjectEncoder().Decode(value.NewMap(0), "UntypedOptionalParams")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if v := got.(*untypedOptionalParams); v.foo != 1 {
			t.Errorf("foo = %#v, want 1", v.foo)
		}
	})

	t.Run("required", func(t *testing.T) {
		r := newTestRegistry(t, ClassOf[typedParamsNoGetters]("TypedParamsNoGetters",
			WithConstructor(newTypedParamsNoGetters, Param("foo"), Param("bar"))))
		r.RegisterDefaultScalarEncoder(ScalarEncoder{})

		_, err := r.ObjectEncoder().Decode(newMap("foo", "dave"), "TypedParamsNoGetters")
		if !stderrors.Is(err, errors.ErrMissingRequiredValue) {
			t.Fatalf("expected missing_required_value, got %v", err)
		}
		var e *errors.Error
		if !stderrors.As(err, &e) || !reflect.DeepEqual(e.Path, []string{"TypedParamsNoGetters", "bar"}) {
			t.Errorf("unexpected error detail: %v", err)
		}
	})
}

func TestObjectEncoder_DecodeNonMap(t *testing.T) {
	r := newTestRegistry(t, userClass)
	for _, v := range []any{"foo", 1, []any{1}, nil} {
		if _, err := r.ObjectEncoder().Decode(v, "User"); !stderrors.Is(err, errors.ErrInvalidArgument) {
			t.Errorf("Decode(%v) = %v, want invalid_argument", v, err)
		}
	}
}

func TestObjectEncoder_DecodeUnknownClass(t *testing.T) {
	r := NewDefaultRegistry()
	_, err := r.Decode(value.NewMap(0), "Missing")
	if !stderrors.Is(err, errors.ErrUnresolvableType) {
		t.Fatalf("expected unresolvable_type, got %v", err)
	}
}

func TestObjectEncoder_DecodeInstantiationFailure(t *testing.T) {
	t.Run("constructor error", func(t *testing.T) {
		r := newTestRegistry(t, ClassOf[failingConstructor]("Failing",
			WithConstructor(newFailingConstructor, Param("foo"))))
		r.RegisterDefaultScalarEncoder(ScalarEncoder{})

		_, err := r.Decode(newMap("foo", ""), "Failing")
		if !stderrors.Is(err, errors.ErrInstantiation) {
			t.Fatalf("expected instantiation error, got %v", err)
		}
		if !stderrors.Is(err, errRejected) {
			t.Errorf("cause lost: %v", err)
		}

		got, err := r.Decode(newMap("foo", "ok"), "Failing")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got.(*failingConstructor).foo != "ok" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("constructor panic", func(t *testing.T) {
		r := newTestRegistry(t, ClassOf[failingConstructor]("Panicking",
			WithConstructor(newPanickingConstructor, Param("foo"))))
		r.RegisterDefaultScalarEncoder(ScalarEncoder{})

		_, err := r.Decode(newMap("foo", "x"), "Panicking")
		if !stderrors.Is(err, errors.ErrInstantiation) {
			t.Fatalf("expected instantiation error, got %v", err)
		}
		if !strings.Contains(err.Error(), "cannot build") {
			t.Errorf("panic value lost: %v", err)
		}
	})
}

func TestObjectEncoder_DecodeImplicitClasses(t *testing.T) {
	r := NewDefaultRegistry()
	r.MustRegisterClass(ClassOf[person]("Person"))

	raw := newMap(
		"name", "Ada",
		"address", newMap("street", "1 Main St", "city", "London"),
		"tags", []any{"math", "engines"},
		"age", 36,
	)
	got, err := DecodeAs[*person](r, raw, "Person")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := person{
		Name:    "Ada",
		Address: &address{Street: "1 Main St", City: "London"},
		Tags:    []string{"math", "engines"},
		Age:     36,
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("got %+v, want %+v", *got, want)
	}

	if _, ok := r.Class("encoding.address"); !ok {
		t.Error("address should be registered implicitly")
	}

	encoded, err := r.Encode(got)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	expectMap(t, encoded,
		"name", "Ada",
		"address", newMap("street", "1 Main St", "city", "London"),
		"tags", []any{"math", "engines"},
		"age", 36,
	)
}

func TestObjectEncoder_Encode(t *testing.T) {
	r := newTestRegistry(t, ClassOf[typedParamsNoGetters]("TypedParamsNoGetters",
		WithConstructor(newTypedParamsNoGetters, Param("foo"), Param("bar"))))
	enc := &mockEncoder{}
	r.RegisterEncoder("string", enc)

	got, err := r.ObjectEncoder().Encode(newTypedParamsNoGetters("dave", "young"), r.NewContext())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	expectMap(t, got, "foo", "dave", "bar", "young")
	if !reflect.DeepEqual(enc.encodes, []any{"dave", "young"}) {
		t.Errorf("encode calls = %v", enc.encodes)
	}
}

func TestObjectEncoder_EncodeDerivedClassBaseFirst(t *testing.T) {
	r := NewRegistry()
	enc := &mockEncoder{}
	r.RegisterEncoder("string", enc)

	v := &derivedWithProperties{baseWithProperties: baseWithProperties{bar: "young"}, foo: "dave"}
	got, err := r.ObjectEncoder().Encode(v, r.NewContext())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	expectMap(t, got, "bar", "young", "foo", "dave")
}

func TestObjectEncoder_EncodeIgnoredProperties(t *testing.T) {
	r := newTestRegistry(t, userClass)
	enc := &mockEncoder{}
	r.RegisterEncoder("integer", enc)
	r.ObjectEncoder().AddIgnoredProperty("User", "email")

	got, err := r.ObjectEncoder().Encode(newUser(123, "foo@bar.com"), r.NewContext())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	expectMap(t, got, "id", 123)

	r.ObjectEncoder().AddIgnoredProperty("Other", "id")
	got, _ = r.ObjectEncoder().Encode(newUser(1, "x"), r.NewContext())
	expectMap(t, got, "id", 1)
}

func TestObjectEncoder_EncodeFormatsPropertyNames(t *testing.T) {
	var seen []string
	formatter := PropertyNameFormatterFunc(func(name string) string {
		seen = append(seen, name)
		return "_" + name
	})
	r := NewDefaultRegistry(WithPropertyNameFormatter(formatter))
	r.MustRegisterClass(userClass)

	got, err := r.Encode(newUser(123, "foo@bar.com"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	expectMap(t, got, "_id", 123, "_email", "foo@bar.com")
	if !reflect.DeepEqual(seen, []string{"id", "email"}) {
		t.Errorf("formatter calls = %v", seen)
	}

	decoded, err := r.Decode(newMap("_id", 7, "_email", "a@b.c"), "User")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if *decoded.(*user) != (user{7, "a@b.c"}) {
		t.Errorf("decoded %+v", decoded)
	}
}

func TestObjectEncoder_EncodeNonObject(t *testing.T) {
	r := NewDefaultRegistry()
	for _, v := range []any{"foo", 1, []any{}, newMap(), nil} {
		if _, err := r.ObjectEncoder().Encode(v, r.NewContext()); !stderrors.Is(err, errors.ErrInvalidArgument) {
			t.Errorf("Encode(%v) = %v, want invalid_argument", v, err)
		}
	}
}

func TestObjectEncoder_EncodeStructValue(t *testing.T) {
	r := NewDefaultRegistry()
	got, err := r.Encode(address{Street: "s", City: "c"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	expectMap(t, got, "street", "s", "city", "c")
}

func TestObjectEncoder_Cycles(t *testing.T) {
	a := &node{name: "a"}
	b := &node{name: "b", next: a}
	a.next = b

	t.Run("omit", func(t *testing.T) {
		r := NewDefaultRegistry()
		got, err := r.Encode(a)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		expectMap(t, got, "name", "a", "next", newMap("name", "b"))
	})

	t.Run("omit inside sequence", func(t *testing.T) {
		r := NewDefaultRegistry()
		c := &node{name: "c"}
		got, err := r.Encode([]*node{c, c})
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		items := got.([]any)
		if len(items) != 2 || items[1] != nil {
			t.Fatalf("got %v", items)
		}
		expectMap(t, items[0], "name", "c", "next", nil)
	})

	t.Run("error", func(t *testing.T) {
		r := NewDefaultRegistry(WithCyclePolicy(CycleError))
		_, err := r.Encode(a)
		if !stderrors.Is(err, errors.ErrCircularReference) {
			t.Fatalf("expected circular_reference, got %v", err)
		}
	})

	t.Run("fresh context per call", func(t *testing.T) {
		r := NewDefaultRegistry(WithCyclePolicy(CycleError))
		c := &node{name: "c"}
		for i := 0; i < 2; i++ {
			if _, err := r.Encode(c); err != nil {
				t.Fatalf("Encode %d failed: %v", i, err)
			}
		}
	})
}

func TestObjectEncoder_DepthLimit(t *testing.T) {
	r := NewDefaultRegistry(WithMaxDepth(3))

	var head *node
	for i := 0; i < 5; i++ {
		head = &node{name: "n", next: head}
	}
	_, err := r.Encode(head)
	if !stderrors.Is(err, errors.ErrDepthExceeded) {
		t.Fatalf("expected depth_exceeded, got %v", err)
	}

	short := &node{name: "a", next: &node{name: "b"}}
	if _, err := r.Encode(short); err != nil {
		t.Fatalf("Encode within limit failed: %v", err)
	}
}

type labelBase struct {
	label string
}

func (b *labelBase) Label() string { return b.label }

type labelled struct {
	*labelBase
	Extra string
}

func TestObjectEncoder_EncodeNilEmbeddedBaseWithAccessor(t *testing.T) {
	r := NewDefaultRegistry()

	got, err := r.Encode(&labelled{Extra: "x"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	expectMap(t, got, "label", nil, "extra", "x")

	got, err = r.Encode(&labelled{labelBase: &labelBase{label: "l"}, Extra: "x"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	expectMap(t, got, "label", "l", "extra", "x")
}

type flat struct {
	A int
	B int
}

func TestObjectEncoder_EncodePointerToPointer(t *testing.T) {
	r := NewDefaultRegistry()

	p := &flat{A: 7, B: 9}
	got, err := r.Encode(&p)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	expectMap(t, got, "a", 7, "b", 9)

	pp := &p
	got, err = r.ObjectEncoder().Encode(&pp, r.NewContext())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	expectMap(t, got, "a", 7, "b", 9)
}

func TestObjectEncoder_EncodePointerToPointerCycle(t *testing.T) {
	r := NewDefaultRegistry(WithCyclePolicy(CycleError))
	ctx := r.NewContext()

	p := &flat{A: 1}
	if _, err := r.ObjectEncoder().Encode(p, ctx); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := r.ObjectEncoder().Encode(&p, ctx); !stderrors.Is(err, errors.ErrCircularReference) {
		t.Fatalf("expected circular reference through **T, got %v", err)
	}
}

type trailingBase struct {
	Bar string
}

type trailingEmbed struct {
	Foo string
	trailingBase
}

func TestObjectEncoder_EncodeBaseFirstWhateverFieldOrder(t *testing.T) {
	r := NewDefaultRegistry()
	got, err := r.Encode(&trailingEmbed{Foo: "f", trailingBase: trailingBase{Bar: "b"}})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	expectMap(t, got, "bar", "b", "foo", "f")
}

type bag struct {
	items []string
}

func newBag(items []string) *bag {
	return &bag{items: items}
}

func (b *bag) HasItems() bool { return len(b.items) > 0 }

func TestObjectEncoder_AccessorMustMatchFieldType(t *testing.T) {
	r := NewDefaultRegistry()
	r.MustRegisterClass(ClassOf[bag]("Bag", WithConstructor(newBag, Param("items"))))

	got, err := r.Encode(newBag([]string{"a", "b"}))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	expectMap(t, got, "items", []any{"a", "b"})

	decoded, err := DecodeAs[*bag](r, got, "Bag")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(decoded.items, []string{"a", "b"}) {
		t.Errorf("items = %v", decoded.items)
	}
}

func TestObjectEncoder_ConstructorPanicLogsToRegistryLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := NewDefaultRegistry(WithLogger(zap.New(core)))
	r.MustRegisterClass(ClassOf[failingConstructor]("Panicking",
		WithConstructor(newPanickingConstructor, Param("foo"))))

	if _, err := r.Decode(newMap("foo", "x"), "Panicking"); !stderrors.Is(err, errors.ErrInstantiation) {
		t.Fatalf("expected instantiation error, got %v", err)
	}

	entries := logs.FilterMessage("constructor panicked").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["class"]; got != "Panicking" {
		t.Errorf("class field = %v", got)
	}
}
