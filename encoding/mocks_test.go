package encoding

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/wippyai/serialization/value"
)

// call records one Decode invocation.
type call struct {
	value    any
	typeName string
}

// mockEncoder records calls and returns scripted results. Without a script it
// returns its input unchanged.
type mockEncoder struct {
	decodeFn func(v any, typeName string) (any, error)
	encodeFn func(v any) (any, error)
	decodes  []call
	encodes  []any
}

func (m *mockEncoder) Encode(v any, _ *Context) (any, error) {
	m.encodes = append(m.encodes, v)
	if m.encodeFn != nil {
		return m.encodeFn(v)
	}
	return v, nil
}

func (m *mockEncoder) Decode(v any, typeName string) (any, error) {
	m.decodes = append(m.decodes, call{value: v, typeName: typeName})
	if m.decodeFn != nil {
		return m.decodeFn(v, typeName)
	}
	return v, nil
}

func (m *mockEncoder) expectDecodes(t *testing.T, want ...call) {
	t.Helper()
	if len(m.decodes) != len(want) {
		t.Fatalf("expected %d decode calls, got %d: %v", len(want), len(m.decodes), m.decodes)
	}
	for i, w := range want {
		got := m.decodes[i]
		if got.typeName != w.typeName || !reflect.DeepEqual(got.value, w.value) {
			t.Errorf("decode call %d = (%v, %q), want (%v, %q)", i, got.value, got.typeName, w.value, w.typeName)
		}
	}
}

// newMap builds an ordered map from alternating keys and values.
func newMap(kv ...any) *value.Map {
	m := value.NewMap(len(kv) / 2)
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1])
	}
	return m
}

func expectMap(t *testing.T, got any, kv ...any) {
	t.Helper()
	m, ok := got.(*value.Map)
	if !ok {
		t.Fatalf("expected *value.Map, got %T", got)
	}
	want := newMap(kv...)
	if !reflect.DeepEqual(m.Keys(), want.Keys()) {
		t.Fatalf("keys = %v, want %v", m.Keys(), want.Keys())
	}
	for _, k := range want.Keys() {
		g, _ := m.Get(k)
		w, _ := want.Get(k)
		if !reflect.DeepEqual(g, w) {
			t.Errorf("%s = %#v, want %#v", k, g, w)
		}
	}
}

// Fixtures. Each mirrors one constructor shape the object encoder supports.

type user struct {
	id    int
	email string
}

func newUser(id int, email string) *user {
	return &user{id: id, email: email}
}

var userClass = ClassOf[user]("User", WithConstructor(newUser, Param("id"), Param("email")))

type noConstructor struct {
	Foo string
}

type arrayParams struct {
	foo []any
}

func newArrayParams(foo []any) *arrayParams {
	return &arrayParams{foo: foo}
}

type typedParamAndPublicProperty struct {
	Foo string
	bar string
}

func newTypedParamAndPublicProperty(bar string) *typedParamAndPublicProperty {
	return &typedParamAndPublicProperty{bar: bar}
}

func (c *typedParamAndPublicProperty) Bar() string { return c.bar }

type typedParamsNoGetters struct {
	foo string
	bar string
}

func newTypedParamsNoGetters(foo, bar string) typedParamsNoGetters {
	return typedParamsNoGetters{foo: foo, bar: bar}
}

type typedParams struct {
	user *user
}

func newTypedParams(u *user) *typedParams {
	return &typedParams{user: u}
}

type typedVariadicParams struct {
	users []*user
}

func newTypedVariadicParams(users ...*user) *typedVariadicParams {
	return &typedVariadicParams{users: users}
}

type untypedScalars struct {
	foo any
	bar any
}

func newUntypedScalars(foo, bar any) *untypedScalars {
	return &untypedScalars{foo: foo, bar: bar}
}

type untypedParamsTypedGetters struct {
	foo any
	bar any
	baz any
}

func newUntypedParamsTypedGetters(foo, bar, baz any) *untypedParamsTypedGetters {
	return &untypedParamsTypedGetters{foo: foo, bar: bar, baz: baz}
}

func (c *untypedParamsTypedGetters) Foo() *user {
	u, _ := c.foo.(*user)
	return u
}

func (c *untypedParamsTypedGetters) IsBar() bool {
	b, _ := c.bar.(bool)
	return b
}

func (c *untypedParamsTypedGetters) HasBaz() bool {
	b, _ := c.baz.(bool)
	return b
}

type untypedVariadicParams struct {
	foo []any
}

func newUntypedVariadicParams(foo ...any) *untypedVariadicParams {
	return &untypedVariadicParams{foo: foo}
}

type nullableParams struct {
	foo *string
}

func newNullableParams(foo *string) *nullableParams {
	return &nullableParams{foo: foo}
}

type untypedOptionalParams struct {
	foo any
}

func newUntypedOptionalParams(foo any) *untypedOptionalParams {
	return &untypedOptionalParams{foo: foo}
}

type baseWithProperties struct {
	bar string
}

type derivedWithProperties struct {
	baseWithProperties
	foo string
}

type failingConstructor struct {
	foo string
}

var errRejected = stderrors.New("rejected")

func newFailingConstructor(foo string) (*failingConstructor, error) {
	if foo == "" {
		return nil, errRejected
	}
	return &failingConstructor{foo: foo}, nil
}

func newPanickingConstructor(foo string) *failingConstructor {
	panic(fmt.Sprintf("cannot build %q", foo))
}

type node struct {
	name string
	next *node
}

type address struct {
	Street string
	City   string
}

type person struct {
	Name    string
	Address *address
	Tags    []string
	Age     int
}
