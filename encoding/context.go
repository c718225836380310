package encoding

import (
	"reflect"

	"github.com/wippyai/serialization/errors"
)

// DefaultMaxDepth bounds encode nesting unless configured otherwise.
const DefaultMaxDepth = 1024

// CyclePolicy decides what happens when encode reaches an object that was
// already encoded earlier in the same call.
type CyclePolicy uint8

const (
	// CycleOmit leaves the back-reference out: the property is dropped from
	// its owning map and a sequence element becomes nil.
	CycleOmit CyclePolicy = iota
	// CycleError fails the encode call with a circular_reference error.
	CycleError
)

func (p CyclePolicy) String() string {
	switch p {
	case CycleOmit:
		return "omit"
	case CycleError:
		return "error"
	}
	return "unknown"
}

type identity struct {
	typ reflect.Type
	ptr uintptr
}

// Context is the per-call state of one top-level encode. It records the
// identity of every object encoded so far; membership never shrinks.
// A Context must not be reused across encode calls.
type Context struct {
	visited  map[identity]struct{}
	policy   CyclePolicy
	maxDepth int
	depth    int
}

// NewContext creates a context with the default policy and depth limit.
func NewContext() *Context {
	return newContext(CycleOmit, DefaultMaxDepth)
}

func newContext(policy CyclePolicy, maxDepth int) *Context {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Context{
		visited:  make(map[identity]struct{}),
		policy:   policy,
		maxDepth: maxDepth,
	}
}

// IsCircularReference records the identity of v and reports whether it had
// been recorded before. Only reference values (pointers, maps) have an
// identity; everything else always reports false.
func (c *Context) IsCircularReference(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		if rv.IsNil() {
			return false
		}
	default:
		return false
	}

	id := identity{typ: rv.Type(), ptr: rv.Pointer()}
	if _, ok := c.visited[id]; ok {
		return true
	}
	c.visited[id] = struct{}{}
	return false
}

// Policy returns the cycle policy of this call.
func (c *Context) Policy() CyclePolicy {
	return c.policy
}

// Depth returns the current nesting depth.
func (c *Context) Depth() int {
	return c.depth
}

func (c *Context) enter(path ...string) error {
	if c.depth >= c.maxDepth {
		return errors.DepthExceeded(errors.PhaseEncode, path, c.maxDepth)
	}
	c.depth++
	return nil
}

func (c *Context) leave() {
	c.depth--
}
