package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Map is an insertion-ordered string-keyed map. The order of Set calls is the
// order keys are rendered in, which is what makes encoded objects keep their
// property declaration order.
type Map struct {
	values map[string]any
	keys   []string
}

// NewMap creates an empty map with room for capacity entries.
func NewMap(capacity int) *Map {
	return &Map{
		keys:   make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

// FromMap copies a plain Go map. Keys are sorted since Go maps carry no order.
func FromMap(src map[string]any) *Map {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := NewMap(len(keys))
	for _, k := range keys {
		m.Set(k, src[k])
	}
	return m
}

// Set stores v under key. Existing keys keep their position.
func (m *Map) Set(key string, v any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key, preserving the order of the remaining keys.
func (m *Map) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Range calls fn for every entry in order until fn returns false.
func (m *Map) Range(fn func(key string, v any) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// ToMap returns an unordered plain Go copy of the top level.
func (m *Map) ToMap() map[string]any {
	out := make(map[string]any, m.Len())
	m.Range(func(k string, v any) bool {
		out[k] = v
		return true
	})
	return out
}

// MarshalJSON renders the entries in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("value: marshal %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping document key order. Nested
// objects become *Map, arrays []any and numbers int or float64.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("value: expected JSON object, got %v", tok)
	}

	out, err := readJSONObject(dec)
	if err != nil {
		return err
	}
	*m = *out
	return nil
}

// ParseJSON decodes any JSON document into a generic value.
func ParseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return readJSON(dec)
}

func readJSON(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return readJSONObject(dec)
		case '[':
			return readJSONArray(dec)
		}
		return nil, fmt.Errorf("value: unexpected delimiter %v", t)
	case json.Number:
		return jsonNumber(t)
	default:
		// string, bool, nil
		return t, nil
	}
}

func readJSONObject(dec *json.Decoder) (*Map, error) {
	out := NewMap(8)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("value: expected object key, got %v", tok)
		}
		v, err := readJSON(dec)
		if err != nil {
			return nil, err
		}
		out.Set(key, v)
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func readJSONArray(dec *json.Decoder) ([]any, error) {
	out := make([]any, 0)
	for dec.More() {
		v, err := readJSON(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func jsonNumber(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		if int64(int(i)) == i {
			return int(i), nil
		}
		return i, nil
	}
	return n.Float64()
}
