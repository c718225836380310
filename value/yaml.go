package value

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders the entries as a mapping node in insertion order.
func (m *Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.Keys() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		val := &yaml.Node{}
		if err := val.Encode(m.values[k]); err != nil {
			return nil, fmt.Errorf("value: marshal %q: %w", k, err)
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping node keeping document key order.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	v, err := FromNode(node)
	if err != nil {
		return err
	}
	out, ok := v.(*Map)
	if !ok {
		return fmt.Errorf("value: expected YAML mapping at line %d", node.Line)
	}
	*m = *out
	return nil
}

// FromNode converts a parsed YAML node tree into a generic value. JSON
// documents parse as YAML too, so this is the single reader used for both.
func FromNode(node *yaml.Node) (any, error) {
	if node == nil || node.Kind == 0 {
		return nil, nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return FromNode(node.Content[0])

	case yaml.MappingNode:
		out := NewMap(len(node.Content) / 2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("value: non-scalar key at line %d", keyNode.Line)
			}
			v, err := FromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			out.Set(keyNode.Value, v)
		}
		return out, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := FromNode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case yaml.AliasNode:
		return FromNode(node.Alias)

	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("value: scalar at line %d: %w", node.Line, err)
		}
		return v, nil
	}

	return nil, fmt.Errorf("value: unsupported YAML node kind %d", node.Kind)
}

// ParseYAML parses a YAML (or JSON) document into a generic value.
func ParseYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return FromNode(&doc)
}
