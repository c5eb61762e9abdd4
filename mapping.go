package bucketx

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MapItem is a single key/value pair of a Mapping
type MapItem struct {
	Key   string
	Value any
}

// Mapping is a string-keyed mapping that preserves insertion order through a
// YAML round trip. Nested mappings decode as Mapping, sequences as []any,
// scalars as the usual Go types.
type Mapping []MapItem

// Get returns the value stored under key
func (m Mapping) Get(key string) (any, bool) {
	for _, item := range m {
		if item.Key == key {
			return item.Value, true
		}
	}
	return nil, false
}

// Set replaces the value under key, or appends a new pair when absent
func (m *Mapping) Set(key string, value any) {
	for i, item := range *m {
		if item.Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, MapItem{Key: key, Value: value})
}

// Keys returns the keys in insertion order
func (m Mapping) Keys() []string {
	keys := make([]string, len(m))
	for i, item := range m {
		keys[i] = item.Key
	}
	return keys
}

// MarshalYAML implements yaml.Marshaler, emitting keys in insertion order
func (m Mapping) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, item := range m {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item.Key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(item.Value); err != nil {
			return nil, fmt.Errorf("encode value for key %q: %w", item.Key, err)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// UnmarshalYAML implements yaml.Unmarshaler, keeping document key order
func (m *Mapping) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("cannot decode %s node into a mapping", node.Tag)
	}

	out := make(Mapping, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return fmt.Errorf("decode mapping key: %w", err)
		}

		value, err := decodeYAMLNode(valNode)
		if err != nil {
			return fmt.Errorf("decode value for key %q: %w", key, err)
		}

		out = append(out, MapItem{Key: key, Value: value})
	}

	*m = out
	return nil
}

// decodeYAMLNode decodes a node, mapping nodes recursively into Mapping so
// nested key order survives
func decodeYAMLNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.MappingNode:
		var m Mapping
		if err := m.UnmarshalYAML(node); err != nil {
			return nil, err
		}
		return m, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := decodeYAMLNode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil

	case yaml.AliasNode:
		return decodeYAMLNode(node.Alias)

	default:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, err
		}
		return value, nil
	}
}
