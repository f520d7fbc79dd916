package ir

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes a single YAML document into an IRValue, keeping mapping
// key order. An empty document decodes to IRNull.
func DecodeYAML(data []byte) (IRValue, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind == 0 {
		return IRNull{}, nil
	}
	return FromYAMLNode(&doc)
}

// FromYAMLNode converts a parsed yaml.v3 node tree into an IRValue.
func FromYAMLNode(n *yaml.Node) (IRValue, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return IRNull{}, nil
		}
		return FromYAMLNode(n.Content[0])

	case yaml.AliasNode:
		return FromYAMLNode(n.Alias)

	case yaml.SequenceNode:
		arr := make(IRArray, 0, len(n.Content))
		for i, child := range n.Content {
			elem, err := FromYAMLNode(child)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr = append(arr, elem)
		}
		return arr, nil

	case yaml.MappingNode:
		obj := make(IRObject, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", keyNode.Line)
			}
			key := NormalizeKey(keyNode.Value)
			if obj.Has(key) {
				return nil, fmt.Errorf("line %d: duplicate mapping key %q", keyNode.Line, key)
			}
			val, err := FromYAMLNode(valNode)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", key, err)
			}
			obj = append(obj, IRPair{Key: key, Value: val})
		}
		return obj, nil

	case yaml.ScalarNode:
		return yamlScalar(n)

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %v", n.Line, n.Kind)
	}
}

// yamlScalar resolves a scalar node by its resolved tag.
func yamlScalar(n *yaml.Node) (IRValue, error) {
	switch n.ShortTag() {
	case "!!null":
		return IRNull{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return IRBool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return IRInt(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return IRFloat(f), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return IRTime(t), nil
	default:
		return IRString(n.Value), nil
	}
}
