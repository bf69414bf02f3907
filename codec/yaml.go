package codec

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/hasprops"
)

// MarshalYAML encodes inst as a YAML mapping keyed in declaration order.
func MarshalYAML(inst *hasprops.Instance, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range fields(inst, o) {
		var v yaml.Node
		if err := v.Encode(f.Value); err != nil {
			return nil, fmt.Errorf("codec: encode %s: %w", f.Name, err)
		}
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}, &v)
	}
	if len(m.Content) == 0 {
		m.Style = yaml.FlowStyle
	}
	return yaml.Marshal(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{m}})
}

// UnmarshalYAML decodes a single YAML mapping into a new instance of s.
// Duplicate keys are reported with their line and column.
func UnmarshalYAML(s *hasprops.Schema, data []byte, opts ...hasprops.Option) (*hasprops.Instance, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == 0 || root.Kind == yaml.DocumentNode {
		// empty document
		return hasprops.New(s, nil, opts...)
	}
	if root.Kind != yaml.MappingNode {
		return nil, notObject(root.Tag)
	}
	vals := hasprops.Values{}
	first := map[string]*yaml.Node{}
	var dups hasprops.Issues
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if prev, seen := first[k.Value]; seen {
			dups = hasprops.AppendIssues(dups, duplicateKey(k.Value, fmt.Sprintf(" at %d:%d (first at %d:%d)", k.Line, k.Column, prev.Line, prev.Column)))
			continue
		}
		first[k.Value] = k
		val, err := yamlValue(v)
		if err != nil {
			return nil, err
		}
		vals[k.Value] = val
	}
	if len(dups) > 0 {
		return nil, dups
	}
	return hasprops.New(s, vals, opts...)
}

// yamlValue converts a node into plain Go values: map[string]any, []any,
// string, bool, int64, float64 or nil. Validators do the rest.
func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if _, dup := m[k.Value]; dup {
				return nil, fmt.Errorf("codec: duplicate YAML key %q at %d:%d", k.Value, k.Line, k.Column)
			}
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[k.Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return nil, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return n.Value, nil
			}
			return b, nil
		case "!!int":
			if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
				return i, nil
			}
			return n.Value, nil
		case "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return n.Value, nil
			}
			return f, nil
		}
		return n.Value, nil
	}
	return nil, nil
}
