package config

import (
	"strings"

	"github.com/arthur-debert/fgroup/pkg/errors"
	"gopkg.in/yaml.v3"
)

// decodeYAML decodes a YAML document keeping mapping order.
func decodeYAML(data []byte) (*value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid config: config is not a valid yaml file")
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &value{kind: kindOther, typ: "null"}, nil
	}
	return fromYAML(doc.Content[0], "config")
}

func fromYAML(n *yaml.Node, at string) (*value, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return fromYAML(n.Alias, at)
	}

	switch n.Kind {
	case yaml.MappingNode:
		m := newMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind == yaml.AliasNode && k.Alias != nil {
				k = k.Alias
			}
			if k.Kind != yaml.ScalarNode || k.ShortTag() != "!!str" {
				return nil, invalid("found %q key in %s", yamlType(k), at).
					WithDetail("line", k.Line)
			}

			child, err := fromYAML(v, at+" -> "+k.Value)
			if err != nil {
				return nil, err
			}
			if err := m.set(k.Value, child); err != nil {
				return nil, err
			}
		}
		return &value{kind: kindMap, m: m}, nil

	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!str":
			return &value{kind: kindString, str: n.Value}, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid config: bad boolean").
					WithDetail("line", n.Line)
			}
			return &value{kind: kindBool, b: b}, nil
		}
	}
	return &value{kind: kindOther, typ: yamlType(n)}, nil
}

func yamlType(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "mapping"
	}
	return strings.TrimPrefix(n.ShortTag(), "!!")
}
