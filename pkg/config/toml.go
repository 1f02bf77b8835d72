package config

import (
	"strings"

	"github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/pelletier/go-toml/v2/unstable"
)

// decodeTOML decodes a TOML document keeping key order. Table headers,
// dotted keys and inline tables all build nested mappings; arrays of
// tables have no meaning in a configuration document and are rejected.
func decodeTOML(data []byte) (*value, error) {
	root := newMapping()
	current := root

	p := unstable.Parser{}
	p.Reset(data)
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table:
			m := root
			for _, k := range keyParts(expr.Key()) {
				next, err := m.child(k)
				if err != nil {
					return nil, err
				}
				m = next
			}
			current = m

		case unstable.ArrayTable:
			return nil, errors.Newf(errors.ErrConfigParse, "invalid config: arrays of tables are not supported (%s)",
				strings.Join(keyParts(expr.Key()), "."))

		case unstable.KeyValue:
			v, err := fromTOML(expr.Value())
			if err != nil {
				return nil, err
			}
			if err := current.setPath(keyParts(expr.Key()), v); err != nil {
				return nil, err
			}
		}
	}
	if err := p.Error(); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid config: config is not a valid toml file")
	}

	return &value{kind: kindMap, m: root}, nil
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

func fromTOML(n *unstable.Node) (*value, error) {
	switch n.Kind {
	case unstable.String:
		return &value{kind: kindString, str: string(n.Data)}, nil
	case unstable.Bool:
		return &value{kind: kindBool, b: string(n.Data) == "true"}, nil
	case unstable.InlineTable:
		m := newMapping()
		it := n.Children()
		for it.Next() {
			kv := it.Node()
			v, err := fromTOML(kv.Value())
			if err != nil {
				return nil, err
			}
			if err := m.setPath(keyParts(kv.Key()), v); err != nil {
				return nil, err
			}
		}
		return &value{kind: kindMap, m: m}, nil
	}
	return &value{kind: kindOther, typ: strings.ToLower(n.Kind.String())}, nil
}
