package config

import (
	"sort"
	"strings"

	"github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/arthur-debert/fgroup/pkg/glob"
	"github.com/arthur-debert/fgroup/pkg/types"
)

// Top-level keys of a configuration document.
const (
	KeyRoot               = "root"
	KeyConfigRelativeRoot = "config_relative_root"
	KeyOverrides          = "overrides"
	KeyFiles              = "files"
)

var knownKeys = map[string]bool{
	KeyRoot:               true,
	KeyConfigRelativeRoot: true,
	KeyOverrides:          true,
	KeyFiles:              true,
}

type valueKind int

const (
	kindString valueKind = iota
	kindBool
	kindMap
	kindOther
)

// value is one decoded document value. Anything that is not a string, a
// bool or a mapping only keeps its type name for error messages.
type value struct {
	kind valueKind
	str  string
	b    bool
	m    *mapping
	typ  string
}

func (v *value) typeName() string {
	switch v.kind {
	case kindString:
		return "string"
	case kindBool:
		return "bool"
	case kindMap:
		return "mapping"
	}
	return v.typ
}

// mapping keeps keys in document order.
type mapping struct {
	keys   []string
	values map[string]*value
}

func newMapping() *mapping {
	return &mapping{values: make(map[string]*value)}
}

func (m *mapping) get(key string) (*value, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mapping) set(key string, v *value) error {
	if _, ok := m.values[key]; ok {
		return errors.Newf(errors.ErrConfigParse, "invalid config: duplicate key %q", key).
			WithDetail("key", key)
	}
	m.keys = append(m.keys, key)
	m.values[key] = v
	return nil
}

// child returns the mapping under key, creating it when absent.
func (m *mapping) child(key string) (*mapping, error) {
	if v, ok := m.values[key]; ok {
		if v.kind != kindMap {
			return nil, errors.Newf(errors.ErrConfigParse, "invalid config: key %q is already defined as %s", key, v.typeName()).
				WithDetail("key", key)
		}
		return v.m, nil
	}
	c := newMapping()
	m.keys = append(m.keys, key)
	m.values[key] = &value{kind: kindMap, m: c}
	return c, nil
}

func (m *mapping) setPath(keys []string, v *value) error {
	cur := m
	for _, k := range keys[:len(keys)-1] {
		next, err := cur.child(k)
		if err != nil {
			return err
		}
		cur = next
	}
	return cur.set(keys[len(keys)-1], v)
}

// document is the validated content of a configuration file.
type document struct {
	root               *string
	configRelativeRoot *bool
	overrides          map[string]string
	files              types.ConfigTree
}

func invalid(format string, args ...interface{}) *errors.FgroupError {
	return errors.Newf(errors.ErrConfigValid, "invalid config: "+format, args...)
}

// validate type checks a decoded document.
func validate(doc *value) (*document, error) {
	if doc.kind != kindMap {
		return nil, invalid("must be a mapping, parsed %s instead", doc.typeName())
	}

	var unknown []string
	for _, k := range doc.m.keys {
		if !knownKeys[k] {
			unknown = append(unknown, "'"+k+"'")
		}
	}
	if len(unknown) > 0 {
		return nil, invalid("unknown keys: %s", strings.Join(unknown, ", ")).
			WithDetail("keys", unknown)
	}

	out := &document{files: types.ConfigTree{}}

	if v, ok := doc.m.get(KeyOverrides); ok {
		overrides, err := validateOverrides(v)
		if err != nil {
			return nil, err
		}
		out.overrides = overrides
	}

	if v, ok := doc.m.get(KeyRoot); ok {
		if v.kind != kindString {
			return nil, invalid("root filepath must be a string")
		}
		out.root = &v.str
	}

	if v, ok := doc.m.get(KeyConfigRelativeRoot); ok {
		if v.kind != kindBool {
			return nil, invalid("config_relative_root must be true or false")
		}
		out.configRelativeRoot = &v.b
	}

	if v, ok := doc.m.get(KeyFiles); ok {
		if v.kind != kindMap {
			return nil, invalid("files must be a mapping")
		}
		tree, err := buildTree(v.m, KeyFiles)
		if err != nil {
			return nil, err
		}
		out.files = tree
	}

	return out, nil
}

func validateOverrides(v *value) (map[string]string, error) {
	msg := "overrides must be a mapping of string: string pairs"
	if v.kind != kindMap {
		return nil, invalid(msg)
	}
	out := make(map[string]string, len(v.m.keys))
	for _, k := range v.m.keys {
		to := v.m.values[k]
		if to.kind != kindString {
			return nil, invalid(msg).WithDetail("group", k)
		}
		out[k] = to.str
	}
	return out, nil
}

// buildTree converts a files mapping into the ordered configuration tree.
func buildTree(m *mapping, at string) (types.ConfigTree, error) {
	tree := make(types.ConfigTree, 0, len(m.keys))
	for _, k := range m.keys {
		if _, err := glob.Split(k); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid config: bad glob at %s -> %s", at, k).
				WithDetail("at", at)
		}

		v := m.values[k]
		switch v.kind {
		case kindString:
			tree = append(tree, types.ConfigEntry{Key: k, Group: v.str})
		case kindMap:
			children, err := buildTree(v.m, at+" -> "+k)
			if err != nil {
				return nil, err
			}
			tree = append(tree, types.ConfigEntry{Key: k, Children: children})
		default:
			return nil, invalid("value is not a string or mapping for key %s -> %s", at, k).
				WithDetail("at", at).
				WithDetail("type", v.typeName())
		}
	}
	return tree, nil
}

// sortedKeys is used for stable messages.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
