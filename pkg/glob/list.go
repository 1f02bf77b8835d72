package glob

import (
	"github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/arthur-debert/fgroup/pkg/types"
)

// List is the ordered set of alternatives parsed from one configuration
// key. Earlier alternatives have priority.
type List struct {
	Key      string
	Patterns []*Pattern
}

// Split splits a key on ", " outside character classes. It fails on empty
// alternatives and on unclosed classes.
func Split(key string) ([]string, error) {
	if key == "" {
		return nil, listError(key, "found empty glob")
	}

	rs := []rune(key)
	sep := []rune(types.ListSeparator)
	var parts []string
	start := 0
	for i := 0; i < len(rs); i++ {
		switch {
		case rs[i] == '[':
			end := findCharClassEnd(rs, i)
			if end < 0 {
				return nil, listError(key, "unbalanced character class")
			}
			i = end
		case hasRunePrefix(rs[i:], sep):
			parts = append(parts, string(rs[start:i]))
			i += len(sep) - 1
			start = i + 1
		}
	}
	parts = append(parts, string(rs[start:]))

	for _, part := range parts {
		if part == "" {
			return nil, listError(key, "found empty glob")
		}
	}
	return parts, nil
}

// ParseList splits key and compiles every alternative.
func ParseList(key string) (*List, error) {
	parts, err := Split(key)
	if err != nil {
		return nil, err
	}

	l := &List{Key: key, Patterns: make([]*Pattern, 0, len(parts))}
	for _, part := range parts {
		p, err := Compile(part)
		if err != nil {
			return nil, err
		}
		l.Patterns = append(l.Patterns, p)
	}
	return l, nil
}

// Match reports whether any alternative matches rel.
func (l *List) Match(rel string) bool {
	segs := SplitPath(rel)
	for _, p := range l.Patterns {
		if p.MatchSegments(segs) {
			return true
		}
	}
	return false
}

// String returns the key text the list was parsed from.
func (l *List) String() string { return l.Key }

func hasRunePrefix(rs, prefix []rune) bool {
	if len(rs) < len(prefix) {
		return false
	}
	for i, r := range prefix {
		if rs[i] != r {
			return false
		}
	}
	return true
}

func listError(key, msg string) *errors.FgroupError {
	return errors.Newf(errors.ErrConfigValid, "invalid config key %q: %s", key, msg).
		WithDetail("key", key)
}

