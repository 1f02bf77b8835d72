// Package overrides remaps resolved group names.
package overrides

import (
	"sort"
	"strings"

	"github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/arthur-debert/fgroup/pkg/types"
)

// Resolver applies a group remapping exactly once. Chains such as
// sync->backup->archive stop after the first hop, and the default group is
// never remapped.
type Resolver struct {
	m map[string]string
}

// New returns a resolver over a copy of m.
func New(m map[string]string) *Resolver {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return &Resolver{m: cp}
}

// Resolve returns the substitute for group, or group itself.
func (r *Resolver) Resolve(group string) string {
	if r == nil || group == types.DefaultGroup {
		return group
	}
	if to, ok := r.m[group]; ok {
		return to
	}
	return group
}

// Len returns the number of mappings.
func (r *Resolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.m)
}

// Merge layers top over base key by key.
func Merge(base, top map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(top))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}

// ParsePairs parses "GROUP:NEW" pairs, splitting on the last colon.
func ParsePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		i := strings.LastIndex(p, ":")
		if i < 0 {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid override %q: expected GROUP:NEW", p).
				WithDetail("override", p)
		}
		out[p[:i]] = p[i+1:]
	}
	return out, nil
}

// Keys returns the overridden group names, sorted.
func (r *Resolver) Keys() []string {
	keys := make([]string, 0, r.Len())
	if r != nil {
		for k := range r.m {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
