package types

import "strings"

// DefaultGroup receives every unmatched path when grouping is not distinct.
const DefaultGroup = "unknown"

// ListSeparator separates alternative patterns inside one configuration key.
const ListSeparator = ", "

// ConfigEntry is one key of the configuration tree. A Terminal entry names a
// group; a Branch entry carries a nested tree whose patterns are relative to
// the directory the key matched. Children is non-nil exactly for branches,
// so an empty mapping is still a branch.
type ConfigEntry struct {
	Key      string
	Group    string
	Children ConfigTree
}

// IsBranch reports whether the entry nests another tree level.
func (e ConfigEntry) IsBranch() bool {
	return e.Children != nil
}

// ConfigTree is one level of the configuration tree in document order.
type ConfigTree []ConfigEntry

// Keys returns the entry keys of this level in document order.
func (t ConfigTree) Keys() []string {
	keys := make([]string, len(t))
	for i, e := range t {
		keys[i] = e.Key
	}
	return keys
}

// Without returns a copy of the level minus the entries whose key text is
// in drop. Nested levels are shared with the receiver.
func (t ConfigTree) Without(drop map[string]bool) ConfigTree {
	if t == nil {
		return nil
	}
	out := make(ConfigTree, 0, len(t))
	for _, e := range t {
		if drop[e.Key] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ManualPattern is a pattern/group pair given on the command line. Manual
// patterns match the full path relative to the root and outrank the
// configuration tree.
type ManualPattern struct {
	Pattern string
	Group   string
}

// ParseManualPattern splits "PATTERN:GROUP" on the last colon.
func ParseManualPattern(s string) (ManualPattern, bool) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return ManualPattern{}, false
	}
	return ManualPattern{Pattern: s[:i], Group: s[i+1:]}, true
}
