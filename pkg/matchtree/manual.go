package matchtree

import (
	"github.com/arthur-debert/fgroup/pkg/glob"
	"github.com/arthur-debert/fgroup/pkg/types"
)

// ManualEntry is one compiled command line pattern.
type ManualEntry struct {
	Index    int
	Patterns *glob.List
	Group    string
}

// ManualList holds the command line patterns. They are flat, match the full
// path relative to the root and outrank every configuration entry.
type ManualList struct {
	Entries []*ManualEntry
}

// CompileManual compiles manual patterns in order. A repeated pattern keeps
// its first position and takes the group given last.
func CompileManual(patterns []types.ManualPattern) (*ManualList, error) {
	m := &ManualList{}
	seen := make(map[string]*ManualEntry, len(patterns))
	for _, mp := range patterns {
		if e, ok := seen[mp.Pattern]; ok {
			e.Group = mp.Group
			continue
		}
		list, err := glob.ParseList(mp.Pattern)
		if err != nil {
			return nil, err
		}
		e := &ManualEntry{Index: len(m.Entries), Patterns: list, Group: mp.Group}
		seen[mp.Pattern] = e
		m.Entries = append(m.Entries, e)
	}
	return m, nil
}

// Len returns the number of entries; it is safe on a nil list.
func (m *ManualList) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Entries)
}

// Keys returns the pattern text of every entry in order.
func (m *ManualList) Keys() []string {
	keys := make([]string, 0, m.Len())
	for i := 0; i < m.Len(); i++ {
		keys = append(keys, m.Entries[i].Patterns.Key)
	}
	return keys
}

// Resolve returns the group of the first entry matching rel exactly. The
// grouper reaches the same answer incrementally during its walk.
func (m *ManualList) Resolve(rel string) (string, bool) {
	for i := 0; i < m.Len(); i++ {
		if e := m.Entries[i]; e.Patterns.Match(rel) {
			return e.Group, true
		}
	}
	return "", false
}
