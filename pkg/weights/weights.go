// Package weights accumulates the per-path traversal cost of a grouping run.
//
// A path earns one point for every pattern evaluated against it and one
// point for every child instantiated under it. Paths are kept in discovery
// order, which breaks ties in Top.
package weights

import "sort"

// Weight is one (path, cost) pair.
type Weight struct {
	Path   string `json:"path" yaml:"path" toml:"path"`
	Weight int    `json:"weight" yaml:"weight" toml:"weight"`
}

// Table maps paths to costs. The zero value is not usable; use New.
type Table struct {
	order []string
	index map[string]int
	costs []int
	alive []bool
}

// New returns an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

func (t *Table) slot(path string) int {
	if i, ok := t.index[path]; ok {
		t.alive[i] = true
		return i
	}
	i := len(t.order)
	t.index[path] = i
	t.order = append(t.order, path)
	t.costs = append(t.costs, 0)
	t.alive = append(t.alive, true)
	return i
}

// Add adds n to the cost of path, registering it on first use.
func (t *Table) Add(path string, n int) {
	i := t.slot(path)
	t.costs[i] += n
}

// Get returns the cost of path, 0 when unknown.
func (t *Table) Get(path string) int {
	if i, ok := t.index[path]; ok && t.alive[i] {
		return t.costs[i]
	}
	return 0
}

// Has reports whether path is in the table.
func (t *Table) Has(path string) bool {
	i, ok := t.index[path]
	return ok && t.alive[i]
}

// Fold moves the cost of from into into and drops from.
func (t *Table) Fold(into, from string) {
	i, ok := t.index[from]
	if !ok || !t.alive[i] {
		return
	}
	n := t.costs[i]
	t.alive[i] = false
	t.costs[i] = 0
	t.Add(into, n)
}

// Len returns the number of paths in the table.
func (t *Table) Len() int {
	n := 0
	for _, a := range t.alive {
		if a {
			n++
		}
	}
	return n
}

// All returns every entry in discovery order.
func (t *Table) All() []Weight {
	out := make([]Weight, 0, len(t.order))
	for i, p := range t.order {
		if t.alive[i] {
			out = append(out, Weight{Path: p, Weight: t.costs[i]})
		}
	}
	return out
}

// Top returns the n heaviest entries, heaviest first, ties in discovery
// order. n <= 0 returns every entry.
func (t *Table) Top(n int) []Weight {
	all := t.All()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Weight > all[j].Weight })
	if n > 0 && n < len(all) {
		all = all[:n]
	}
	return all
}
