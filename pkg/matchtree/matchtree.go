// Package matchtree compiles the ordered configuration tree into nested
// Terminal and Branch nodes and resolves paths against it.
package matchtree

import (
	"github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/arthur-debert/fgroup/pkg/glob"
	"github.com/arthur-debert/fgroup/pkg/types"
)

// Kind tags a Node variant.
type Kind int

const (
	Terminal Kind = iota
	Branch
)

// Node is either a Terminal naming a group or a Branch holding ordered
// entries whose patterns are relative to the directory the branch matched.
type Node struct {
	Kind    Kind
	Group   string
	Entries []*Entry
}

// Entry binds a pattern list to the node it leads to. Index is the
// document order position within the parent branch.
type Entry struct {
	Index    int
	Patterns *glob.List
	Node     *Node
}

// IsTerminal reports whether n names a group.
func (n *Node) IsTerminal() bool { return n.Kind == Terminal }

// Compile builds the root branch from a configuration level.
func Compile(tree types.ConfigTree) (*Node, error) {
	return compileBranch(tree, "files")
}

func compileBranch(tree types.ConfigTree, at string) (*Node, error) {
	n := &Node{Kind: Branch, Entries: make([]*Entry, 0, len(tree))}
	for i, ce := range tree {
		list, err := glob.ParseList(ce.Key)
		if err != nil {
			if fe, ok := err.(*errors.FgroupError); ok {
				fe.WithDetail("at", at)
			}
			return nil, err
		}

		var child *Node
		if ce.IsBranch() {
			child, err = compileBranch(ce.Children, at+" -> "+ce.Key)
			if err != nil {
				return nil, err
			}
		} else {
			child = &Node{Kind: Terminal, Group: ce.Group}
		}
		n.Entries = append(n.Entries, &Entry{Index: i, Patterns: list, Node: child})
	}
	return n, nil
}

// Resolution is the outcome of resolving one path against a tree.
type Resolution struct {
	// Group is the claiming group. It is types.DefaultGroup when the path
	// lies inside a matched branch that none of the branch entries claim.
	Group string
	// Depth is the number of path segments covered by the claiming match.
	// A path deeper than Depth inherits the group of that ancestor.
	Depth int
	// Remainder is set when a branch consumed the path without any of its
	// entries matching.
	Remainder bool
	// Entries lists the entry indices followed from the root branch.
	Entries []int
}

// Resolve finds the group claiming segs[start:] under node, trying the
// branch entries in document order. An entry wins as soon as any of its
// alternatives admits a match of any prefix; within a branch entry the
// shallowest matched directory is descended into first. isDir reports
// whether segs[:depth] is a directory, and branch matches on anything else
// are rejected. ok is false when nothing under node claims the path.
//
// The grouper resolves paths incrementally while it walks, one segment at a
// time; Resolve is the whole-path form of the same rules.
func Resolve(node *Node, segs []string, start int, isDir func(depth int) bool) (Resolution, bool) {
	if node == nil || node.IsTerminal() {
		return Resolution{}, false
	}

	for _, e := range node.Entries {
		if res, ok := resolveEntry(e, segs, start, isDir); ok {
			res.Entries = append([]int{e.Index}, res.Entries...)
			return res, true
		}
	}
	return Resolution{}, false
}

func resolveEntry(e *Entry, segs []string, start int, isDir func(int) bool) (Resolution, bool) {
	for _, p := range e.Patterns.Patterns {
		for _, k := range p.Prefixes(segs[start:]) {
			depth := start + k
			if e.Node.IsTerminal() {
				return Resolution{Group: e.Node.Group, Depth: depth}, true
			}
			if isDir != nil && !isDir(depth) {
				continue
			}
			if res, ok := Resolve(e.Node, segs, depth, isDir); ok {
				return res, true
			}
			return Resolution{Group: types.DefaultGroup, Depth: depth, Remainder: true}, true
		}
	}
	return Resolution{}, false
}
