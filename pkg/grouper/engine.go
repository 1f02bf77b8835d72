package grouper

import (
	"io/fs"
	"os"
	"path/filepath"
	"reflect"

	"github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/arthur-debert/fgroup/pkg/glob"
	"github.com/arthur-debert/fgroup/pkg/logging"
	"github.com/arthur-debert/fgroup/pkg/matchtree"
	"github.com/arthur-debert/fgroup/pkg/types"
	"github.com/arthur-debert/fgroup/pkg/weights"
	"github.com/rs/zerolog"
)

// candidate is one pattern alternative still able to match at or below the
// current directory. Recursive patterns stay candidates at every level
// until their state dies.
type candidate struct {
	rank    rank
	pattern *glob.Pattern
	state   glob.State
	alt     int

	// Exactly one of group or branch is meaningful.
	group  string
	branch *matchtree.Node
}

func (c *candidate) step(name string) *candidate {
	s := c.pattern.Step(c.state, name)
	if len(s) == 0 {
		return nil
	}
	next := *c
	next.state = s
	return &next
}

// claim is the winning entry for a path. Non-terminal claims come from a
// branch remainder or the default and resolve to the default group.
type claim struct {
	rank     rank
	group    string
	terminal bool
}

type event struct {
	claim
	// from is set when the event is a branch match.
	from *candidate
}

type node struct {
	abs, rel string
	// key is the reported path, relative or absolute.
	key      string
	kind     types.PathKind
	group    string
	grouped  bool
	children []*node
}

// outcome tells the parent how a child was reported. Only whole children
// with the parent's claim let the parent collapse.
type outcome struct {
	whole bool
	rank  rank
}

type engine struct {
	opts    Options
	fs      types.FS
	logger  zerolog.Logger
	weights *weights.Table
	errs    []error

	// followed holds the directories on the current path when symlinks are
	// followed, for cycle detection.
	followed []fs.FileInfo
}

func (e *engine) run() (*Result, error) {
	done := logging.LogOperationStart(e.logger, "group")
	defer done()

	info, err := e.fs.Stat(e.opts.Root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "cannot read root %s", e.opts.Root).
			WithDetail("root", e.opts.Root)
	}

	root := e.newNode(e.opts.Root, ".")
	root.kind = types.KindFile
	if info.IsDir() {
		root.kind = types.KindDir
		if e.opts.FollowSymlinks {
			e.followed = append(e.followed, info)
		}
	}

	cands := e.rootCandidates()
	e.weights.Add(root.key, len(cands))
	e.visit(root, info.IsDir(), 0, cands, claim{rank: defaultRank, group: types.DefaultGroup})

	res := e.collect(root)
	e.logger.Debug().
		Int("groups", len(res.Order)).
		Int("paths", len(res.Paths)).
		Int("errors", len(res.Errors)).
		Msg("grouping complete")
	return res, nil
}

func (e *engine) rootCandidates() []*candidate {
	var cands []*candidate
	for i := 0; i < e.opts.Manual.Len(); i++ {
		me := e.opts.Manual.Entries[i]
		r := manualRank.extend(me.Index)
		for alt, p := range me.Patterns.Patterns {
			cands = append(cands, &candidate{rank: r, pattern: p, state: p.Start(), alt: alt, group: me.Group})
		}
	}
	if e.opts.Tree != nil {
		cands = append(cands, entryCandidates(e.opts.Tree, configRank)...)
	}
	return cands
}

// entryCandidates starts every alternative of every entry of a branch.
func entryCandidates(n *matchtree.Node, base rank) []*candidate {
	var out []*candidate
	for _, ent := range n.Entries {
		r := base.extend(ent.Index)
		for alt, p := range ent.Patterns.Patterns {
			c := &candidate{rank: r, pattern: p, state: p.Start(), alt: alt}
			if ent.Node.IsTerminal() {
				c.group = ent.Node.Group
			} else {
				c.branch = ent.Node
			}
			out = append(out, c)
		}
	}
	return out
}

// visit classifies n. cands hold their state after consuming n's name.
func (e *engine) visit(n *node, isDir bool, depth int, cands []*candidate, inherited claim) outcome {
	events := e.events(cands, isDir, depth)

	// Instantiate matched branches until none is left to open. Outside
	// distinct mode only the winner is opened, and only while it outranks
	// the inherited claim. Nested entries may match n itself.
	instantiated := make(map[*candidate]bool)
	for {
		var open []*event
		if e.opts.Distinct {
			for _, ev := range events {
				if ev.from != nil && !instantiated[ev.from] {
					open = append(open, ev)
				}
			}
		} else if best := minEvent(events); best != nil && best.from != nil &&
			!instantiated[best.from] && best.rank.less(inherited.rank) {
			open = append(open, best)
		}
		if len(open) == 0 {
			break
		}

		for _, ev := range open {
			instantiated[ev.from] = true
			fresh := e.instantiate(n, depth, ev.from)
			cands = append(cands, fresh...)
			events = append(events, e.events(fresh, isDir, depth)...)
		}
	}

	best := minEvent(events)
	if e.opts.Distinct {
		return e.visitDistinct(n, isDir, depth, cands, best)
	}

	c := inherited
	if best != nil && best.rank.less(c.rank) {
		c = best.claim
	}

	// Only entries ranked before the claim can change anything below.
	var live []*candidate
	for _, cand := range cands {
		if cand.rank.less(c.rank) && cand.pattern.Pending(cand.state) {
			live = append(live, cand)
		}
	}
	if !isDir || len(live) == 0 {
		e.assign(n, c)
		return outcome{whole: true, rank: c.rank}
	}

	outs, ok := e.descend(n, depth, live, func(child *node, childIsDir bool, next []*candidate) outcome {
		return e.visit(child, childIsDir, depth+1, next, c)
	})
	if !ok {
		return outcome{}
	}

	for _, o := range outs {
		if !o.whole || !o.rank.equal(c.rank) {
			return outcome{}
		}
	}

	// Nothing below claimed differently: report n whole.
	for _, child := range n.children {
		e.weights.Fold(n.key, child.key)
	}
	n.children = nil
	e.assign(n, c)
	return outcome{whole: true, rank: c.rank}
}

// instantiate starts the entries of the branch c matched at n.
func (e *engine) instantiate(n *node, depth int, c *candidate) []*candidate {
	fresh := entryCandidates(c.branch, c.rank.extend(c.alt, depth))
	e.weights.Add(n.key, len(fresh))
	e.logger.Trace().
		Str("path", n.key).
		Str("pattern", c.pattern.String()).
		Int("entries", len(fresh)).
		Msg("branch instantiated")
	return fresh
}

func (e *engine) visitDistinct(n *node, isDir bool, depth int, cands []*candidate, best *event) outcome {
	if best != nil && best.terminal {
		e.assign(n, best.claim)
	}

	var live []*candidate
	for _, cand := range cands {
		if cand.pattern.Pending(cand.state) {
			live = append(live, cand)
		}
	}
	if isDir && len(live) > 0 {
		e.descend(n, depth, live, func(child *node, childIsDir bool, next []*candidate) outcome {
			return e.visit(child, childIsDir, depth+1, next, claim{})
		})
	}
	return outcome{}
}

// events collects the matches of cands at the current path. Branch
// candidates only match directories.
func (e *engine) events(cands []*candidate, isDir bool, depth int) []*event {
	var out []*event
	for _, c := range cands {
		if !c.pattern.Accepts(c.state) {
			continue
		}
		if c.branch == nil {
			out = append(out, &event{claim: claim{rank: c.rank, group: c.group, terminal: true}})
			continue
		}
		if !isDir {
			continue
		}
		out = append(out, &event{
			claim: claim{rank: c.rank.extend(c.alt, depth, remainderIndex), group: types.DefaultGroup},
			from:  c,
		})
	}
	return out
}

func minEvent(events []*event) *event {
	var best *event
	for _, ev := range events {
		if best == nil || ev.rank.less(best.rank) {
			best = ev
		}
	}
	return best
}

// descend lists n and visits every child with the candidates that survive
// its name. It reports false when n could not be listed.
func (e *engine) descend(n *node, depth int, live []*candidate, visit func(*node, bool, []*candidate) outcome) ([]outcome, bool) {
	entries, err := e.fs.ReadDir(n.abs)
	if err != nil {
		e.fail(n, err, "cannot list")
		return nil, false
	}

	outs := make([]outcome, 0, len(entries))
	for _, de := range entries {
		name := de.Name()
		child := e.newNode(filepath.Join(n.abs, name), joinRel(n.rel, name))
		n.children = append(n.children, child)
		e.weights.Add(n.key, 1)

		childIsDir, info, err := e.inspect(child, de)
		if err != nil {
			e.fail(child, err, "cannot read")
			outs = append(outs, outcome{})
			continue
		}

		var next []*candidate
		for _, c := range live {
			if s := c.step(name); s != nil {
				next = append(next, s)
			}
		}
		e.weights.Add(child.key, len(live))

		if childIsDir && info != nil {
			e.followed = append(e.followed, info)
		}
		outs = append(outs, visit(child, childIsDir, next))
		if childIsDir && info != nil {
			e.followed = e.followed[:len(e.followed)-1]
		}
	}
	return outs, true
}

// inspect sets the kind of n and reports whether it can be descended into.
// The returned info is only set when symlinks are followed.
func (e *engine) inspect(n *node, de fs.DirEntry) (bool, fs.FileInfo, error) {
	switch {
	case de.Type()&fs.ModeSymlink != 0:
		n.kind = types.KindSymlink
		if !e.opts.FollowSymlinks {
			return false, nil, nil
		}
		info, err := e.fs.Stat(n.abs)
		if err != nil {
			return false, nil, err
		}
		if !info.IsDir() {
			return false, nil, nil
		}
		if e.onPath(info) {
			e.logger.Debug().Str("path", n.abs).Msg("symlink cycle, not descending")
			return false, nil, nil
		}
		return true, info, nil
	case de.IsDir():
		n.kind = types.KindDir
		if !e.opts.FollowSymlinks {
			return true, nil, nil
		}
		info, err := de.Info()
		if err != nil {
			return false, nil, err
		}
		return true, info, nil
	default:
		n.kind = types.KindFile
		return false, nil, nil
	}
}

func (e *engine) onPath(info fs.FileInfo) bool {
	for _, f := range e.followed {
		if sameFile(f, info) {
			return true
		}
	}
	return false
}

// sameFile extends os.SameFile to filesystems whose Sys value identifies
// the underlying node.
func sameFile(a, b fs.FileInfo) bool {
	if os.SameFile(a, b) {
		return true
	}
	sa, sb := a.Sys(), b.Sys()
	if sa == nil || sb == nil {
		return false
	}
	va, vb := reflect.ValueOf(sa), reflect.ValueOf(sb)
	return va.Kind() == reflect.Ptr && vb.Kind() == reflect.Ptr && va.Pointer() == vb.Pointer()
}

// fail excludes n from every group and records a PATH_IO error.
func (e *engine) fail(n *node, err error, msg string) {
	n.kind = types.KindUnreadable
	n.children = nil

	perr := errors.Wrapf(err, errors.ErrPathIO, "%s %s", msg, n.key).WithDetail("path", n.abs)
	e.errs = append(e.errs, perr)
	e.logger.Debug().Err(err).Str("path", n.abs).Msg("skipping unreadable path")
	if e.opts.OnError != nil {
		e.opts.OnError(perr)
	}
}

func (e *engine) assign(n *node, c claim) {
	n.grouped = true
	n.group = types.DefaultGroup
	if c.terminal {
		n.group = e.opts.Overrides.Resolve(c.group)
	}
}

func (e *engine) newNode(abs, rel string) *node {
	n := &node{abs: abs, rel: rel, key: rel}
	if e.opts.Absolute {
		n.key = abs
	}
	e.weights.Add(n.key, 0)
	return n
}

func (e *engine) collect(root *node) *Result {
	res := &Result{
		Groups:  make(map[string][]string),
		Weights: e.weights,
		Errors:  e.errs,
	}

	var walk func(n *node)
	walk = func(n *node) {
		res.Paths = append(res.Paths, types.PathState{
			Abs:    n.abs,
			Rel:    n.rel,
			Kind:   n.kind,
			Group:  n.group,
			Weight: e.weights.Get(n.key),
		})
		if n.grouped {
			if _, ok := res.Groups[n.group]; !ok {
				res.Order = append(res.Order, n.group)
			}
			res.Groups[n.group] = append(res.Groups[n.group], n.key)
		}
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(root)
	return res
}

func joinRel(parent, name string) string {
	if parent == "." {
		return name
	}
	return parent + "/" + name
}
