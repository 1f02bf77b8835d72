package glob

import (
	"strings"

	"github.com/arthur-debert/fgroup/pkg/errors"
)

// Pattern is a compiled, immutable pattern alternative.
type Pattern struct {
	text     string
	segments []*Segment
}

// State is a set of NFA positions, sorted ascending. Position len(segments)
// is the accepting position.
type State []int

// Compile compiles one pattern alternative. Leading and trailing slashes are
// ignored and "." segments are dropped.
func Compile(text string) (*Pattern, error) {
	trimmed := strings.Trim(text, "/")
	if trimmed == "" {
		return nil, patternError(text, "empty pattern")
	}

	p := &Pattern{text: text}
	for _, part := range strings.Split(trimmed, "/") {
		switch part {
		case "":
			return nil, patternError(text, "empty path segment")
		case ".":
			continue
		case "..":
			return nil, patternError(text, "parent directory segments are not supported")
		}

		seg, err := compileSegment(text, part)
		if err != nil {
			return nil, err
		}
		p.segments = append(p.segments, seg)
	}
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(text string) *Pattern {
	p, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source text of the pattern.
func (p *Pattern) String() string { return p.text }

// Segments returns the compiled segments.
func (p *Pattern) Segments() []*Segment { return p.segments }

// IsRecursive reports whether the pattern contains a "**" segment.
func (p *Pattern) IsRecursive() bool {
	for _, s := range p.segments {
		if s.IsRecursive() {
			return true
		}
	}
	return false
}

// Start returns the state before any segment has been consumed.
func (p *Pattern) Start() State {
	next := make([]bool, len(p.segments)+1)
	next[0] = true
	return p.closure(next)
}

// Step consumes one path segment. An empty result means the pattern can no
// longer match anything below.
func (p *Pattern) Step(s State, name string) State {
	n := len(p.segments)
	next := make([]bool, n+1)
	moved := false
	for _, pos := range s {
		if pos >= n {
			continue
		}
		seg := p.segments[pos]
		switch {
		case seg.IsRecursive():
			next[pos] = true
			moved = true
		case seg.Match(name):
			next[pos+1] = true
			moved = true
		}
	}
	if !moved {
		return nil
	}
	return p.closure(next)
}

// Accepts reports whether the segments consumed so far form a full match.
func (p *Pattern) Accepts(s State) bool {
	return len(s) > 0 && s[len(s)-1] == len(p.segments)
}

// Pending reports whether the pattern could still match a deeper path.
func (p *Pattern) Pending(s State) bool {
	return len(s) > 0 && s[0] < len(p.segments)
}

// closure adds the positions reachable by letting "**" match zero segments.
func (p *Pattern) closure(set []bool) State {
	for i, seg := range p.segments {
		if set[i] && seg.IsRecursive() {
			set[i+1] = true
		}
	}
	s := make(State, 0, 2)
	for i, ok := range set {
		if ok {
			s = append(s, i)
		}
	}
	return s
}

// MatchSegments matches the pattern against a complete list of segments.
func (p *Pattern) MatchSegments(segs []string) bool {
	s := p.Start()
	for _, name := range segs {
		if s = p.Step(s, name); len(s) == 0 {
			return false
		}
	}
	return p.Accepts(s)
}

// Match matches the pattern against a slash separated relative path. "."
// and "" name the context directory itself.
func (p *Pattern) Match(rel string) bool {
	return p.MatchSegments(SplitPath(rel))
}

// Prefixes returns, in increasing order, every length k such that the
// pattern matches segs[:k].
func (p *Pattern) Prefixes(segs []string) []int {
	var out []int
	s := p.Start()
	if p.Accepts(s) {
		out = append(out, 0)
	}
	for i, name := range segs {
		if s = p.Step(s, name); len(s) == 0 {
			break
		}
		if p.Accepts(s) {
			out = append(out, i+1)
		}
	}
	return out
}

// SplitPath splits a slash separated relative path into segments, dropping
// empty and "." segments.
func SplitPath(rel string) []string {
	parts := strings.Split(rel, "/")
	out := parts[:0]
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		out = append(out, part)
	}
	return out
}

// IsPatternError reports whether err was raised by the pattern compiler.
func IsPatternError(err error) bool {
	return errors.IsErrorCode(err, errors.ErrPattern)
}
