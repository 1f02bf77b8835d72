package glob

import (
	"sort"
	"strings"

	"github.com/arthur-debert/fgroup/pkg/errors"
	gobwas "github.com/gobwas/glob"
)

// maxClassRunes bounds the expansion of multi-item character classes.
const maxClassRunes = 4096

const recursiveToken = "**"

type segmentKind int

const (
	segLiteral segmentKind = iota
	segWildcard
	segRecursive
	segNever
)

// Segment matches a single path segment.
type Segment struct {
	text    string
	kind    segmentKind
	literal string
	matcher gobwas.Glob
}

// Match reports whether name satisfies the segment. The recursive segment
// matches every name.
func (s *Segment) Match(name string) bool {
	switch s.kind {
	case segLiteral:
		return name == s.literal
	case segWildcard:
		return s.matcher.Match(name)
	case segRecursive:
		return true
	default:
		return false
	}
}

// IsRecursive reports whether the segment is "**".
func (s *Segment) IsRecursive() bool { return s.kind == segRecursive }

// IsLiteral reports whether the segment matches exactly one name.
func (s *Segment) IsLiteral() bool { return s.kind == segLiteral }

// String returns the segment source text.
func (s *Segment) String() string { return s.text }

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokAny
	tokSingle
	tokClass
)

type runeRange struct{ lo, hi rune }

type charClass struct {
	negated bool
	runes   []rune
	ranges  []runeRange
}

type token struct {
	kind  tokenKind
	r     rune
	class *charClass
}

func compileSegment(pattern, text string) (*Segment, error) {
	if text == recursiveToken {
		return &Segment{text: text, kind: segRecursive}, nil
	}

	tokens, err := lexSegment(pattern, text)
	if err != nil {
		return nil, err
	}

	if lit, ok := literalOf(tokens); ok {
		return &Segment{text: text, kind: segLiteral, literal: lit}, nil
	}

	src, never, err := gobwasSource(pattern, tokens)
	if err != nil {
		return nil, err
	}
	if never {
		return &Segment{text: text, kind: segNever}, nil
	}

	g, err := gobwas.Compile(src)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPattern, "cannot compile segment %q", text).
			WithDetail("pattern", pattern)
	}
	return &Segment{text: text, kind: segWildcard, matcher: g}, nil
}

func lexSegment(pattern, text string) ([]token, error) {
	rs := []rune(text)
	tokens := make([]token, 0, len(rs))

	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			return nil, patternError(pattern, "ambiguous escape: use a one character class such as [*] instead of a backslash")
		case '*':
			if i+1 < len(rs) && rs[i+1] == '*' {
				return nil, patternError(pattern, "recursive wildcard ** must be a whole segment")
			}
			tokens = append(tokens, token{kind: tokAny})
		case '?':
			tokens = append(tokens, token{kind: tokSingle})
		case '[':
			end := findCharClassEnd(rs, i)
			if end < 0 {
				return nil, patternError(pattern, "unbalanced character class")
			}
			tokens = append(tokens, token{kind: tokClass, class: parseClass(rs[i+1 : end])})
			i = end
		case ']':
			return nil, patternError(pattern, "unbalanced character class: use []] for a literal ]")
		default:
			tokens = append(tokens, token{kind: tokLiteral, r: rs[i]})
		}
	}
	return tokens, nil
}

// findCharClassEnd returns the index of the "]" closing the class opened at
// start, or -1. A "]" right after the opening bracket (or its negation) is
// part of the set.
func findCharClassEnd(rs []rune, start int) int {
	if start < 0 || start >= len(rs) || rs[start] != '[' {
		return -1
	}

	idx := start + 1
	if idx < len(rs) && (rs[idx] == '!' || rs[idx] == '^') {
		idx++
	}

	if idx < len(rs) && rs[idx] == ']' {
		idx++
	}

	for ; idx < len(rs); idx++ {
		if rs[idx] == ']' {
			return idx
		}
	}

	return -1
}

func parseClass(body []rune) *charClass {
	c := &charClass{}
	if len(body) > 0 && (body[0] == '!' || body[0] == '^') {
		c.negated = true
		body = body[1:]
	}

	for i := 0; i < len(body); i++ {
		if i+2 < len(body) && body[i+1] == '-' {
			// reversed ranges match nothing
			if body[i] <= body[i+2] {
				c.ranges = append(c.ranges, runeRange{lo: body[i], hi: body[i+2]})
			}
			i += 2
			continue
		}
		c.runes = append(c.runes, body[i])
	}
	return c
}

func (c *charClass) empty() bool {
	return len(c.runes) == 0 && len(c.ranges) == 0
}

func (c *charClass) single() (rune, bool) {
	if c.negated {
		return 0, false
	}
	if len(c.runes) == 1 && len(c.ranges) == 0 {
		return c.runes[0], true
	}
	if len(c.runes) == 0 && len(c.ranges) == 1 && c.ranges[0].lo == c.ranges[0].hi {
		return c.ranges[0].lo, true
	}
	return 0, false
}

func literalOf(tokens []token) (string, bool) {
	var b strings.Builder
	for _, t := range tokens {
		switch t.kind {
		case tokLiteral:
			b.WriteRune(t.r)
		case tokClass:
			r, ok := t.class.single()
			if !ok {
				return "", false
			}
			b.WriteRune(r)
		default:
			return "", false
		}
	}
	return b.String(), true
}

// gobwasSource translates lexed tokens into gobwas/glob syntax. never is set
// when a class can match no character at all.
func gobwasSource(pattern string, tokens []token) (src string, never bool, err error) {
	var b strings.Builder
	for _, t := range tokens {
		switch t.kind {
		case tokLiteral:
			writeEscaped(&b, t.r)
		case tokAny:
			b.WriteByte('*')
		case tokSingle:
			b.WriteByte('?')
		case tokClass:
			if r, ok := t.class.single(); ok {
				writeEscaped(&b, r)
				continue
			}
			if t.class.empty() {
				if !t.class.negated {
					return "", true, nil
				}
				b.WriteByte('?')
				continue
			}
			if err := writeClass(&b, pattern, t.class); err != nil {
				return "", false, err
			}
		}
	}
	return b.String(), false, nil
}

func writeEscaped(b *strings.Builder, r rune) {
	switch r {
	case '*', '?', '[', ']', '{', '}', '\\', ',', '!', '-':
		b.WriteByte('\\')
	}
	b.WriteRune(r)
}

func writeClass(b *strings.Builder, pattern string, c *charClass) error {
	b.WriteByte('[')
	if c.negated {
		b.WriteByte('!')
	}
	defer b.WriteByte(']')

	if len(c.runes) == 0 && len(c.ranges) == 1 && (c.negated || c.ranges[0].lo != '!') {
		b.WriteRune(c.ranges[0].lo)
		b.WriteByte('-')
		b.WriteRune(c.ranges[0].hi)
		return nil
	}

	set, err := expandClass(pattern, c)
	if err != nil {
		return err
	}
	if len(set) == 1 && set[0] == '-' {
		b.WriteByte('-')
		return nil
	}
	for _, r := range set {
		b.WriteByte('\\')
		b.WriteRune(r)
	}
	return nil
}

// expandClass lists every rune of the class, sorted, with "-" moved last so
// gobwas never reads the first item as the start of a range.
func expandClass(pattern string, c *charClass) ([]rune, error) {
	seen := make(map[rune]bool)
	add := func(r rune) {
		seen[r] = true
	}
	for _, r := range c.runes {
		add(r)
	}
	for _, rg := range c.ranges {
		if int(rg.hi-rg.lo)+len(seen) > maxClassRunes {
			return nil, patternError(pattern, "character class too large")
		}
		for r := rg.lo; r <= rg.hi; r++ {
			add(r)
		}
	}

	set := make([]rune, 0, len(seen))
	dash := false
	for r := range seen {
		if r == '-' {
			dash = true
			continue
		}
		set = append(set, r)
	}
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	if dash {
		set = append(set, '-')
	}
	return set, nil
}

func patternError(pattern, msg string) *errors.FgroupError {
	return errors.Newf(errors.ErrPattern, "invalid pattern %q: %s", pattern, msg).
		WithDetail("pattern", pattern)
}
