// Package grouper walks a directory tree and classifies every path into a
// named group.
//
// Candidates are the pattern alternatives that can still match at or below
// the current directory. Each carries a rank: manual patterns first, then
// configuration entries in document order, nested entries inside the
// branch that instantiated them, and the default group last. The path takes
// the group of the lowest ranked match on itself or, outside distinct
// mode, on any ancestor.
//
// A directory is listed only while some candidate ranked before its claim
// could still match beneath it. If nothing beneath claimed differently the
// directory is reported whole and its children's weights fold into it.
package grouper
