package types

// PathKind classifies a filesystem entry seen during traversal.
type PathKind int

const (
	KindFile PathKind = iota
	KindDir
	KindSymlink
	KindUnreadable
)

// String returns the string representation of the kind
func (k PathKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	case KindUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// PathState is one reported path of a grouping run.
type PathState struct {
	// Abs is the absolute path of the entry.
	Abs string
	// Rel is the slash separated path relative to the root, "." for the
	// root itself.
	Rel  string
	Kind PathKind
	// Group is empty when the path belongs to no group.
	Group  string
	Weight int
}
