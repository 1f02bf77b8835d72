// Package types defines the core types and interfaces shared by fgroup
// packages: the ordered configuration tree handed to the match tree
// compiler, manual patterns from the command line, the per-path state
// produced during traversal and the FS abstraction the traversal engine
// lists directories through.
package types
