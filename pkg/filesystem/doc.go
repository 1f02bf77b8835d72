// Package filesystem provides filesystem implementations for fgroup.
//
// This package contains implementations of the types.FS interface: the
// standard OS filesystem used by the command line and an afero adapter
// used to group in-memory trees.
package filesystem
