// Package testutil provides utilities for testing fgroup components.
//
// Key components:
//   - MemoryFS: In-memory types.FS with symlinks and per-path error
//     injection, used to drive the traversal engine without touching disk
//
// Usage guidelines:
//   - Prefer MemoryFS for engine tests; use t.TempDir() only where real
//     filesystem behaviour such as permissions is under test
//   - All test trees should be defined inline with AddTree
package testutil
