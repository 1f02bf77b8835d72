// Package hooks runs user commands over a grouping result.
//
// A per-group command runs once for each group with the group's paths on
// stdin. An all-groups command runs once with the whole result as JSON.
// Commands go through "sh -c", and a non-zero exit aborts the run with a
// HOOK_EXECUTE error carrying the exit status.
package hooks
