// Package output renders grouping results.
//
// A Writer encodes to a stream in one of the text, term, json, yaml, toml or
// xml formats; a Folder writes one file per group. Three shapes are
// supported by both: every group, a single group, and a weight table.
//
// The term format styles group headers with lipgloss, using the adaptive
// colors in styles.yaml, and lays out weights with a pterm table. When the
// destination has no color support the same layout is written unstyled.
package output
