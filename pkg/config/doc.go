// Package config loads fgroup configuration documents.
//
// A document is YAML, or TOML when the file name ends in .toml. It has four
// top-level keys: root, config_relative_root, overrides and files. The
// scalar settings are layered with koanf over embedded defaults and
// FGROUP_* environment variables. The files tree is decoded separately so
// that key order, which is match priority, survives.
package config
