package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/arthur-debert/fgroup/pkg/logging"
	"github.com/arthur-debert/fgroup/pkg/types"
)

// Format is the syntax of a configuration document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DetectFormat picks TOML for .toml files and YAML for everything else.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Config is a loaded configuration.
type Config struct {
	Root               string
	ConfigRelativeRoot bool

	// Path is the file the configuration came from, empty when none was
	// given.
	Path   string
	Format Format

	Overrides map[string]string

	// Files is the pattern tree in document order.
	Files types.ConfigTree
}

// Load reads the configuration at path and layers defaults, environment
// and flags around it. An empty path yields the defaults. Flags use the
// document's top-level key names.
func Load(path string, flags map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config")

	cfg := &Config{
		Path:      path,
		Format:    DetectFormat(path),
		Overrides: map[string]string{},
		Files:     types.ConfigTree{},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %q not found", path).
					WithDetail("path", path)
			}
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %q", path).
				WithDetail("path", path)
		}

		doc, err := parse(data, cfg.Format)
		if err != nil {
			return nil, err
		}
		cfg.Files = doc.files
		if doc.overrides != nil {
			cfg.Overrides = doc.overrides
		}
	}

	s, err := loadSettings(path, cfg.Format, flags)
	if err != nil {
		return nil, err
	}
	cfg.Root = s.Root
	cfg.ConfigRelativeRoot = s.ConfigRelativeRoot

	logger.Debug().
		Str("path", path).
		Str("format", string(cfg.Format)).
		Str("root", cfg.Root).
		Bool("configRelativeRoot", cfg.ConfigRelativeRoot).
		Strs("overrides", sortedKeys(cfg.Overrides)).
		Int("entries", len(cfg.Files)).
		Msg("Configuration loaded")

	return cfg, nil
}

// parse decodes and validates a configuration document.
func parse(data []byte, format Format) (*document, error) {
	var (
		v   *value
		err error
	)
	switch format {
	case FormatTOML:
		v, err = decodeTOML(data)
	default:
		v, err = decodeYAML(data)
	}
	if err != nil {
		return nil, err
	}
	return validate(v)
}

// RootDir returns the absolute root to group. A relative root resolves
// against the config file's directory when ConfigRelativeRoot is set, and
// against the working directory otherwise.
func (c *Config) RootDir() (string, error) {
	root := c.Root
	if root == "" {
		root = "."
	}
	if c.ConfigRelativeRoot && c.Path != "" && !filepath.IsAbs(root) {
		cfgPath, err := filepath.Abs(c.Path)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve config path %s", c.Path)
		}
		root = filepath.Join(filepath.Dir(cfgPath), root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve root %s", root)
	}
	return abs, nil
}

// Tree returns the configuration tree with every root entry whose key is
// also a manual pattern removed; the manual pattern takes its place.
func (c *Config) Tree(manual []types.ManualPattern) types.ConfigTree {
	if len(manual) == 0 {
		return c.Files
	}
	drop := make(map[string]bool, len(manual))
	for _, m := range manual {
		drop[m.Pattern] = true
	}
	return c.Files.Without(drop)
}
