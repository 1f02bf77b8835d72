package config

import (
	"strings"

	"github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix selects the environment variables layered over the config file.
const EnvPrefix = "FGROUP_"

// settings are the scalar keys resolved through koanf.
type settings struct {
	Root               string `koanf:"root"`
	ConfigRelativeRoot bool   `koanf:"config_relative_root"`
}

func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// loadSettings layers, lowest first: embedded defaults, the config file,
// FGROUP_* environment variables and flags.
func loadSettings(path string, format Format, flags map[string]interface{}) (settings, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return settings{}, errors.Wrap(err, errors.ErrInternal, "failed to load defaults")
	}

	// 2. Load the config file
	if path != "" {
		var parser koanf.Parser = yaml.Parser()
		if format == FormatTOML {
			parser = toml.Parser()
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return settings{}, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail("path", path)
		}
	}

	// 3. Load env vars
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return settings{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Load flags
	if len(flags) > 0 {
		if err := k.Load(confmap.Provider(flags, "."), nil); err != nil {
			return settings{}, errors.Wrap(err, errors.ErrInternal, "failed to load flags")
		}
	}

	var s settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return settings{}, errors.Wrap(err, errors.ErrConfigValid, "invalid config: failed to decode settings")
	}
	return s, nil
}
