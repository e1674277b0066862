package config

import (
	_ "embed"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/sgvandijk/spark-kernel/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultsTOML []byte

// BuiltinDefaults loads the embedded default configuration, the lowest
// precedence layer of the resolver.
func BuiltinDefaults() (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultsTOML), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load built-in defaults")
	}
	return k, nil
}
