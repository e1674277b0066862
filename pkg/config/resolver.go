package config

import (
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"

	"github.com/sgvandijk/spark-kernel/pkg/errors"
	"github.com/sgvandijk/spark-kernel/pkg/logging"
	"github.com/sgvandijk/spark-kernel/pkg/options"
)

// Resolve merges the four configuration layers for the given parsed options.
// Precedence, highest first: command line, spark-defaults file, connection
// profile, the passed-in defaults. Layers are loaded lowest first so every
// higher layer overrides the keys it defines and nothing else.
//
// The defaults layer is passed explicitly rather than read from global
// state; production callers hand in BuiltinDefaults().
func Resolve(opts *options.Options, defaults *koanf.Koanf) (*Resolved, error) {
	logger := logging.GetLogger("config")

	k := koanf.New(".")

	// 4. built-in defaults
	if defaults != nil {
		if err := k.Merge(defaults); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults layer")
		}
	}

	// 3. connection profile
	if opts.Supplied("profile") && opts.Profile != "" {
		if err := loadProfileLayer(k, opts.Profile); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", opts.Profile).Msg("Loaded connection profile")
	}

	// 2. spark-defaults file, only when asked for
	if opts.SparkDefaults {
		layer, err := sparkDefaultsLayer()
		if err != nil {
			return nil, err
		}
		if len(layer) > 0 {
			if err := k.Load(confmap.Provider(layer, "."), nil); err != nil {
				return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load spark defaults layer")
			}
			logger.Debug().Msg("Loaded spark defaults configuration")
		}
	}

	// 1. command line
	if layer := commandLineLayer(opts); len(layer) > 0 {
		if err := k.Load(confmap.Provider(layer, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load command-line layer")
		}
	}

	return &Resolved{k: k}, nil
}
