package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/magiconair/properties"

	"github.com/sgvandijk/spark-kernel/pkg/errors"
	"github.com/sgvandijk/spark-kernel/pkg/options"
)

const (
	// SparkHomeEnvVar names the Spark installation directory. It is
	// consulted only when --spark-defaults is supplied.
	SparkHomeEnvVar = "SPARK_HOME"

	sparkDefaultsRelPath = "conf/spark-defaults.conf"
)

// commandLineLayer builds the highest-precedence layer from parsed options.
// A key appears only when the option was explicitly supplied and non-empty.
func commandLineLayer(opts *options.Options) map[string]interface{} {
	layer := make(map[string]interface{})

	if opts.Supplied("master") && opts.Master != "" {
		layer["spark.master"] = opts.Master
	}
	if opts.Supplied("ip") && opts.IP != "" {
		layer["ip"] = opts.IP
	}

	ports := []struct {
		flag  string
		key   string
		value int
	}{
		{"stdin-port", "stdin_port", opts.StdinPort},
		{"shell-port", "shell_port", opts.ShellPort},
		{"iopub-port", "iopub_port", opts.IopubPort},
		{"control-port", "control_port", opts.ControlPort},
		{"heartbeat-port", "hb_port", opts.HeartbeatPort},
	}
	for _, p := range ports {
		if opts.Supplied(p.flag) {
			layer[p.key] = p.value
		}
	}

	if len(opts.InterpreterArgs) > 0 {
		layer["interpreter_args"] = opts.InterpreterArgs
	}
	if len(opts.MagicURLs) > 0 {
		layer["magic_urls"] = opts.MagicURLs
	}
	if len(opts.SparkConfiguration) > 0 {
		layer["spark_configuration"] = strings.Join(opts.SparkConfiguration, ",")
	}

	return layer
}

// sparkDefaultsLayer reads $SPARK_HOME/conf/spark-defaults.conf and
// re-serializes its pairs into a single comma-joined spark_configuration
// value, preserving file order. The layer is empty when SPARK_HOME is unset
// or the file does not exist; a present but malformed file is an error.
func sparkDefaultsLayer() (map[string]interface{}, error) {
	home := os.Getenv(SparkHomeEnvVar)
	if home == "" {
		return nil, nil
	}

	path := filepath.Join(home, filepath.FromSlash(sparkDefaultsRelPath))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read spark defaults file %s", path).
			WithDetail("path", path)
	}

	// Pairs are re-serialized verbatim; Spark itself handles any
	// substitution semantics downstream.
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "malformed spark defaults file %s", path).
			WithDetail("path", path)
	}

	keys := props.Keys()
	if len(keys) == 0 {
		return nil, nil
	}

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		value, _ := props.Get(key)
		pairs = append(pairs, key+"="+value)
	}

	return map[string]interface{}{"spark_configuration": strings.Join(pairs, ",")}, nil
}

// loadProfileLayer parses the connection profile named by --profile into k.
// The format is chosen by extension; frontends conventionally write JSON.
func loadProfileLayer(k *koanf.Koanf, path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrFileNotFound, "profile file not found: %s", path).
				WithDetail("path", path)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read profile file %s", path).
			WithDetail("path", path)
	}
	if fi.IsDir() {
		return errors.Newf(errors.ErrFileAccess, "profile path is a directory: %s", path).
			WithDetail("path", path)
	}

	// Parse into a scratch instance first so literal dotted keys (JSON
	// profiles may spell "spark.master" flat) normalize onto the same
	// path as nested sections before merging.
	tmp := koanf.New(".")
	if err := tmp.Load(file.Provider(path), profileParser(path)); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "malformed profile file %s", path).
			WithDetail("path", path)
	}
	if err := k.Load(confmap.Provider(tmp.All(), "."), nil); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot merge profile file %s", path).
			WithDetail("path", path)
	}
	return nil
}

// profileParser picks a koanf parser from the profile's file extension.
func profileParser(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser()
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return json.Parser()
	}
}
