package config

import (
	"io"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/sgvandijk/spark-kernel/pkg/errors"
)

// Resolved is the merged, read-only view of all configuration layers.
// It is safe for concurrent reads by any number of consumers.
type Resolved struct {
	k *koanf.Koanf
}

// ConnectionInfo is the socket wiring a frontend hands the kernel,
// typically through the connection profile.
type ConnectionInfo struct {
	IP              string `koanf:"ip"`
	Transport       string `koanf:"transport"`
	SignatureScheme string `koanf:"signature_scheme"`
	Key             string `koanf:"key"`
	StdinPort       int    `koanf:"stdin_port"`
	ShellPort       int    `koanf:"shell_port"`
	IopubPort       int    `koanf:"iopub_port"`
	ControlPort     int    `koanf:"control_port"`
	HeartbeatPort   int    `koanf:"hb_port"`
}

// Has reports whether any layer defined the given key.
func (r *Resolved) Has(path string) bool { return r.k.Exists(path) }

// String returns the resolved string value at path, or "" if absent.
func (r *Resolved) String(path string) string { return r.k.String(path) }

// Int returns the resolved integer value at path, or 0 if absent.
func (r *Resolved) Int(path string) int { return r.k.Int(path) }

// Strings returns the resolved string list at path, or nil if absent.
func (r *Resolved) Strings(path string) []string { return r.k.Strings(path) }

// All returns a flattened copy of every resolved key.
func (r *Resolved) All() map[string]interface{} { return r.k.All() }

// SparkMaster returns the resolved spark.master value.
func (r *Resolved) SparkMaster() string { return r.k.String("spark.master") }

// IP returns the resolved bind address.
func (r *Resolved) IP() string { return r.k.String("ip") }

// StdinPort returns the resolved stdin socket port.
func (r *Resolved) StdinPort() int { return r.k.Int("stdin_port") }

// ShellPort returns the resolved shell socket port.
func (r *Resolved) ShellPort() int { return r.k.Int("shell_port") }

// IopubPort returns the resolved iopub socket port.
func (r *Resolved) IopubPort() int { return r.k.Int("iopub_port") }

// ControlPort returns the resolved control socket port.
func (r *Resolved) ControlPort() int { return r.k.Int("control_port") }

// HeartbeatPort returns the resolved heartbeat socket port.
func (r *Resolved) HeartbeatPort() int { return r.k.Int("hb_port") }

// InterpreterArgs returns the verbatim arguments destined for the
// interpreter, nil when none were supplied.
func (r *Resolved) InterpreterArgs() []string { return r.k.Strings("interpreter_args") }

// MagicURLs returns the resolved magic URL list, nil when none were supplied.
func (r *Resolved) MagicURLs() []string { return r.k.Strings("magic_urls") }

// SparkConfiguration returns the comma-joined key=value configuration
// string, "" when no layer defined one.
func (r *Resolved) SparkConfiguration() string { return r.k.String("spark_configuration") }

// Unmarshal decodes the resolved configuration under path into v with weak
// typing, so string-typed profile values still land in numeric fields. An
// empty path decodes the whole configuration.
func (r *Resolved) Unmarshal(path string, v interface{}) error {
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           v,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := r.k.UnmarshalWithConf(path, v, conf); err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "cannot decode resolved configuration")
	}
	return nil
}

// Connection decodes the resolved socket wiring.
func (r *Resolved) Connection() (ConnectionInfo, error) {
	var ci ConnectionInfo
	err := r.Unmarshal("", &ci)
	return ci, err
}

// Dump writes the full resolved configuration to w as TOML, used for
// debug logging at startup.
func (r *Resolved) Dump(w io.Writer) error {
	if err := gotoml.NewEncoder(w).Encode(r.k.Raw()); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot render resolved configuration")
	}
	return nil
}
