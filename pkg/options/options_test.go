package options_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgvandijk/spark-kernel/pkg/errors"
	"github.com/sgvandijk/spark-kernel/pkg/options"
)

func TestParsePorts(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want func(t *testing.T, o *options.Options)
	}{
		{
			name: "all_ports",
			args: []string{
				"--stdin-port", "9001",
				"--shell-port", "9002",
				"--iopub-port", "9003",
				"--control-port", "9004",
				"--heartbeat-port", "9005",
			},
			want: func(t *testing.T, o *options.Options) {
				assert.Equal(t, 9001, o.StdinPort)
				assert.Equal(t, 9002, o.ShellPort)
				assert.Equal(t, 9003, o.IopubPort)
				assert.Equal(t, 9004, o.ControlPort)
				assert.Equal(t, 9005, o.HeartbeatPort)
			},
		},
		{
			name: "equals_syntax",
			args: []string{"--shell-port=9000"},
			want: func(t *testing.T, o *options.Options) {
				assert.Equal(t, 9000, o.ShellPort)
				assert.True(t, o.Supplied("shell-port"))
				assert.False(t, o.Supplied("stdin-port"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := options.NewParser().Parse(tt.args)
			require.NoError(t, err)
			tt.want(t, o)
		})
	}
}

func TestParseBadPortValue(t *testing.T) {
	_, err := options.NewParser().Parse([]string{"--stdin-port", "not-a-number"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrOptionParse))
	assert.Contains(t, err.Error(), "stdin-port")
	assert.Contains(t, err.Error(), "not-a-number")
}

func TestParseSparkConfiguration(t *testing.T) {
	o, err := options.NewParser().Parse([]string{"-S", "a=1", "-S", "b=2", "--spark-configuration", "c=3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a=1", "b=2", "c=3"}, o.SparkConfiguration)
}

func TestParseSparkConfigurationMalformed(t *testing.T) {
	_, err := options.NewParser().Parse([]string{"-S", "no-equals-sign"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrOptionParse))
	assert.Contains(t, err.Error(), "no-equals-sign")
}

func TestParseMagicURLsPreserveOrder(t *testing.T) {
	o, err := options.NewParser().Parse([]string{
		"--magic-url", "https://example.org/first",
		"--magic-url", "https://example.org/second",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.org/first", "https://example.org/second"}, o.MagicURLs)
}

func TestParseInterpreterArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "args_after_separator",
			args: []string{"--ip", "0.0.0.0", "--", "--foo", "bar"},
			want: []string{"--foo", "bar"},
		},
		{
			name: "no_separator",
			args: []string{"--ip", "0.0.0.0"},
			want: nil,
		},
		{
			name: "separator_with_nothing_after",
			args: []string{"--ip", "0.0.0.0", "--"},
			want: nil,
		},
		{
			name: "flag_like_tokens_kept_verbatim",
			args: []string{"--", "--stdin-port", "9000", "-x"},
			want: []string{"--stdin-port", "9000", "-x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := options.NewParser().Parse(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, o.InterpreterArgs)
		})
	}
}

func TestParseInterpreterArgsExcludedFromOptions(t *testing.T) {
	// A port flag after the separator must not populate the option.
	o, err := options.NewParser().Parse([]string{"--", "--stdin-port", "9000"})
	require.NoError(t, err)
	assert.False(t, o.Supplied("stdin-port"))
	assert.Equal(t, 0, o.StdinPort)
}

func TestParseLenientToleratesUnknownOptions(t *testing.T) {
	o, err := options.NewParser().Parse([]string{"--launcher-specific", "value", "--ip", "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", o.IP)
}

func TestParseStrictRejectsUnknownOptions(t *testing.T) {
	p := &options.Parser{Lenient: false}
	_, err := p.Parse([]string{"--launcher-specific", "value"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrOptionParse))
}

func TestHelpAndVersionPresence(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantHelp    bool
		wantVersion bool
	}{
		{"long_help", []string{"--help"}, true, false},
		{"short_help", []string{"-h"}, true, false},
		{"long_version", []string{"--version"}, false, true},
		{"short_version", []string{"-v"}, false, true},
		{"neither", []string{"--ip", "127.0.0.1"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := options.NewParser().Parse(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHelp, o.HasHelp())
			assert.Equal(t, tt.wantVersion, o.HasVersion())
		})
	}
}

func TestPrintHelpNamesEveryOption(t *testing.T) {
	var sb strings.Builder
	options.PrintHelp(&sb)
	out := sb.String()

	for _, flag := range []string{
		"--help", "--version", "--profile", "--master", "--ip",
		"--stdin-port", "--shell-port", "--iopub-port", "--control-port",
		"--heartbeat-port", "--spark-defaults", "--spark-configuration",
		"--magic-url",
	} {
		assert.Contains(t, out, flag)
	}
	assert.Contains(t, out, "-h,")
	assert.Contains(t, out, "-v,")
	assert.Contains(t, out, "-S,")
}
