package options

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/sgvandijk/spark-kernel/pkg/errors"
)

// Options holds the result of matching process arguments against the
// kernel option schema. Values are only meaningful for options that were
// explicitly supplied; use Supplied to check.
type Options struct {
	Help    bool
	Version bool

	Profile string
	Master  string
	IP      string

	StdinPort     int
	ShellPort     int
	IopubPort     int
	ControlPort   int
	HeartbeatPort int

	SparkDefaults bool

	// SparkConfiguration collects repeated -S/--spark-configuration
	// key=value pairs in the order they were supplied.
	SparkConfiguration []string

	// MagicURLs collects repeated --magic-url values in supplied order.
	MagicURLs []string

	// InterpreterArgs holds everything after the first literal "--",
	// verbatim and excluded from option matching. Nil if absent or empty.
	InterpreterArgs []string

	flags *pflag.FlagSet
}

// Parser parses kernel command-line arguments.
type Parser struct {
	// Lenient tolerates unrecognized options instead of rejecting them.
	Lenient bool
}

// NewParser returns a parser in lenient mode, the kernel's default.
func NewParser() *Parser {
	return &Parser{Lenient: true}
}

// newFlagSet builds the option schema bound to opts.
func newFlagSet(opts *Options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("spark-kernel", pflag.ContinueOnError)
	fs.SortFlags = false

	fs.BoolVarP(&opts.Help, "help", "h", false, "Show this help message")
	fs.BoolVarP(&opts.Version, "version", "v", false, "Show version information")
	fs.StringVar(&opts.Profile, "profile", "", "Path to the connection profile file")
	fs.StringVar(&opts.Master, "master", "", "Spark master URL (e.g. local[2], yarn)")
	fs.StringVar(&opts.IP, "ip", "", "IP address to bind the kernel sockets to")
	fs.IntVar(&opts.StdinPort, "stdin-port", 0, "Port for the stdin socket")
	fs.IntVar(&opts.ShellPort, "shell-port", 0, "Port for the shell socket")
	fs.IntVar(&opts.IopubPort, "iopub-port", 0, "Port for the iopub socket")
	fs.IntVar(&opts.ControlPort, "control-port", 0, "Port for the control socket")
	fs.IntVar(&opts.HeartbeatPort, "heartbeat-port", 0, "Port for the heartbeat socket")
	fs.BoolVar(&opts.SparkDefaults, "spark-defaults", false, "Load spark-defaults.conf from the Spark home")
	fs.StringArrayVarP(&opts.SparkConfiguration, "spark-configuration", "S", nil, "Spark configuration override as key=value (repeatable)")
	fs.StringArrayVar(&opts.MagicURLs, "magic-url", nil, "URL to load magics from (repeatable)")

	return fs
}

// Parse matches args against the option schema. Arguments after a literal
// "--" are captured verbatim as interpreter arguments. Malformed option
// values are reported as OPTION_PARSE errors naming the option and the raw
// string.
func (p *Parser) Parse(args []string) (*Options, error) {
	opts := &Options{}
	fs := newFlagSet(opts)
	fs.ParseErrorsWhitelist = pflag.ParseErrorsWhitelist{UnknownFlags: p.Lenient}
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(err, errors.ErrOptionParse, "invalid command-line option")
	}

	for _, pair := range opts.SparkConfiguration {
		if !strings.Contains(pair, "=") {
			return nil, errors.Newf(errors.ErrOptionParse,
				"malformed spark configuration pair %q: expected key=value", pair).
				WithDetail("option", "spark-configuration").
				WithDetail("value", pair)
		}
	}

	if at := fs.ArgsLenAtDash(); at >= 0 {
		if rest := fs.Args()[at:]; len(rest) > 0 {
			opts.InterpreterArgs = rest
		}
	}

	opts.flags = fs
	return opts, nil
}

// HasHelp reports whether --help/-h was supplied.
func (o *Options) HasHelp() bool { return o.Help }

// HasVersion reports whether --version/-v was supplied.
func (o *Options) HasVersion() bool { return o.Version }

// Supplied reports whether the named option was explicitly set on the
// command line. Defaulted values never count as supplied.
func (o *Options) Supplied(name string) bool {
	if o.flags == nil {
		return false
	}
	return o.flags.Changed(name)
}

// PrintHelp writes a description of every recognized option to w.
func PrintHelp(w io.Writer) {
	fs := newFlagSet(&Options{})
	fmt.Fprintln(w, "Usage: spark-kernel [options] [-- <interpreter args...>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprint(w, fs.FlagUsages())
}
