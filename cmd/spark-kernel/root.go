package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sgvandijk/spark-kernel/internal/version"
	"github.com/sgvandijk/spark-kernel/pkg/config"
	"github.com/sgvandijk/spark-kernel/pkg/logging"
	"github.com/sgvandijk/spark-kernel/pkg/options"
)

// verbosityEnvVar controls log verbosity. The kernel CLI reserves -v for
// --version, so verbosity comes from the environment.
const verbosityEnvVar = "SPARK_KERNEL_VERBOSITY"

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spark-kernel",
		Short: "A Jupyter kernel backed by Apache Spark",
		Long: `spark-kernel resolves its startup configuration from command-line
options, an optional spark-defaults file, a connection profile supplied by
the frontend, and built-in defaults, then boots the kernel with the merged
result.`,
		// The kernel owns its own argv contract: lenient option matching
		// and a literal -- separator for interpreter arguments.
		DisableFlagParsing: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(logging.VerbosityFromEnv(verbosityEnvVar))
			log.Debug().Str("command", cmd.Name()).Strs("args", args).Msg("Command started")
		},
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	opts, err := options.NewParser().Parse(args)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	if opts.HasHelp() {
		options.PrintHelp(cmd.OutOrStdout())
		return nil
	}

	if opts.HasVersion() {
		fmt.Fprintf(cmd.OutOrStdout(), "spark-kernel version %s\n", version.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.Date)
		return nil
	}

	defaults, err := config.BuiltinDefaults()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	resolved, err := config.Resolve(opts, defaults)
	if err != nil {
		// A kernel cannot safely start with an ambiguous configuration.
		log.Error().Err(err).Msg("Failed to resolve kernel configuration")
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	conn, err := resolved.Connection()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	log.Info().
		Str("ip", conn.IP).
		Int("shell_port", conn.ShellPort).
		Int("iopub_port", conn.IopubPort).
		Int("stdin_port", conn.StdinPort).
		Int("control_port", conn.ControlPort).
		Int("hb_port", conn.HeartbeatPort).
		Str("spark_master", resolved.SparkMaster()).
		Msg("Kernel configuration resolved")

	if e := log.Debug(); e.Enabled() {
		var sb strings.Builder
		if err := resolved.Dump(&sb); err == nil {
			e.Msg("Resolved configuration:\n" + sb.String())
		}
	}

	// Socket binding and interpreter startup consume the resolved
	// configuration from here.
	return nil
}
