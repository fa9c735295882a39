// Package cli implements the asyncflow command-line scenario runner: a
// thin cobra wrapper over the scenario, kernel, tracestore, and inspect
// packages.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cschladetsch/asyncflow-go/internal/config"
	"github.com/cschladetsch/asyncflow-go/internal/logging"
)

var (
	cfg    = config.DefaultRunnerConfig()
	logger *slog.Logger

	// flagSpeed multiplies cfg.TickQuantum for a human-observable cadence,
	// e.g. --speed 1000 turns a 1ms tick quantum into a 1s one.
	flagSpeed float64
)

// NewRootCmd builds the asyncflow root command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "asyncflow",
		Short: "asyncflow drives cooperative flow-graph scenarios",
		Long:  "asyncflow builds and drives cooperative flow-graph scenarios: declarative YAML documents or built-in demos, run under a single-threaded tick loop.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	root.PersistentFlags().BoolVar(&cfg.Trace, "trace", cfg.Trace, "Record every tick to a SQLite trace database")
	root.PersistentFlags().StringVar(&cfg.TracePath, "trace-path", cfg.TracePath, "SQLite trace database path")
	root.PersistentFlags().StringVar(&cfg.InspectAddr, "inspect-addr", cfg.InspectAddr, "Serve a read-only introspection HTTP server on this address, e.g. :9600")
	root.PersistentFlags().DurationVar(&cfg.TickQuantum, "tick-quantum", cfg.TickQuantum, "Poll interval between ticks")
	root.PersistentFlags().StringVar(&cfg.ScriptDir, "script-dir", cfg.ScriptDir, "Directory the list command scans for scenario documents")
	root.PersistentFlags().Float64Var(&flagSpeed, "speed", 1, "Multiplies the tick quantum for a human-observable cadence, e.g. 1000 slows a 1ms quantum to 1s")

	root.AddCommand(
		newRunCmd(),
		newValidateCmd(),
		newDemoCmd(),
		newListCmd(),
	)

	return root
}
