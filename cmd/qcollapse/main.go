package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qcollapse",
		Short: "Constraint relaxation heuristic engine",
		Long: `qcollapse encodes combinatorial problems as weighted constraints, relaxes a
candidate assignment toward satisfaction, and benchmarks how its runtime grows.

It is a best-effort local heuristic: verdicts are honest, nothing is proven.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			slog.SetDefault(newLogger(verbose))
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging for CLI messages")

	rootCmd.AddCommand(
		newVersionCmd(),
		newBenchCmd(),
		newSolveCmd(),
	)

	return rootCmd
}

/*
newLogger builds the CLI's own slog logger. It only covers messages the commands
log themselves: the engine logs through errnie, whose output and level are
configured by errnie and are not affected by --verbose.
*/
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "qcollapse version %s\n", version)
		},
	}
}
