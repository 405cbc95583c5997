package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/theapemachine/qcollapse"
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the heuristic across problem sizes",
		Long: `Generate seeded instances for each problem family and size, solve them on a
worker pool, and print a report comparing measured time with the family's
reference complexity model.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := benchConfig(cmd)
			if err != nil {
				return err
			}

			slog.Info("starting benchmark",
				"problems", cfg.Benchmark.Problems,
				"sizes", cfg.Benchmark.Sizes,
				"trials", cfg.Benchmark.Trials,
				"workers", cfg.Benchmark.Workers,
			)

			harness := qcollapse.NewHarness(cfg, nil, nil)
			results, err := harness.RunAll(cmd.Context())
			if err != nil {
				if len(results) > 0 {
					fmt.Fprint(cmd.OutOrStdout(), qcollapse.GenerateReport(results))
				}
				return err
			}

			slog.Debug("benchmark finished", "results", len(results), "metrics", harness.Metrics().ExportMetrics())
			fmt.Fprint(cmd.OutOrStdout(), qcollapse.GenerateReport(results))
			return nil
		},
	}

	cmd.Flags().String("config", "", "YAML configuration file")
	cmd.Flags().StringSlice("problem", nil, "Problem families (sat, vertex_cover, graph_coloring, hamiltonian_path, knapsack)")
	cmd.Flags().IntSlice("sizes", nil, "Instance sizes")
	cmd.Flags().Int("trials", 0, "Trials per size")
	cmd.Flags().Int("workers", 0, "Concurrent trials")
	cmd.Flags().Uint64("seed", 0, "Instance generation seed")
	cmd.Flags().Duration("timeout", 0, "Wall-clock ceiling per solve")

	return cmd
}

// benchConfig layers explicitly set flags over the config file over the defaults.
func benchConfig(cmd *cobra.Command) (*qcollapse.Config, error) {
	cfg := qcollapse.NewConfig()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := qcollapse.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("problem") {
		names, _ := flags.GetStringSlice("problem")
		cfg.Benchmark.Problems = cfg.Benchmark.Problems[:0]
		for _, name := range names {
			pt, err := qcollapse.ParseProblemType(name)
			if err != nil {
				return nil, err
			}
			cfg.Benchmark.Problems = append(cfg.Benchmark.Problems, pt)
		}
	}
	if flags.Changed("sizes") {
		cfg.Benchmark.Sizes, _ = flags.GetIntSlice("sizes")
	}
	if flags.Changed("trials") {
		cfg.Benchmark.Trials, _ = flags.GetInt("trials")
	}
	if flags.Changed("workers") {
		cfg.Benchmark.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("seed") {
		cfg.Benchmark.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("timeout") {
		cfg.Transformer.Timeout, _ = flags.GetDuration("timeout")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
