package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/theapemachine/qcollapse"
)

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <file.cnf | ->",
		Short: "Solve a DIMACS CNF formula",
		Long: `Read a DIMACS CNF formula from a file (or stdin with "-"), run the collapse
loop on it and print the verdict with the assignment as a DIMACS "v" line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open formula: %w", err)
				}
				defer f.Close()
				in = f
			}

			cnf, err := qcollapse.ReadDIMACS(in)
			if err != nil {
				return err
			}
			state, err := cnf.Encode()
			if err != nil {
				return err
			}

			cfg := qcollapse.NewTransformerConfig()
			cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
			cfg.MaxIterations, _ = cmd.Flags().GetInt("max-iterations")

			slog.Debug("solving", "variables", cnf.Variables, "clauses", len(cnf.Clauses))

			solution, err := qcollapse.Solve(cmd.Context(), cfg, state)
			if err != nil {
				return err
			}

			writeSolution(cmd.OutOrStdout(), solution)
			return nil
		},
	}

	cmd.Flags().Duration("timeout", 0, "Wall-clock ceiling for the solve")
	cmd.Flags().Int("max-iterations", 0, "Iteration budget (0 = variables squared)")

	return cmd
}

func writeSolution(w io.Writer, solution *qcollapse.Solution) {
	verdict := "UNKNOWN"
	if solution.Satisfied {
		verdict = "SATISFIABLE"
	}

	fmt.Fprintf(w, "c outcome %s after %d iterations, quality %.3f\n",
		solution.Outcome, solution.Iterations, solution.Quality)
	fmt.Fprintf(w, "s %s\n", verdict)

	literals := make([]string, 0, solution.State.Dimension()+1)
	for i, v := range solution.State.Encoding() {
		lit := i + 1
		if v == 0 {
			lit = -lit
		}
		literals = append(literals, strconv.Itoa(lit))
	}
	literals = append(literals, "0")
	fmt.Fprintf(w, "v %s\n", strings.Join(literals, " "))
}
