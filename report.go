package qcollapse

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

/*
GenerateReport renders benchmark results as human-readable text.

Output is deterministic for a given input: results are sorted by problem, size
and trial before rendering. The layout is for reading, not parsing. Every trial
line carries the BenchmarkResult fields, each problem gets a summary that keeps
failed trials out of the quality average, and a growth classification is added
wherever three or more sizes succeeded.
*/
func GenerateReport(results []BenchmarkResult) string {
	var b strings.Builder

	b.WriteString("Constraint relaxation benchmark report\n")
	b.WriteString("======================================\n")

	if len(results) == 0 {
		b.WriteString("\nno results\n")
		return b.String()
	}

	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(x, y BenchmarkResult) int {
		return cmp.Or(
			cmp.Compare(x.ProblemName, y.ProblemName),
			cmp.Compare(x.ProblemSize, y.ProblemSize),
			cmp.Compare(x.Trial, y.Trial),
		)
	})

	for start := 0; start < len(sorted); {
		name := sorted[start].ProblemName
		end := start
		for end < len(sorted) && sorted[end].ProblemName == name {
			end++
		}
		writeProblemSection(&b, sorted[start:end])
		start = end
	}

	return b.String()
}

func writeProblemSection(b *strings.Builder, results []BenchmarkResult) {
	name := results[0].ProblemName
	fmt.Fprintf(b, "\nproblem: %s (reference %s)\n", name, results[0].ReferenceModel)
	fmt.Fprintf(b, "%6s %5s %14s %14s %14s %10s %10s %8s %9s %9s %7s\n",
		"size", "trial", "reference_s", "measured_s", "speedup", "iterations",
		"outcome", "quality", "satisfied", "converged", "growth")

	var (
		succeeded, failed, satisfied int
		quality                      float64
	)

	for _, r := range results {
		if r.Failed {
			failed++
			fmt.Fprintf(b, "%6d %5d %14s FAILED: %s\n", r.ProblemSize, r.Trial, formatSeconds(r.ReferenceTime), r.Err)
			continue
		}

		succeeded++
		quality += r.SolutionQuality
		if r.Satisfied {
			satisfied++
		}

		fmt.Fprintf(b, "%6d %5d %14s %14s %14s %10d %10s %8.3f %9t %9t %7t\n",
			r.ProblemSize, r.Trial,
			formatSeconds(r.ReferenceTime), formatSeconds(r.MeasuredTime), formatRatio(r.SpeedupRatio),
			r.IterationsToStop, r.Outcome, r.SolutionQuality, r.Satisfied, r.Converged, r.GrowthVerified)
	}

	fmt.Fprintf(b, "summary: %d trials, %d failed, %d satisfied", len(results), failed, satisfied)
	if succeeded > 0 {
		fmt.Fprintf(b, ", mean quality %.3f", quality/float64(succeeded))
	}
	b.WriteString("\n")

	fit, err := FitGrowth(GrowthPoints(results, name))
	if err != nil {
		fmt.Fprintf(b, "growth: not classified (%v)\n", err)
		return
	}

	fmt.Fprintf(b, "growth: %s, R^2 %.4f", fit.Model, fit.RSquared)
	if !math.IsNaN(fit.LogLogExponent) {
		fmt.Fprintf(b, ", log-log exponent %.2f", fit.LogLogExponent)
	}
	b.WriteString("\n")
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.6g", s)
}

func formatRatio(r float64) string {
	if math.IsInf(r, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.4g", r)
}
