package qcollapse

import (
	"slices"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func sampleResults() []BenchmarkResult {
	trial := func(size, n int, quality float64, satisfied bool) BenchmarkResult {
		return BenchmarkResult{
			ProblemName:      "sat",
			ProblemSize:      size,
			Trial:            n,
			ReferenceModel:   "exponential 2^n",
			ReferenceTime:    float64(int(1)<<size) * ReferenceStepCost,
			MeasuredTime:     float64(size*size) * 1e-3,
			SpeedupRatio:     1,
			IterationsToStop: size,
			Outcome:          OutcomeExhausted,
			SolutionQuality:  quality,
			Satisfied:        satisfied,
		}
	}

	return []BenchmarkResult{
		trial(2, 0, 1, true),
		trial(3, 0, 1, true),
		trial(4, 0, 0.5, false),
		{ProblemName: "sat", ProblemSize: 4, Trial: 1, ReferenceModel: "exponential 2^n", Failed: true, Err: "boom"},
		{ProblemName: "knapsack", ProblemSize: 3, ReferenceModel: "pseudo-polynomial n*W", MeasuredTime: 0.1, SolutionQuality: 1, Satisfied: true},
	}
}

func TestGenerateReport(t *testing.T) {
	Convey("Given no results", t, func() {
		So(GenerateReport(nil), ShouldContainSubstring, "no results")
	})

	Convey("Given results for two problems", t, func() {
		results := sampleResults()
		report := GenerateReport(results)

		Convey("Each problem gets its own section", func() {
			So(report, ShouldContainSubstring, "problem: sat (reference exponential 2^n)")
			So(report, ShouldContainSubstring, "problem: knapsack (reference pseudo-polynomial n*W)")
			So(strings.Index(report, "problem: knapsack"), ShouldBeLessThan, strings.Index(report, "problem: sat"))
		})

		Convey("Failed trials are shown apart and left out of the quality mean", func() {
			So(report, ShouldContainSubstring, "FAILED: boom")
			So(report, ShouldContainSubstring, "summary: 4 trials, 1 failed, 2 satisfied, mean quality 0.833")
		})

		Convey("Problems with enough sizes get a growth class", func() {
			So(report, ShouldContainSubstring, "growth: O(n^2), R^2 1.0000, log-log exponent 2.00")
			So(report, ShouldContainSubstring, "growth: not classified")
		})

		Convey("Input order does not change the output", func() {
			reversed := slices.Clone(results)
			slices.Reverse(reversed)
			So(GenerateReport(reversed), ShouldEqual, report)
		})
	})
}

func TestGrowthPoints(t *testing.T) {
	Convey("Given mixed results", t, func() {
		points := GrowthPoints(sampleResults(), "sat")

		Convey("Failed trials and other problems are skipped", func() {
			So(points, ShouldHaveLength, 3)
			for i, size := range []int{2, 3, 4} {
				So(points[i].Size, ShouldEqual, size)
				So(points[i].Time, ShouldAlmostEqual, float64(size*size)*1e-3, 1e-12)
			}
		})
	})
}
