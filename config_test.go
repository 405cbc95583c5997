package qcollapse

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "qcollapse.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestConfig(t *testing.T) {
	Convey("Given the defaults", t, func() {
		cfg := NewConfig()

		So(cfg.Validate(), ShouldBeNil)
		So(cfg.Transformer.ConvergenceThreshold, ShouldEqual, 1e-6)
		So(cfg.Transformer.CorrectionInterval, ShouldEqual, 100)
		So(cfg.Transformer.CorrectionFactor, ShouldEqual, 1.1)
		So(cfg.Transformer.Refine, ShouldBeTrue)
		So(cfg.Benchmark.Problems, ShouldResemble, []ProblemType{ProblemSAT})
		So(cfg.Benchmark.Workers, ShouldBeGreaterThan, 0)
	})

	Convey("Given a YAML file", t, func() {
		Convey("When it overrides a few keys", func() {
			path := writeConfig(t, `
transformer:
  max_iterations: 50
  timeout: 250ms
  stop_on_fixed_point: true
benchmark:
  problems: [knapsack, vertex-cover]
  sizes: [2, 3]
  trials: 5
  seed: 9
`)
			cfg, err := LoadConfig(path)
			So(err, ShouldBeNil)

			Convey("Then those keys change and the rest keep their defaults", func() {
				So(cfg.Transformer.MaxIterations, ShouldEqual, 50)
				So(cfg.Transformer.Timeout, ShouldEqual, 250*time.Millisecond)
				So(cfg.Transformer.StopOnFixedPoint, ShouldBeTrue)
				So(cfg.Transformer.CorrectionFactor, ShouldEqual, 1.1)
				So(cfg.Benchmark.Problems, ShouldResemble, []ProblemType{ProblemKnapsack, ProblemVertexCover})
				So(cfg.Benchmark.Sizes, ShouldResemble, []int{2, 3})
				So(cfg.Benchmark.Trials, ShouldEqual, 5)
				So(cfg.Benchmark.Seed, ShouldEqual, uint64(9))
				So(cfg.Benchmark.TrialTimeout, ShouldEqual, 30*time.Second)
			})
		})

		Convey("When it names an unknown problem", func() {
			_, err := LoadConfig(writeConfig(t, "benchmark:\n  problems: [tsp]\n"))
			So(errors.Is(err, ErrConfig), ShouldBeTrue)
		})

		Convey("When it is not YAML", func() {
			_, err := LoadConfig(writeConfig(t, "transformer: [unclosed\n"))
			So(errors.Is(err, ErrConfig), ShouldBeTrue)
		})

		Convey("When a value is out of range", func() {
			_, err := LoadConfig(writeConfig(t, "benchmark:\n  trials: 0\n"))
			So(errors.Is(err, ErrConfig), ShouldBeTrue)
		})

		Convey("When it does not exist", func() {
			_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})

	Convey("Given invalid transformer values", t, func() {
		for _, mutate := range []func(*TransformerConfig){
			func(tc *TransformerConfig) { tc.ConvergenceThreshold = -1 },
			func(tc *TransformerConfig) { tc.MaxIterations = -1 },
			func(tc *TransformerConfig) { tc.Timeout = -time.Second },
			func(tc *TransformerConfig) { tc.CorrectionInterval = -1 },
			func(tc *TransformerConfig) { tc.CorrectionFactor = -1 },
		} {
			tc := NewTransformerConfig()
			mutate(&tc)
			So(errors.Is(tc.Validate(), ErrConfig), ShouldBeTrue)
		}
	})

	Convey("Given an unknown problem in code", t, func() {
		cfg := NewConfig()
		cfg.Benchmark.Problems = []ProblemType{ProblemType(99)}
		So(errors.Is(cfg.Validate(), ErrUnknownProblem), ShouldBeTrue)
	})
}
