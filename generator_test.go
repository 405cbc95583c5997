package qcollapse

import (
	"errors"
	"math/rand/v2"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given every problem family", t, func() {
		dimensions := map[ProblemType]int{
			ProblemSAT:             5,
			ProblemVertexCover:     5,
			ProblemGraphColoring:   15,
			ProblemHamiltonianPath: 25,
			ProblemKnapsack:        5,
		}

		for _, pt := range ProblemTypes {
			instance, err := Generate(pt, 5, rand.New(rand.NewPCG(7, 11)))
			So(err, ShouldBeNil)

			So(instance.ProblemType, ShouldEqual, pt)
			So(instance.Size, ShouldEqual, 5)
			So(instance.State.ProblemType(), ShouldEqual, pt)
			So(instance.State.Dimension(), ShouldEqual, dimensions[pt])
		}
	})

	Convey("Given the same seed twice", t, func() {
		for _, pt := range ProblemTypes {
			first, err := Generate(pt, 6, rand.New(rand.NewPCG(3, 5)))
			So(err, ShouldBeNil)
			second, err := Generate(pt, 6, rand.New(rand.NewPCG(3, 5)))
			So(err, ShouldBeNil)

			So(second.State.Constraints(), ShouldResemble, first.State.Constraints())
			So(second.Weights, ShouldResemble, first.Weights)
		}
	})

	Convey("Given a generated SAT instance", t, func() {
		instance, err := Generate(ProblemSAT, 8, rand.New(rand.NewPCG(1, 2)))
		So(err, ShouldBeNil)

		Convey("It has two clauses per variable of width three", func() {
			constraints := instance.State.Constraints()
			So(constraints, ShouldHaveLength, 16)
			for _, c := range constraints {
				So(c.Len(), ShouldEqual, 3)
			}
		})
	})

	Convey("Given a generated vertex cover instance", t, func() {
		instance, err := Generate(ProblemVertexCover, 6, rand.New(rand.NewPCG(1, 2)))
		So(err, ShouldBeNil)

		Convey("Taking every vertex covers it", func() {
			all, err := instance.State.WithEncoding([]int{1, 1, 1, 1, 1, 1})
			So(err, ShouldBeNil)
			So(IsSatisfied(all), ShouldBeTrue)
		})
	})

	Convey("Given a generated knapsack instance", t, func() {
		instance, err := Generate(ProblemKnapsack, 6, rand.New(rand.NewPCG(1, 2)))
		So(err, ShouldBeNil)

		Convey("Weights stay within the span and capacity is half the total", func() {
			total := 0.0
			for _, w := range instance.Weights {
				So(w, ShouldBeBetweenOrEqual, 1.0, float64(knapsackWeightSpan))
				total += w
			}
			So(instance.Capacity, ShouldEqual, total/2)
			So(instance.Values, ShouldHaveLength, 6)
		})
	})

	Convey("Given bad arguments", t, func() {
		rng := rand.New(rand.NewPCG(1, 1))

		_, err := Generate(ProblemSAT, 0, rng)
		So(errors.Is(err, ErrDimension), ShouldBeTrue)

		_, err = Generate(ProblemType(99), 3, rng)
		So(errors.Is(err, ErrUnknownProblem), ShouldBeTrue)
	})
}
