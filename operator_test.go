package qcollapse

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewResonanceOperator(t *testing.T) {
	Convey("Given a dimension", t, func() {
		Convey("When it is not positive", func() {
			for _, n := range []int{0, -1} {
				_, err := NewResonanceOperator(n)
				So(errors.Is(err, ErrDimension), ShouldBeTrue)
			}
		})

		Convey("When it is 4", func() {
			op, err := NewResonanceOperator(4)
			So(err, ShouldBeNil)

			at := func(i, j int) float64 {
				v, err := op.At(i, j)
				So(err, ShouldBeNil)
				return v
			}

			Convey("Then the diagonal is one", func() {
				for i := range 4 {
					So(at(i, i), ShouldEqual, 1.0)
				}
			})

			Convey("Then off-diagonal entries follow sin(π(i+j)/n)/n", func() {
				So(at(1, 2), ShouldAlmostEqual, math.Sin(3*math.Pi/4)/4, 1e-12)
				So(at(0, 1), ShouldAlmostEqual, math.Sin(math.Pi/4)/4, 1e-12)
				So(at(1, 3), ShouldAlmostEqual, 0, 1e-12)
				So(at(2, 1), ShouldEqual, at(1, 2))
			})

			Convey("Then the convergence factor is 1/n", func() {
				So(op.Dimension(), ShouldEqual, 4)
				So(op.ConvergenceFactor(), ShouldEqual, 0.25)
			})

			Convey("Then out-of-range couplings are rejected", func() {
				_, err := op.At(4, 0)
				So(errors.Is(err, ErrVariableRange), ShouldBeTrue)
			})
		})
	})
}

func TestResonanceOperatorApply(t *testing.T) {
	Convey("Given the clause x0 ∨ x1 ∨ ¬x2", t, func() {
		state, err := EncodeSAT(3, [][]int{{1, 2, -3}})
		So(err, ShouldBeNil)
		op, err := NewResonanceOperator(3)
		So(err, ShouldBeNil)

		Convey("When the operator is applied to the all-false start", func() {
			next, err := op.Apply(state)
			So(err, ShouldBeNil)

			Convey("Then positive literals switch on and the negative one stays off", func() {
				So(next.Encoding(), ShouldResemble, []int{1, 1, 0})
			})

			Convey("Then amplitude and entropy decay by 1 - 1/n", func() {
				So(next.Amplitude(), ShouldAlmostEqual, 2.0/3.0, 1e-12)
				So(next.Entropy(), ShouldAlmostEqual, state.Entropy()*2/3, 1e-12)
			})

			Convey("Then the input snapshot is untouched", func() {
				So(state.Encoding(), ShouldResemble, []int{0, 0, 0})
				So(state.Amplitude(), ShouldEqual, 1.0)
			})
		})

		Convey("When applied repeatedly", func() {
			current := state
			for range 10 {
				next, err := op.Apply(current)
				So(err, ShouldBeNil)
				So(next.Amplitude(), ShouldBeLessThan, current.Amplitude())
				So(next.Entropy(), ShouldBeLessThan, current.Entropy())
				current = next
			}
		})

		Convey("When the dimensions disagree", func() {
			small, err := NewResonanceOperator(2)
			So(err, ShouldBeNil)

			_, err = small.Apply(state)
			So(errors.Is(err, ErrDimension), ShouldBeTrue)
		})
	})
}

func TestConstraintBias(t *testing.T) {
	Convey("Given a constraint that lists x0 twice", t, func() {
		state, err := Encode(ProblemSAT, []int{0, 1}, [][]int{{0, 0, 1, 1}, {0, 1, -1, -1}}, nil)
		So(err, ShouldBeNil)

		bias, err := constraintBias(state.constraints, 2)
		So(err, ShouldBeNil)

		Convey("Every position counts toward the mean", func() {
			So(bias[0], ShouldAlmostEqual, 1.0/3.0, 1e-12)
			So(bias[1], ShouldEqual, -1.0)
		})
	})
}
