package qcollapse

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSymbolicState(t *testing.T) {
	Convey("Given a freshly encoded state", t, func() {
		state, err := EncodeSAT(3, [][]int{{1, 2, -3}, {-1, 2}})
		So(err, ShouldBeNil)

		Convey("It starts all false with unit amplitude", func() {
			So(state.ProblemType(), ShouldEqual, ProblemSAT)
			So(state.Dimension(), ShouldEqual, 3)
			So(state.Variables(), ShouldResemble, []int{0, 1, 2})
			So(state.Encoding(), ShouldResemble, []int{0, 0, 0})
			So(state.Amplitude(), ShouldEqual, 1.0)
			So(state.Entropy(), ShouldAlmostEqual, math.Log2(1+2.0/3.0), 1e-12)
			So(state.Constraints(), ShouldHaveLength, 2)
		})

		Convey("WithEncoding returns a new snapshot", func() {
			next, err := state.WithEncoding([]int{0, 1, 0})
			So(err, ShouldBeNil)
			So(next.Encoding(), ShouldResemble, []int{0, 1, 0})
			So(state.Encoding(), ShouldResemble, []int{0, 0, 0})

			v, err := next.Value(1)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 1)

			_, err = next.Value(3)
			So(errors.Is(err, ErrVariableRange), ShouldBeTrue)
		})

		Convey("WithEncoding rejects a wrong length", func() {
			_, err := state.WithEncoding([]int{1})
			So(errors.Is(err, ErrDimension), ShouldBeTrue)
		})

		Convey("WithEncoding rejects non-boolean values", func() {
			_, err := state.WithEncoding([]int{0, 2, 0})
			So(errors.Is(err, ErrEncoding), ShouldBeTrue)
		})

		Convey("Quality is the satisfied fraction", func() {
			// x0=1, x1=0, x2=0 satisfies the first clause only.
			next, err := state.WithEncoding([]int{1, 0, 0})
			So(err, ShouldBeNil)

			quality, err := next.Quality()
			So(err, ShouldBeNil)
			So(quality, ShouldEqual, 0.5)
		})
	})

	Convey("Given a state without constraints", t, func() {
		state, err := Encode(ProblemSAT, []int{0, 1}, nil, nil)
		So(err, ShouldBeNil)

		Convey("Entropy is zero and quality is one", func() {
			So(state.Entropy(), ShouldEqual, 0)
			quality, err := state.Quality()
			So(err, ShouldBeNil)
			So(quality, ShouldEqual, 1.0)
		})
	})
}

func TestIsSatisfiedIdempotent(t *testing.T) {
	Convey("Given a fixed encoding", t, func() {
		state, err := EncodeSAT(2, [][]int{{1, 2}, {-1, 2}})
		So(err, ShouldBeNil)
		state, err = state.WithEncoding([]int{1, 1})
		So(err, ShouldBeNil)

		Convey("Checking twice gives the same answer and changes nothing", func() {
			first := IsSatisfied(state)
			second := IsSatisfied(state)

			So(first, ShouldBeTrue)
			So(second, ShouldEqual, first)
			So(state.Encoding(), ShouldResemble, []int{1, 1})
			So(state.Amplitude(), ShouldEqual, 1.0)
		})
	})
}
