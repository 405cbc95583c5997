package qcollapse

import (
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestReadDIMACS(t *testing.T) {
	Convey("Given a DIMACS stream", t, func() {
		Convey("When it has comments and a clause spanning lines", func() {
			input := "c example\np cnf 3 2\n1 -3 0\n2\n3 -1 0\n"
			cnf, err := ReadDIMACS(strings.NewReader(input))

			Convey("Then every clause is read in order", func() {
				So(err, ShouldBeNil)
				So(cnf.Variables, ShouldEqual, 3)
				So(cnf.Clauses, ShouldResemble, [][]int{{1, -3}, {2, 3, -1}})
			})

			Convey("Then it encodes as SAT", func() {
				state, err := cnf.Encode()
				So(err, ShouldBeNil)
				So(state.ProblemType(), ShouldEqual, ProblemSAT)
				So(state.Dimension(), ShouldEqual, 3)
				So(state.Constraints(), ShouldHaveLength, 2)
			})
		})

		Convey("When the final clause has no terminating 0", func() {
			cnf, err := ReadDIMACS(strings.NewReader("p cnf 2 1\n1 2\n"))
			So(err, ShouldBeNil)
			So(cnf.Clauses, ShouldResemble, [][]int{{1, 2}})
		})

		Convey("When the header is malformed", func() {
			_, err := ReadDIMACS(strings.NewReader("p dnf 2 1\n1 2 0\n"))
			So(errors.Is(err, ErrEncoding), ShouldBeTrue)
		})

		Convey("When the header is missing", func() {
			_, err := ReadDIMACS(strings.NewReader("c nothing here\n"))
			So(errors.Is(err, ErrEncoding), ShouldBeTrue)
		})

		Convey("When a clause comes before the header", func() {
			_, err := ReadDIMACS(strings.NewReader("1 2 0\np cnf 2 1\n"))
			So(errors.Is(err, ErrEncoding), ShouldBeTrue)
		})

		Convey("When the clause count disagrees with the header", func() {
			_, err := ReadDIMACS(strings.NewReader("p cnf 2 2\n1 2 0\n"))
			So(errors.Is(err, ErrEncoding), ShouldBeTrue)
		})

		Convey("When a literal names an undeclared variable", func() {
			_, err := ReadDIMACS(strings.NewReader("p cnf 2 1\n1 3 0\n"))
			So(errors.Is(err, ErrVariableRange), ShouldBeTrue)
		})

		Convey("When the header declares a negative variable count", func() {
			var err error
			So(func() { _, err = ReadDIMACS(strings.NewReader("p cnf -3 0\n")) }, ShouldNotPanic)
			So(errors.Is(err, ErrDimension), ShouldBeTrue)
		})

		Convey("When the header declares a negative clause count", func() {
			_, err := ReadDIMACS(strings.NewReader("p cnf 3 -1\n"))
			So(errors.Is(err, ErrEncoding), ShouldBeTrue)
		})

		Convey("When a literal is not a number", func() {
			_, err := ReadDIMACS(strings.NewReader("p cnf 2 1\n1 x 0\n"))
			So(errors.Is(err, ErrEncoding), ShouldBeTrue)
		})
	})
}
