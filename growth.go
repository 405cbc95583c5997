package qcollapse

import (
	"fmt"
	"math"
)

// GrowthModel is a candidate runtime scaling law.
type GrowthModel int

const (
	GrowthLogarithmic GrowthModel = iota
	GrowthLinear
	GrowthQuadratic
	GrowthCubic
)

// growthModels is ordered slowest first, so equal fits resolve to the slower law.
var growthModels = []GrowthModel{GrowthLogarithmic, GrowthLinear, GrowthQuadratic, GrowthCubic}

func (g GrowthModel) String() string {
	switch g {
	case GrowthLogarithmic:
		return "O(log n)"
	case GrowthLinear:
		return "O(n)"
	case GrowthQuadratic:
		return "O(n^2)"
	case GrowthCubic:
		return "O(n^3)"
	default:
		return "unknown"
	}
}

// Exponent is the polynomial degree of the model, 0 for logarithmic.
func (g GrowthModel) Exponent() float64 {
	switch g {
	case GrowthLinear:
		return 1
	case GrowthQuadratic:
		return 2
	case GrowthCubic:
		return 3
	default:
		return 0
	}
}

func (g GrowthModel) transform(n float64) float64 {
	switch g {
	case GrowthLogarithmic:
		return math.Log(n)
	case GrowthLinear:
		return n
	case GrowthQuadratic:
		return n * n
	default:
		return n * n * n
	}
}

// GrowthPoint is one measured (size, seconds) pair.
type GrowthPoint struct {
	Size int
	Time float64
}

// ModelFit is the least squares line time = Intercept + Slope*f(n) for one model.
type ModelFit struct {
	Model     GrowthModel
	Slope     float64
	Intercept float64
	RSquared  float64
}

/*
GrowthFit classifies empirical scaling.

Model is the candidate with the highest R² when time is regressed on f(n).
LogLogExponent is the slope of log(time) against log(n), an independent
estimate of the degree that is only meaningful when every time is positive.
*/
type GrowthFit struct {
	Model          GrowthModel
	Exponent       float64
	RSquared       float64
	LogLogExponent float64
	Candidates     []ModelFit
}

/*
FitGrowth runs ordinary least squares for every candidate model and keeps the
best fit. Needs at least three points over at least two distinct sizes; sizes
must be positive.
*/
func FitGrowth(points []GrowthPoint) (GrowthFit, error) {
	if len(points) < 3 {
		return GrowthFit{}, fmt.Errorf("need at least 3 data points, got %d: %w", len(points), ErrInsufficientData)
	}

	distinct := make(map[int]struct{})
	for _, p := range points {
		if p.Size <= 0 {
			return GrowthFit{}, fmt.Errorf("size %d: %w", p.Size, ErrDimension)
		}
		distinct[p.Size] = struct{}{}
	}
	if len(distinct) < 2 {
		return GrowthFit{}, fmt.Errorf("need at least 2 distinct sizes, got %d: %w", len(distinct), ErrInsufficientData)
	}

	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Time
	}

	fit := GrowthFit{RSquared: math.Inf(-1)}
	for _, model := range growthModels {
		xs := make([]float64, len(points))
		for i, p := range points {
			xs[i] = model.transform(float64(p.Size))
		}

		slope, intercept, r2 := leastSquares(xs, ys)
		candidate := ModelFit{Model: model, Slope: slope, Intercept: intercept, RSquared: r2}
		fit.Candidates = append(fit.Candidates, candidate)

		if r2 > fit.RSquared {
			fit.Model, fit.Exponent, fit.RSquared = model, model.Exponent(), r2
		}
	}

	fit.LogLogExponent = math.NaN()
	logX := make([]float64, 0, len(points))
	logY := make([]float64, 0, len(points))
	for _, p := range points {
		if p.Time > 0 {
			logX = append(logX, math.Log(float64(p.Size)))
			logY = append(logY, math.Log(p.Time))
		}
	}
	if len(logX) == len(points) {
		fit.LogLogExponent, _, _ = leastSquares(logX, logY)
	}

	return fit, nil
}

/*
leastSquares fits y = intercept + slope*x. When every y is equal the line is
exact and R² is reported as 1; when every x is equal the slope is 0.
*/
func leastSquares(xs, ys []float64) (slope, intercept, rSquared float64) {
	n := float64(len(xs))
	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= n
	meanY /= n

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}

	if sxx > 0 {
		slope = sxy / sxx
	}
	intercept = meanY - slope*meanX

	var ssRes, ssTot float64
	for i := range xs {
		predicted := intercept + slope*xs[i]
		ssRes += (ys[i] - predicted) * (ys[i] - predicted)
		ssTot += (ys[i] - meanY) * (ys[i] - meanY)
	}

	if ssTot == 0 {
		return slope, intercept, 1
	}
	return slope, intercept, 1 - ssRes/ssTot
}
