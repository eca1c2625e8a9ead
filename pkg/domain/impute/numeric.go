package impute

import (
	xe "github.com/nycbus/imputecalls/pkg/errors"
)

// Interp linearly interpolates (xs, ys) at each target.
//
// xs must be ascending. Targets outside the observed range take the edge
// value.
func Interp(targets []float64, xs []float64, ys []float64) []float64 {
	out := make([]float64, len(targets))
	for nth, t := range targets {
		out[nth] = interpOne(t, xs, ys)
	}
	return out
}

func interpOne(t float64, xs []float64, ys []float64) float64 {
	if t <= xs[0] {
		return ys[0]
	}
	last := len(xs) - 1
	if xs[last] <= t {
		return ys[last]
	}

	// binary search for the segment holding t
	lo, hi := 0, last
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if xs[mid] <= t {
			lo = mid
		} else {
			hi = mid
		}
	}

	x0, x1 := xs[lo], xs[hi]
	y0, y1 := ys[lo], ys[hi]
	if x1 == x0 {
		return y0
	}
	return y0 + (y1-y0)*(t-x0)/(x1-x0)
}

// FitLine does a degree-1 least-squares fit of ys over xs.
//
// Fails when the xs carry no spread (a vertical line).
func FitLine(xs []float64, ys []float64) (slope float64, intercept float64, err error) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0, 0, xe.New("line fit needs at least 2 (x, y) pairs")
	}

	n := float64(len(xs))
	var sumX, sumY float64
	for nth := range xs {
		sumX += xs[nth]
		sumY += ys[nth]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX float64
	for nth := range xs {
		dx := xs[nth] - meanX
		cov += dx * (ys[nth] - meanY)
		varX += dx * dx
	}
	if varX == 0 {
		return 0, 0, xe.New("line fit is degenerate: no spread in x")
	}

	slope = cov / varX
	intercept = meanY - slope*meanX
	return slope, intercept, nil
}
