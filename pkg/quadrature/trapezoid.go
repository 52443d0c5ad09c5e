package quadrature

import (
	"gonum.org/v1/gonum/integrate"
)

// Estimate returns the trapezoid-rule area under f between a and b, given
// fa = f(a) and fb = f(b):
//
//	(fa + fb) / 2 * (b - a)
//
// a must not exceed b. Non-finite samples propagate into the result.
func Estimate(a, b, fa, fb float64) float64 {
	x := [2]float64{a, b}
	f := [2]float64{fa, fb}
	return integrate.Trapezoidal(x[:], f[:])
}
