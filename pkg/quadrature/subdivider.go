package quadrature

import (
	"integral-solver/internal/domain"
	"math"
)

// Decision is the outcome of examining one interval.
type Decision struct {
	Accepted bool
	// Area is the whole-interval estimate, set only when Accepted.
	Area float64
	// Left and Right replace the interval when it is refined.
	Left, Right domain.Interval
}

type Subdivider struct {
	f         domain.Integrand
	tolerance float64
	minWidth  float64
}

func NewSubdivider(f domain.Integrand, tolerance, minWidth float64) *Subdivider {
	return &Subdivider{
		f:         f,
		tolerance: tolerance,
		minWidth:  minWidth,
	}
}

// Split compares the whole-interval estimate with the sum of both halves.
// The interval is accepted when they agree within the tolerance or when it is
// already no wider than the width floor; otherwise it is replaced by its halves.
func (s *Subdivider) Split(iv domain.Interval) Decision {
	mid := (iv.A + iv.B) / 2
	fa, fm, fb := s.f(iv.A), s.f(mid), s.f(iv.B)

	whole := Estimate(iv.A, iv.B, fa, fb)
	left := Estimate(iv.A, mid, fa, fm)
	right := Estimate(mid, iv.B, fm, fb)

	diff := math.Abs(whole - (left + right))
	if diff <= s.tolerance || math.Abs(iv.Width()) <= s.minWidth {
		return Decision{Accepted: true, Area: whole}
	}

	l, r := iv.Halves()
	return Decision{Left: l, Right: r}
}

// Integrate refines iv by direct recursion on the calling goroutine.
func (s *Subdivider) Integrate(iv domain.Interval) float64 {
	var stats domain.Stats
	return s.IntegrateWithStats(iv, &stats)
}

// IntegrateWithStats is Integrate that also counts every examined interval
// into stats.
func (s *Subdivider) IntegrateWithStats(iv domain.Interval, stats *domain.Stats) float64 {
	stats.Takes++
	d := s.Split(iv)
	if d.Accepted {
		stats.RecordCommit(iv.Depth)
		return d.Area
	}

	stats.Refines++
	return s.IntegrateWithStats(d.Left, stats) + s.IntegrateWithStats(d.Right, stats)
}

// MaxDepth returns how many halvings it takes to bring width down to
// minWidth, which bounds the depth of any accepted interval.
func MaxDepth(width, minWidth float64) int {
	if !(minWidth > 0) {
		return -1
	}

	depth := 0
	for w := math.Abs(width); w > minWidth; w /= 2 {
		depth++
	}
	return depth
}
