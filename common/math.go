package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Direction returns the unit vector from a to b and the distance between
// them. ok is false when the points coincide.
func Direction(a, b cp.Vector) (dir cp.Vector, dist float64, ok bool) {
	d := b.Sub(a)
	dist = d.Length()
	if dist <= 1e-9 || math.IsNaN(dist) {
		return cp.Vector{}, 0, false
	}
	return d.Mult(1 / dist), dist, true
}
