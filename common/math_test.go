package common

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestClampAndSign(t *testing.T) {
	cases := []struct {
		v, clamped, sign float64
	}{
		{-3, -1, -1},
		{-0.5, -0.5, -1},
		{0, 0, 0},
		{0.25, 0.25, 1},
		{7, 1, 1},
	}
	for _, c := range cases {
		if got := Clamp(c.v, -1, 1); got != c.clamped {
			t.Fatalf("Clamp(%v) = %v, want %v", c.v, got, c.clamped)
		}
		if got := Sign(c.v); got != c.sign {
			t.Fatalf("Sign(%v) = %v, want %v", c.v, got, c.sign)
		}
	}
}

func TestDirection(t *testing.T) {
	dir, dist, ok := Direction(cp.Vector{X: 1, Y: 1}, cp.Vector{X: 4, Y: 5})
	if !ok || dist != 5 {
		t.Fatalf("dist = %v ok = %v", dist, ok)
	}
	if math.Abs(dir.X-0.6) > 1e-12 || math.Abs(dir.Y-0.8) > 1e-12 {
		t.Fatalf("dir = %v", dir)
	}

	if _, _, ok := Direction(cp.Vector{X: 2, Y: 2}, cp.Vector{X: 2, Y: 2}); ok {
		t.Fatalf("coincident points should not have a direction")
	}
}
