package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/swingkit/physics"
)

const testDT = 0.02

type fakeBody struct {
	pos      cp.Vector
	vel      cp.Vector
	mass     float64
	force    cp.Vector
	forces   []cp.Vector
	impulses []cp.Vector
}

func newFakeBody(pos cp.Vector) *fakeBody {
	return &fakeBody{pos: pos, mass: 1}
}

func (b *fakeBody) Position() cp.Vector     { return b.pos }
func (b *fakeBody) SetPosition(p cp.Vector) { b.pos = p }
func (b *fakeBody) Velocity() cp.Vector     { return b.vel }
func (b *fakeBody) SetVelocity(v cp.Vector) { b.vel = v }
func (b *fakeBody) Mass() float64           { return b.mass }

func (b *fakeBody) ApplyForce(f cp.Vector) {
	b.force = b.force.Add(f)
	b.forces = append(b.forces, f)
}

func (b *fakeBody) ApplyImpulse(j cp.Vector) {
	b.vel = b.vel.Add(j.Mult(1 / b.mass))
	b.impulses = append(b.impulses, j)
}

// integrate stands in for the engine step: semi-implicit Euler with the
// accumulated force, then clears the accumulator.
func (b *fakeBody) integrate(gravity cp.Vector, dt float64) {
	accel := b.force.Mult(1 / b.mass).Add(gravity)
	b.vel = b.vel.Add(accel.Mult(dt))
	b.pos = b.pos.Add(b.vel.Mult(dt))
	b.force = cp.Vector{}
	b.forces = nil
	b.impulses = nil
}

type rayCall struct {
	origin, dir cp.Vector
	max         float64
	mask        physics.Layer
}

type fakeSpace struct {
	gravity cp.Vector

	ground bool
	// Distances to walls; zero means no wall on that side.
	wallLeft  float64
	wallRight float64

	// grappleAt is the attach point returned for grapple-mask rays when
	// grappleHit is set.
	grappleHit bool
	grappleAt  cp.Vector

	rays  []rayCall
	boxes []rayCall
}

func (s *fakeSpace) Gravity() cp.Vector { return s.gravity }

func (s *fakeSpace) Raycast(origin, dir cp.Vector, maxDistance float64, mask physics.Layer) (physics.Hit, bool) {
	s.rays = append(s.rays, rayCall{origin: origin, dir: dir, max: maxDistance, mask: mask})
	switch {
	case mask.Has(physics.LayerGrapple):
		if !s.grappleHit {
			return physics.Hit{}, false
		}
		d := s.grappleAt.Distance(origin)
		if d > maxDistance {
			return physics.Hit{}, false
		}
		return physics.Hit{Point: s.grappleAt, Distance: d, Layers: physics.LayerGrapple}, true
	case mask.Has(physics.LayerWall) && dir.X < 0:
		return wallHit(origin, -1, s.wallLeft, maxDistance)
	case mask.Has(physics.LayerWall) && dir.X > 0:
		return wallHit(origin, 1, s.wallRight, maxDistance)
	}
	return physics.Hit{}, false
}

func wallHit(origin cp.Vector, side, dist, maxDistance float64) (physics.Hit, bool) {
	if dist <= 0 || dist > maxDistance {
		return physics.Hit{}, false
	}
	return physics.Hit{
		Point:    cp.Vector{X: origin.X + side*dist, Y: origin.Y},
		Normal:   cp.Vector{X: -side, Y: 0},
		Distance: dist,
		Layers:   physics.LayerWall,
	}, true
}

func (s *fakeSpace) BoxCast(origin, size, dir cp.Vector, maxDistance float64, mask physics.Layer) (physics.Hit, bool) {
	s.boxes = append(s.boxes, rayCall{origin: origin, dir: dir, max: maxDistance, mask: mask})
	if !s.ground || !mask.Has(physics.LayerGround) {
		return physics.Hit{}, false
	}
	return physics.Hit{
		Point:    cp.Vector{X: origin.X, Y: origin.Y - size.Y/2},
		Normal:   cp.Vector{X: 0, Y: 1},
		Distance: 0,
		Layers:   physics.LayerGround,
	}, true
}

type attachFlag bool

func (a *attachFlag) IsAttached() bool { return bool(*a) }

func tickAt(i int) Tick {
	return Tick{Index: uint64(i), Now: float64(i) * testDT, DT: testDT}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func approxVec(a, b cp.Vector) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y)
}
