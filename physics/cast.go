package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	// boxCastRays is the number of parallel segments used to sweep a box.
	boxCastRays = 3
	// boxCastSkin starts each segment behind the box so resting contacts
	// that sink within the solver's slop are still found.
	boxCastSkin = 0.25
)

func queryFilter(mask Layer) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
}

// Raycast returns the first shape on any layer in mask along dir, up to
// maxDistance from origin.
func (w *World) Raycast(origin, dir cp.Vector, maxDistance float64, mask Layer) (Hit, bool) {
	if w == nil || w.space == nil || maxDistance <= 0 || mask == LayerNone {
		return Hit{}, false
	}
	l := dir.Length()
	if l <= 1e-9 {
		return Hit{}, false
	}
	dir = dir.Mult(1 / l)

	end := origin.Add(dir.Mult(maxDistance))
	info := w.space.SegmentQueryFirst(origin, end, 0, queryFilter(mask))
	if info.Shape == nil {
		return Hit{}, false
	}
	return Hit{
		Point:    info.Point,
		Normal:   info.Normal,
		Distance: info.Alpha * maxDistance,
		Layers:   w.shapeLayers[info.Shape],
	}, true
}

// BoxCast sweeps an axis-aligned box of the given size, centred on origin,
// along dir. The sweep is approximated by parallel segments across the
// box's leading face; a box that already overlaps reports distance 0.
func (w *World) BoxCast(origin, size, dir cp.Vector, maxDistance float64, mask Layer) (Hit, bool) {
	if w == nil || w.space == nil || maxDistance < 0 || mask == LayerNone {
		return Hit{}, false
	}
	l := dir.Length()
	if l <= 1e-9 {
		return Hit{}, false
	}
	dir = dir.Mult(1 / l)
	perp := dir.Perp()

	hw, hh := size.X/2, size.Y/2
	along := math.Abs(dir.X)*hw + math.Abs(dir.Y)*hh
	across := math.Abs(perp.X)*hw + math.Abs(perp.Y)*hh

	back := along + boxCastSkin
	total := back + along + maxDistance
	filter := queryFilter(mask)

	best := Hit{}
	found := false
	for i := 0; i < boxCastRays; i++ {
		t := -1 + 2*float64(i)/float64(boxCastRays-1)
		start := origin.Add(perp.Mult(t * across)).Sub(dir.Mult(back))
		end := start.Add(dir.Mult(total))
		info := w.space.SegmentQueryFirst(start, end, 0, filter)
		if info.Shape == nil {
			continue
		}
		dist := math.Max(0, info.Alpha*total-back-along)
		if found && dist >= best.Distance {
			continue
		}
		best = Hit{
			Point:    info.Point,
			Normal:   info.Normal,
			Distance: dist,
			Layers:   w.shapeLayers[info.Shape],
		}
		found = true
	}
	return best, found
}
