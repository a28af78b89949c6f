package main

import (
	"math"

	"github.com/jakecoffman/cp"
)

const cameraMargin = 0.95

// camera maps Y-up world units to Y-down screen pixels. It is fitted once to
// the level bounds.
type camera struct {
	scale      float64
	offX, offY float64
}

func fitCamera(bounds cp.BB, width, height float64) camera {
	bw, bh := bounds.R-bounds.L, bounds.T-bounds.B
	if bw <= 0 || bh <= 0 {
		return camera{scale: 1, offY: height}
	}
	scale := math.Min(width/bw, height/bh) * cameraMargin
	return camera{
		scale: scale,
		offX:  (width-bw*scale)/2 - bounds.L*scale,
		offY:  height - (height-bh*scale)/2 + bounds.B*scale,
	}
}

func (c camera) toScreen(v cp.Vector) (float64, float64) {
	return c.offX + v.X*c.scale, c.offY - v.Y*c.scale
}

func (c camera) toWorld(x, y float64) cp.Vector {
	return cp.Vector{X: (x - c.offX) / c.scale, Y: (c.offY - y) / c.scale}
}
