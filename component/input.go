package component

import "github.com/jakecoffman/cp"

// Input is the per-tick input drained from the sampler. Pressed fields are
// edges latched since the previous tick; MoveX and Pointer are the latest
// held values; Scroll is the sum of scroll deltas since the previous tick.
type Input struct {
	MoveX          float64
	JumpPressed    bool
	AttachPressed  bool
	ReleasePressed bool
	Scroll         float64
	Pointer        cp.Vector
}
