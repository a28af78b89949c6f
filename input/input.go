package input

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/swingkit/common"
	"github.com/milk9111/swingkit/component"
)

type Action string

const (
	ActionJump    Action = "jump"
	ActionAttach  Action = "attach"
	ActionRelease Action = "release"
)

const AxisHorizontal = "horizontal"

// Source is polled once per rendered frame. Pressed is edge triggered:
// it reports true only on the frame the action went down.
type Source interface {
	Axis(name string) float64
	Pressed(a Action) bool
	Scroll() float64
	// Pointer is the aim point in world coordinates.
	Pointer() cp.Vector
}

// Sampler decouples per-frame polling from fixed steps. Edges and scroll
// collected across frames are held until the next Drain; the axis and
// pointer always carry the latest sample.
type Sampler struct {
	pending component.Input
}

func NewSampler() *Sampler {
	return &Sampler{}
}

func (s *Sampler) Sample(src Source) {
	if src == nil {
		return
	}
	s.pending.MoveX = common.Clamp(src.Axis(AxisHorizontal), -1, 1)
	s.pending.Pointer = src.Pointer()
	s.pending.Scroll += src.Scroll()
	if src.Pressed(ActionJump) {
		s.pending.JumpPressed = true
	}
	if src.Pressed(ActionAttach) {
		s.pending.AttachPressed = true
	}
	if src.Pressed(ActionRelease) {
		s.pending.ReleasePressed = true
	}
}

// Drain returns the input for one fixed step and clears the latched edges.
func (s *Sampler) Drain() component.Input {
	in := s.pending
	s.pending = component.Input{
		MoveX:   in.MoveX,
		Pointer: in.Pointer,
	}
	return in
}

// Peek returns the pending input without consuming it.
func (s *Sampler) Peek() component.Input {
	return s.pending
}
