package system

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/swingkit/common"
	"github.com/milk9111/swingkit/component"
	"github.com/milk9111/swingkit/physics"
	"go.uber.org/zap"
)

// Grapple attaches a tether to geometry under the pointer and drives the
// body with a GrappleModel while attached.
type Grapple struct {
	cfg   component.GrappleConfig
	state component.GrappleState
	body  physics.Body
	space physics.Space
	model GrappleModel
	log   *zap.Logger
}

func NewGrapple(cfg component.GrappleConfig, body physics.Body, space physics.Space, opts ...Option) (*Grapple, error) {
	if body == nil {
		return nil, fmt.Errorf("grapple: %w", ErrNilBody)
	}
	if space == nil {
		return nil, fmt.Errorf("grapple: %w", ErrNilSpace)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("grapple: %w", err)
	}
	model, err := NewGrappleModel(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("grapple: %w", err)
	}
	o := buildOptions(opts)
	return &Grapple{
		cfg:   cfg,
		body:  body,
		space: space,
		model: model,
		log:   o.log,
	}, nil
}

func (g *Grapple) Name() string { return "grapple" }

// Step handles attach, release and scroll for this tick and then applies the
// tether model. Whether the press is an attach or a release is decided by
// the state at the start of the step.
func (g *Grapple) Step(t Tick, in component.Input) {
	if g.state.Attached {
		if in.ReleasePressed {
			g.Release()
			return
		}
	} else if in.AttachPressed {
		g.TryAttach(t, in.Pointer)
	}

	if !g.state.Attached {
		return
	}
	if in.Scroll != 0 {
		g.AdjustLength(in.Scroll * g.cfg.ScrollSensitivity)
	}
	g.model.Apply(&GrappleContext{
		Body:    g.body,
		Gravity: g.space.Gravity(),
		Config:  &g.cfg,
		State:   &g.state,
	})
}

// TryAttach casts from the body toward target and attaches at the first
// grapple surface within range. It returns false when already attached,
// when target is the body's own position or when nothing is hit.
func (g *Grapple) TryAttach(t Tick, target cp.Vector) bool {
	if g.state.Attached {
		return false
	}
	pos := g.body.Position()
	dir, _, ok := common.Direction(pos, target)
	if !ok {
		return false
	}
	hit, ok := g.space.Raycast(pos, dir, g.cfg.Range, g.cfg.GrappleMask)
	if !ok {
		g.log.Debug("grapple missed",
			zap.Float64("dir_x", dir.X), zap.Float64("dir_y", dir.Y),
			zap.Uint64("tick", t.Index))
		return false
	}

	dist := hit.Point.Distance(pos)
	g.state = component.GrappleState{
		Attached:     true,
		Anchor:       hit.Point,
		TetherLength: g.cfg.ClampLength(dist),
		AttachTime:   t.Now,
	}
	g.log.Debug("grapple attached",
		zap.Float64("anchor_x", hit.Point.X), zap.Float64("anchor_y", hit.Point.Y),
		zap.Float64("tether", g.state.TetherLength),
		zap.Uint64("tick", t.Index))
	return true
}

// Release detaches and scales the body's velocity by the momentum
// multiplier. It is a no-op when not attached.
func (g *Grapple) Release() bool {
	if !g.state.Attached {
		return false
	}
	v := g.body.Velocity().Mult(g.cfg.MomentumMultiplier)
	g.body.SetVelocity(v)

	away, _, _ := common.Direction(g.state.Anchor, g.body.Position())
	g.log.Debug("grapple released",
		zap.Float64("vx", v.X), zap.Float64("vy", v.Y),
		zap.Float64("away_x", away.X), zap.Float64("away_y", away.Y))

	g.state = component.GrappleState{}
	return true
}

// Interrupt drops the tether without a momentum boost.
func (g *Grapple) Interrupt() {
	if !g.state.Attached {
		return
	}
	g.log.Debug("grapple interrupted")
	g.state = component.GrappleState{}
}

// AdjustLength changes the tether by delta, clamped to the configured
// bounds.
func (g *Grapple) AdjustLength(delta float64) {
	if !g.state.Attached {
		return
	}
	g.state.TetherLength = g.cfg.ClampLength(g.state.TetherLength + delta)
}

func (g *Grapple) IsAttached() bool {
	return g.state.Attached
}

// Anchor returns the attach point and whether one exists.
func (g *Grapple) Anchor() (cp.Vector, bool) {
	return g.state.Anchor, g.state.Attached
}

func (g *Grapple) TetherLength() float64 {
	return g.state.TetherLength
}

func (g *Grapple) State() component.GrappleState {
	return g.state
}

func (g *Grapple) Config() component.GrappleConfig {
	return g.cfg
}

// SetConfig swaps tunables and the force model. An attached tether is
// re-clamped to the new length bounds.
func (g *Grapple) SetConfig(cfg component.GrappleConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("grapple: %w", err)
	}
	model, err := NewGrappleModel(cfg.Model)
	if err != nil {
		return fmt.Errorf("grapple: %w", err)
	}
	g.cfg = cfg
	g.model = model
	if g.state.Attached {
		g.state.TetherLength = cfg.ClampLength(g.state.TetherLength)
	}
	return nil
}

func (g *Grapple) Model() GrappleModel {
	return g.model
}
