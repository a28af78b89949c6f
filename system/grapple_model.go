package system

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/swingkit/component"
	"github.com/milk9111/swingkit/physics"
)

// anchorEpsilon is the distance under which the body is treated as sitting
// on the anchor and no direction exists.
const anchorEpsilon = 1e-6

// GrappleContext is what a grapple model needs for one step.
type GrappleContext struct {
	Body    physics.Body
	Gravity cp.Vector
	Config  *component.GrappleConfig
	State   *component.GrappleState
}

// GrappleModel applies tether physics while attached.
type GrappleModel interface {
	Name() component.GrappleModel
	Apply(ctx *GrappleContext)
}

// NewGrappleModel returns the model named by m.
func NewGrappleModel(m component.GrappleModel) (GrappleModel, error) {
	switch m {
	case component.GrappleModelConstraint, "":
		return ConstraintGrapple{}, nil
	case component.GrappleModelPull:
		return PullOnlyGrapple{}, nil
	default:
		return nil, fmt.Errorf("grapple model %q: %w", m, component.ErrInvalidConfig)
	}
}

// ConstraintGrapple keeps the body inside the tether circle, swings it with
// the tangential share of gravity and reels it in near full extension.
type ConstraintGrapple struct{}

func (ConstraintGrapple) Name() component.GrappleModel { return component.GrappleModelConstraint }

func (ConstraintGrapple) Apply(ctx *GrappleContext) {
	body, cfg, st := ctx.Body, ctx.Config, ctx.State
	defer applyDrag(body, cfg.AirDrag)

	toAnchor := st.Anchor.Sub(body.Position())
	dist := toAnchor.Length()
	if dist <= anchorEpsilon {
		return
	}
	n := toAnchor.Mult(1 / dist)
	tangent := n.Perp()

	if dist > st.TetherLength {
		body.SetPosition(st.Anchor.Sub(n.Mult(st.TetherLength)))
		v := body.Velocity()
		body.SetVelocity(tangent.Mult(v.Dot(tangent)))
	}

	weight := ctx.Gravity.Mult(body.Mass())
	body.ApplyForce(tangent.Mult(weight.Dot(tangent) * cfg.SwingForce))

	if dist > st.TetherLength*cfg.PullThreshold {
		body.ApplyForce(n.Mult(cfg.PullForce))
	}
}

// PullOnlyGrapple draws the body toward the anchor and damps motion away
// from it. It never constrains position.
type PullOnlyGrapple struct{}

func (PullOnlyGrapple) Name() component.GrappleModel { return component.GrappleModelPull }

func (PullOnlyGrapple) Apply(ctx *GrappleContext) {
	body, cfg, st := ctx.Body, ctx.Config, ctx.State
	defer applyDrag(body, cfg.AirDrag)

	toAnchor := st.Anchor.Sub(body.Position())
	dist := toAnchor.Length()
	if dist <= anchorEpsilon {
		return
	}
	n := toAnchor.Mult(1 / dist)
	body.ApplyForce(n.Mult(cfg.PullForce))

	v := body.Velocity()
	radial := v.Dot(n)
	if radial >= 0 {
		return
	}
	// Moving away from the anchor. The counter impulse is capped at the
	// outward speed so it can only cancel, never reverse.
	dv := math.Min(cfg.CounterImpulse*v.Length(), -radial)
	body.ApplyImpulse(n.Mult(dv * body.Mass()))
}

func applyDrag(body physics.Body, drag float64) {
	body.SetVelocity(body.Velocity().Mult(drag))
}
