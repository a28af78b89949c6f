package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/swingkit/physics"
)

// GrappleModel selects the force model used while attached.
type GrappleModel string

const (
	// GrappleModelConstraint clamps the character to the tether circle and
	// swings it like a pendulum.
	GrappleModelConstraint GrappleModel = "constraint"
	// GrappleModelPull only pulls toward the anchor and damps motion that
	// fights the tether.
	GrappleModelPull GrappleModel = "pull"
)

// GrappleConfig holds grapple tunables for one character.
type GrappleConfig struct {
	Model GrappleModel

	Range       float64
	GrappleMask physics.Layer

	SwingForce float64
	PullForce  float64
	// PullThreshold is the fraction of the tether length past which the
	// constraint model adds inward pull.
	PullThreshold float64
	// CounterImpulse scales the pull model's damping impulse by speed.
	CounterImpulse float64

	MinLength          float64
	MaxLength          float64
	ScrollSensitivity  float64
	MomentumMultiplier float64
	AirDrag            float64
}

func DefaultGrappleConfig() GrappleConfig {
	return GrappleConfig{
		Model:              GrappleModelConstraint,
		Range:              10,
		GrappleMask:        physics.LayerGrapple,
		SwingForce:         15,
		PullForce:          25,
		PullThreshold:      0.8,
		CounterImpulse:     0.5,
		MinLength:          2,
		MaxLength:          8,
		ScrollSensitivity:  2,
		MomentumMultiplier: 1.5,
		AirDrag:            0.98,
	}
}

func (c GrappleConfig) Validate() error {
	switch {
	case c.Model != GrappleModelConstraint && c.Model != GrappleModelPull:
		return invalid("model", "unknown grapple model %q", c.Model)
	case c.Range <= 0:
		return invalid("range", "must be positive, got %v", c.Range)
	case c.MinLength <= 0 || c.MaxLength < c.MinLength:
		return invalid("length", "need 0 < min <= max, got [%v, %v]", c.MinLength, c.MaxLength)
	case c.MomentumMultiplier <= 1:
		return invalid("momentum_multiplier", "must be > 1, got %v", c.MomentumMultiplier)
	case c.AirDrag <= 0 || c.AirDrag > 1:
		return invalid("air_drag", "must be in (0, 1], got %v", c.AirDrag)
	case c.PullThreshold < 0 || c.PullThreshold > 1:
		return invalid("pull_threshold", "must be in [0, 1], got %v", c.PullThreshold)
	case c.SwingForce < 0 || c.PullForce < 0 || c.CounterImpulse < 0:
		return invalid("forces", "must not be negative")
	}
	return nil
}

// ClampLength clamps a tether length to the configured range.
func (c GrappleConfig) ClampLength(l float64) float64 {
	if l < c.MinLength {
		return c.MinLength
	}
	if l > c.MaxLength {
		return c.MaxLength
	}
	return l
}

// GrappleState is owned by the grapple controller. Anchor never changes
// while Attached.
type GrappleState struct {
	Attached     bool
	Anchor       cp.Vector
	TetherLength float64
	AttachTime   float64
}
