package component

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestLocomotionConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*LocomotionConfig)
		ok     bool
	}{
		{"defaults", func(*LocomotionConfig) {}, true},
		{"zero_speed", func(c *LocomotionConfig) { c.MoveSpeed = 0 }, false},
		{"negative_accel", func(c *LocomotionConfig) { c.Acceleration = -1 }, false},
		{"air_control_above_one", func(c *LocomotionConfig) { c.AirControlMultiplier = 1.5 }, false},
		{"negative_air_jumps", func(c *LocomotionConfig) { c.MaxAirJumps = -1 }, false},
		{"no_air_jumps", func(c *LocomotionConfig) { c.MaxAirJumps = 0 }, true},
		{"negative_coyote", func(c *LocomotionConfig) { c.CoyoteTime = -0.1 }, false},
		{"zero_wall_distance", func(c *LocomotionConfig) { c.WallDetectionDistance = 0 }, false},
		{"flat_probe", func(c *LocomotionConfig) { c.GroundCheckSize = cp.Vector{X: 0.5} }, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultLocomotionConfig()
			c.mutate(&cfg)
			err := cfg.Validate()
			if c.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !c.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestGrappleConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*GrappleConfig)
		ok     bool
	}{
		{"defaults", func(*GrappleConfig) {}, true},
		{"pull_model", func(c *GrappleConfig) { c.Model = GrappleModelPull }, true},
		{"unknown_model", func(c *GrappleConfig) { c.Model = "rope" }, false},
		{"zero_range", func(c *GrappleConfig) { c.Range = 0 }, false},
		{"min_above_max", func(c *GrappleConfig) { c.MinLength, c.MaxLength = 9, 8 }, false},
		{"fixed_length", func(c *GrappleConfig) { c.MinLength, c.MaxLength = 5, 5 }, true},
		{"momentum_below_one", func(c *GrappleConfig) { c.MomentumMultiplier = 0.9 }, false},
		{"momentum_exactly_one", func(c *GrappleConfig) { c.MomentumMultiplier = 1 }, false},
		{"zero_drag", func(c *GrappleConfig) { c.AirDrag = 0 }, false},
		{"threshold_above_one", func(c *GrappleConfig) { c.PullThreshold = 1.2 }, false},
		{"negative_pull", func(c *GrappleConfig) { c.PullForce = -1 }, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultGrappleConfig()
			c.mutate(&cfg)
			err := cfg.Validate()
			if c.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !c.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestGrappleClampLength(t *testing.T) {
	cfg := DefaultGrappleConfig()
	for in, want := range map[float64]float64{0.5: 2, 2: 2, 5: 5, 8: 8, 12: 8} {
		if got := cfg.ClampLength(in); got != want {
			t.Fatalf("ClampLength(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLocomotionState(t *testing.T) {
	s := NewLocomotionState()
	if !math.IsInf(s.LastWallJumpTime, -1) || !math.IsInf(s.LastJumpPressTime, -1) {
		t.Fatalf("timestamps should start at -Inf: %+v", s)
	}
	if s.OnWall() || s.PendingJump || s.Grounded {
		t.Fatalf("fresh state should be neutral: %+v", s)
	}
	s.OnWallRight = true
	if !s.OnWall() {
		t.Fatalf("OnWall should include the right side")
	}
}

func TestJumpKindString(t *testing.T) {
	for kind, want := range map[JumpKind]string{
		JumpNone: "none", JumpGround: "ground", JumpCoyote: "coyote", JumpWall: "wall", JumpAir: "air",
	} {
		if got := kind.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}
