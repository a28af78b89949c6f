package component

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/swingkit/physics"
)

// LocomotionConfig holds run and jump tunables for one character.
type LocomotionConfig struct {
	MoveSpeed            float64
	Acceleration         float64
	Deceleration         float64
	AirControlMultiplier float64

	JumpForce      float64
	MaxAirJumps    int
	JumpBufferTime float64
	CoyoteTime     float64

	WallJumpForce           float64
	WallJumpHorizontalForce float64
	WallJumpCooldown        float64
	WallDetectionDistance   float64
	WallMask                physics.Layer

	// FeetOffset is the distance from the body position down to the feet.
	FeetOffset              float64
	GroundCheckDistance     float64
	GroundCheckSize         cp.Vector
	GroundedVelocityEpsilon float64
	GroundMask              physics.Layer
}

func DefaultLocomotionConfig() LocomotionConfig {
	return LocomotionConfig{
		MoveSpeed:            8,
		Acceleration:         50,
		Deceleration:         50,
		AirControlMultiplier: 0.6,

		JumpForce:      15,
		MaxAirJumps:    1,
		JumpBufferTime: 0.2,
		CoyoteTime:     0.15,

		WallJumpForce:           18,
		WallJumpHorizontalForce: 12,
		WallJumpCooldown:        0.2,
		WallDetectionDistance:   0.6,
		WallMask:                physics.LayerWall,

		FeetOffset:              0.5,
		GroundCheckDistance:     0.1,
		GroundCheckSize:         cp.Vector{X: 0.5, Y: 0.1},
		GroundedVelocityEpsilon: 0.1,
		GroundMask:              physics.LayerGround,
	}
}

func (c LocomotionConfig) Validate() error {
	switch {
	case c.MoveSpeed <= 0:
		return invalid("move_speed", "must be positive, got %v", c.MoveSpeed)
	case c.Acceleration < 0 || c.Deceleration < 0:
		return invalid("acceleration", "must not be negative")
	case c.AirControlMultiplier < 0 || c.AirControlMultiplier > 1:
		return invalid("air_control_multiplier", "must be in [0, 1], got %v", c.AirControlMultiplier)
	case c.JumpForce < 0 || c.WallJumpForce < 0 || c.WallJumpHorizontalForce < 0:
		return invalid("jump_force", "must not be negative")
	case c.MaxAirJumps < 0:
		return invalid("max_air_jumps", "must not be negative, got %d", c.MaxAirJumps)
	case c.JumpBufferTime < 0 || c.CoyoteTime < 0 || c.WallJumpCooldown < 0:
		return invalid("timing", "windows must not be negative")
	case c.WallDetectionDistance <= 0 || c.GroundCheckDistance <= 0:
		return invalid("detection", "distances must be positive")
	case c.GroundCheckSize.X <= 0 || c.GroundCheckSize.Y <= 0:
		return invalid("ground_check_size", "must be positive, got %v", c.GroundCheckSize)
	}
	return nil
}

// LocomotionState is owned by the locomotion controller.
type LocomotionState struct {
	Grounded             bool
	WasGroundedLastFrame bool
	TimeSinceGrounded    float64
	// CoyoteArmed is set while grounded and cleared by any jump, so a coyote
	// jump can happen at most once per ledge.
	CoyoteArmed  bool
	AirJumpsUsed int

	OnWallLeft  bool
	OnWallRight bool

	LastWallJumpTime  float64
	LastJumpPressTime float64
	PendingJump       bool
}

func NewLocomotionState() LocomotionState {
	return LocomotionState{
		LastWallJumpTime:  math.Inf(-1),
		LastJumpPressTime: math.Inf(-1),
	}
}

func (s LocomotionState) OnWall() bool {
	return s.OnWallLeft || s.OnWallRight
}

// JumpKind identifies how a jump was resolved.
type JumpKind int

const (
	JumpNone JumpKind = iota
	JumpGround
	JumpCoyote
	JumpWall
	JumpAir
)

func (k JumpKind) String() string {
	switch k {
	case JumpGround:
		return "ground"
	case JumpCoyote:
		return "coyote"
	case JumpWall:
		return "wall"
	case JumpAir:
		return "air"
	}
	return "none"
}
