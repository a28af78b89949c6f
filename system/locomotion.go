package system

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/swingkit/common"
	"github.com/milk9111/swingkit/component"
	"github.com/milk9111/swingkit/physics"
	"go.uber.org/zap"
)

var (
	down  = cp.Vector{X: 0, Y: -1}
	left  = cp.Vector{X: -1, Y: 0}
	right = cp.Vector{X: 1, Y: 0}
)

// moveDeadzone is the desired speed below which deceleration applies.
const moveDeadzone = 0.01

// Locomotion runs, jumps and detects ground and walls for one body.
type Locomotion struct {
	cfg    component.LocomotionConfig
	state  component.LocomotionState
	body   physics.Body
	space  physics.Space
	attach AttachQuery
	log    *zap.Logger

	lastJump component.JumpKind
}

func NewLocomotion(cfg component.LocomotionConfig, body physics.Body, space physics.Space, opts ...Option) (*Locomotion, error) {
	if body == nil {
		return nil, fmt.Errorf("locomotion: %w", ErrNilBody)
	}
	if space == nil {
		return nil, fmt.Errorf("locomotion: %w", ErrNilSpace)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("locomotion: %w", err)
	}
	o := buildOptions(opts)
	return &Locomotion{
		cfg:    cfg,
		state:  component.NewLocomotionState(),
		body:   body,
		space:  space,
		attach: o.attach,
		log:    o.log,
	}, nil
}

func (l *Locomotion) Name() string { return "locomotion" }

// Step resolves contacts, then applies run and jump unless a grapple is
// attached.
func (l *Locomotion) Step(t Tick, in component.Input) {
	l.lastJump = component.JumpNone

	l.detectGround(t)
	l.detectWalls()

	if in.JumpPressed {
		l.state.PendingJump = true
		l.state.LastJumpPressTime = t.Now
	}

	if l.attach != nil && l.attach.IsAttached() {
		l.state.PendingJump = false
		return
	}

	l.move(t, in.MoveX)
	l.jump(t)
}

func (l *Locomotion) detectGround(t Tick) {
	st := &l.state
	st.WasGroundedLastFrame = st.Grounded

	pos := l.body.Position()
	size := l.cfg.GroundCheckSize
	// The box rests on the feet line and sweeps down past it.
	origin := cp.Vector{X: pos.X, Y: pos.Y - l.cfg.FeetOffset + size.Y/2}
	_, hit := l.space.BoxCast(origin, size, down, l.cfg.GroundCheckDistance, l.cfg.GroundMask)

	st.Grounded = hit && l.body.Velocity().Y <= l.cfg.GroundedVelocityEpsilon
	if !st.Grounded {
		st.TimeSinceGrounded += t.DT
		return
	}

	st.TimeSinceGrounded = 0
	st.CoyoteArmed = true
	if !st.WasGroundedLastFrame {
		if st.AirJumpsUsed > 0 {
			l.log.Debug("landed", zap.Int("air_jumps_reset", st.AirJumpsUsed), zap.Uint64("tick", t.Index))
		}
		st.AirJumpsUsed = 0
	}
}

func (l *Locomotion) detectWalls() {
	pos := l.body.Position()
	dist := l.cfg.WallDetectionDistance
	hitL, okL := l.space.Raycast(pos, left, dist, l.cfg.WallMask)
	hitR, okR := l.space.Raycast(pos, right, dist, l.cfg.WallMask)

	// In a shaft both rays can hit; keep the nearer wall only.
	if okL && okR {
		if hitL.Distance <= hitR.Distance {
			okR = false
		} else {
			okL = false
		}
	}
	l.state.OnWallLeft = okL
	l.state.OnWallRight = okR
}

func (l *Locomotion) move(t Tick, axis float64) {
	axis = common.Clamp(axis, -1, 1)
	v := l.body.Velocity()

	if math.Abs(v.X) > l.cfg.MoveSpeed {
		v.X = common.Sign(v.X) * l.cfg.MoveSpeed
		l.body.SetVelocity(v)
	}

	desired := axis * l.cfg.MoveSpeed
	rate := l.cfg.Deceleration
	if math.Abs(desired) > moveDeadzone {
		rate = l.cfg.Acceleration
	}
	if !l.state.Grounded {
		rate *= l.cfg.AirControlMultiplier
	}

	diff := desired - v.X
	force := diff * rate
	// One integration step must not carry vx past the desired speed.
	if t.DT > 0 {
		limit := math.Abs(diff) * l.body.Mass() / t.DT
		if math.Abs(force) > limit {
			force = common.Sign(force) * limit
		}
	}
	if force != 0 {
		l.body.ApplyForce(cp.Vector{X: force, Y: 0})
	}
}

func (l *Locomotion) jump(t Tick) {
	st := &l.state
	if !st.PendingJump {
		return
	}
	if elapsed := t.Now - st.LastJumpPressTime; elapsed > 0 && elapsed >= l.cfg.JumpBufferTime {
		st.PendingJump = false
		return
	}

	kind := l.eligibleJump(t)
	if kind == component.JumpNone {
		return
	}
	l.performJump(t, kind)
	st.PendingJump = false
	st.LastJumpPressTime = math.Inf(-1)
}

// eligibleJump returns the jump the character may perform now, in priority
// order ground, coyote, wall, air.
func (l *Locomotion) eligibleJump(t Tick) component.JumpKind {
	st := l.state
	switch {
	case st.Grounded:
		return component.JumpGround
	case st.CoyoteArmed && st.TimeSinceGrounded < l.cfg.CoyoteTime:
		return component.JumpCoyote
	case st.OnWall() && t.Now-st.LastWallJumpTime >= l.cfg.WallJumpCooldown:
		return component.JumpWall
	case !st.OnWall() && st.AirJumpsUsed < l.cfg.MaxAirJumps:
		return component.JumpAir
	}
	return component.JumpNone
}

func (l *Locomotion) performJump(t Tick, kind component.JumpKind) {
	st := &l.state
	v := l.body.Velocity()

	if kind == component.JumpWall {
		away := 1.0
		if st.OnWallRight {
			away = -1
		}
		l.body.SetVelocity(cp.Vector{})
		l.body.ApplyImpulse(cp.Vector{X: away * l.cfg.WallJumpHorizontalForce, Y: l.cfg.WallJumpForce})
		st.LastWallJumpTime = t.Now
	} else {
		l.body.SetVelocity(cp.Vector{X: v.X, Y: 0})
		l.body.ApplyImpulse(cp.Vector{X: 0, Y: l.cfg.JumpForce})
		// Every airborne jump other than a wall jump spends a credit,
		// coyote jumps included.
		if kind == component.JumpAir || kind == component.JumpCoyote {
			st.AirJumpsUsed = min(st.AirJumpsUsed+1, l.cfg.MaxAirJumps)
		}
	}
	st.CoyoteArmed = false
	l.lastJump = kind

	l.log.Debug("jump",
		zap.Stringer("kind", kind),
		zap.Int("air_jumps_used", st.AirJumpsUsed),
		zap.Uint64("tick", t.Index))
}

// State returns a copy of the locomotion state.
func (l *Locomotion) State() component.LocomotionState {
	return l.state
}

func (l *Locomotion) Config() component.LocomotionConfig {
	return l.cfg
}

// SetConfig swaps tunables in place. Runtime state is kept; air jumps
// already spent beyond a lowered limit stay spent until landing.
func (l *Locomotion) SetConfig(cfg component.LocomotionConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("locomotion: %w", err)
	}
	l.cfg = cfg
	return nil
}

func (l *Locomotion) IsGrounded() bool {
	return l.state.Grounded
}

func (l *Locomotion) IsOnWall() bool {
	return l.state.OnWall()
}

func (l *Locomotion) RemainingAirJumps() int {
	return max(0, l.cfg.MaxAirJumps-l.state.AirJumpsUsed)
}

// LastJump reports the jump performed during the most recent step.
func (l *Locomotion) LastJump() component.JumpKind {
	return l.lastJump
}
