package system

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/swingkit/component"
	"github.com/milk9111/swingkit/physics"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestLocomotion(t *testing.T, cfg component.LocomotionConfig, space *fakeSpace, opts ...Option) (*Locomotion, *fakeBody) {
	t.Helper()
	body := newFakeBody(cp.Vector{X: 0, Y: 2})
	loco, err := NewLocomotion(cfg, body, space, opts...)
	if err != nil {
		t.Fatalf("NewLocomotion: %v", err)
	}
	return loco, body
}

func press() component.Input {
	return component.Input{JumpPressed: true}
}

func TestNewLocomotionErrors(t *testing.T) {
	bad := component.DefaultLocomotionConfig()
	bad.MoveSpeed = 0

	cases := []struct {
		name  string
		cfg   component.LocomotionConfig
		body  physics.Body
		space physics.Space
		want  error
	}{
		{"nil_body", component.DefaultLocomotionConfig(), nil, &fakeSpace{}, ErrNilBody},
		{"nil_space", component.DefaultLocomotionConfig(), newFakeBody(cp.Vector{}), nil, ErrNilSpace},
		{"invalid_config", bad, newFakeBody(cp.Vector{}), &fakeSpace{}, component.ErrInvalidConfig},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewLocomotion(c.cfg, c.body, c.space)
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestLocomotionGroundCheckGeometry(t *testing.T) {
	space := &fakeSpace{}
	loco, _ := newTestLocomotion(t, component.DefaultLocomotionConfig(), space)
	loco.Step(tickAt(0), component.Input{})

	if len(space.boxes) != 1 {
		t.Fatalf("expected one box cast, got %d", len(space.boxes))
	}
	got := space.boxes[0]
	if !approxVec(got.origin, cp.Vector{X: 0, Y: 1.55}) {
		t.Fatalf("box origin = %v, want (0, 1.55)", got.origin)
	}
	if got.dir != (cp.Vector{X: 0, Y: -1}) || !approx(got.max, 0.1) || got.mask != physics.LayerGround {
		t.Fatalf("unexpected box cast %+v", got)
	}
}

func TestLocomotionGroundedNeedsSettledVelocity(t *testing.T) {
	cases := []struct {
		name string
		vy   float64
		want bool
	}{
		{"resting", 0, true},
		{"falling", -4, true},
		{"within_epsilon", 0.1, true},
		{"rising", 5, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			loco, body := newTestLocomotion(t, component.DefaultLocomotionConfig(), &fakeSpace{ground: true})
			body.vel = cp.Vector{X: 0, Y: c.vy}
			loco.Step(tickAt(0), component.Input{})
			if loco.IsGrounded() != c.want {
				t.Fatalf("IsGrounded = %v, want %v", loco.IsGrounded(), c.want)
			}
		})
	}
}

func TestLocomotionGroundJump(t *testing.T) {
	loco, body := newTestLocomotion(t, component.DefaultLocomotionConfig(), &fakeSpace{ground: true})
	body.vel = cp.Vector{X: 3, Y: -0.5}

	loco.Step(tickAt(0), press())

	if loco.LastJump() != component.JumpGround {
		t.Fatalf("expected ground jump, got %v", loco.LastJump())
	}
	if !approx(body.vel.Y, 15) || !approx(body.vel.X, 3) {
		t.Fatalf("velocity after jump = %v, want (3, 15)", body.vel)
	}
	if loco.RemainingAirJumps() != 1 {
		t.Fatalf("ground jump must not spend air jumps, remaining %d", loco.RemainingAirJumps())
	}
	if loco.State().PendingJump {
		t.Fatalf("jump request should be consumed")
	}
}

func TestLocomotionAirJumps(t *testing.T) {
	loco, body := newTestLocomotion(t, component.DefaultLocomotionConfig(), &fakeSpace{})

	loco.Step(tickAt(0), press())
	if loco.LastJump() != component.JumpAir {
		t.Fatalf("expected air jump, got %v", loco.LastJump())
	}
	if !approx(body.vel.Y, 15) {
		t.Fatalf("vy = %v, want 15", body.vel.Y)
	}
	if loco.RemainingAirJumps() != 0 {
		t.Fatalf("remaining air jumps = %d, want 0", loco.RemainingAirJumps())
	}

	loco.Step(tickAt(1), press())
	if loco.LastJump() != component.JumpNone {
		t.Fatalf("no air jumps left, got %v", loco.LastJump())
	}
	if !loco.State().PendingJump {
		t.Fatalf("unresolved press should stay buffered")
	}

	for i := 2; i <= 15; i++ {
		loco.Step(tickAt(i), component.Input{})
	}
	if loco.State().PendingJump {
		t.Fatalf("buffered press should expire")
	}
}

func TestLocomotionLandingResetsAirJumps(t *testing.T) {
	space := &fakeSpace{}
	loco, body := newTestLocomotion(t, component.DefaultLocomotionConfig(), space)

	loco.Step(tickAt(0), press())
	if loco.RemainingAirJumps() != 0 {
		t.Fatalf("expected air jump to be spent")
	}

	body.vel = cp.Vector{X: 0, Y: -1}
	space.ground = true
	loco.Step(tickAt(1), component.Input{})
	if !loco.IsGrounded() {
		t.Fatalf("expected grounded after landing")
	}
	if loco.RemainingAirJumps() != 1 {
		t.Fatalf("landing should restore air jumps, remaining %d", loco.RemainingAirJumps())
	}
}

func TestLocomotionCoyoteTime(t *testing.T) {
	cases := []struct {
		name      string
		pressTick int
		want      component.JumpKind
		remaining int
	}{
		{"inside_window", 3, component.JumpCoyote, 0},
		{"last_tick_in_window", 7, component.JumpCoyote, 0},
		{"window_elapsed", 9, component.JumpAir, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			space := &fakeSpace{ground: true}
			loco, _ := newTestLocomotion(t, component.DefaultLocomotionConfig(), space)
			loco.Step(tickAt(0), component.Input{})

			space.ground = false
			for i := 1; i < c.pressTick; i++ {
				loco.Step(tickAt(i), component.Input{})
			}
			loco.Step(tickAt(c.pressTick), press())

			if loco.LastJump() != c.want {
				t.Fatalf("jump = %v, want %v", loco.LastJump(), c.want)
			}
			if loco.RemainingAirJumps() != c.remaining {
				t.Fatalf("remaining air jumps = %d, want %d", loco.RemainingAirJumps(), c.remaining)
			}
		})
	}
}

func TestLocomotionCoyoteOncePerLedge(t *testing.T) {
	space := &fakeSpace{ground: true}
	loco, _ := newTestLocomotion(t, component.DefaultLocomotionConfig(), space)
	loco.Step(tickAt(0), component.Input{})

	space.ground = false
	loco.Step(tickAt(1), press())
	if loco.LastJump() != component.JumpCoyote {
		t.Fatalf("expected coyote jump, got %v", loco.LastJump())
	}
	if loco.RemainingAirJumps() != 0 {
		t.Fatalf("coyote jump should spend the air credit, remaining %d", loco.RemainingAirJumps())
	}
	loco.Step(tickAt(2), press())
	if loco.LastJump() != component.JumpNone {
		t.Fatalf("second airborne jump should be rejected, got %v", loco.LastJump())
	}
	if used := loco.State().AirJumpsUsed; used != 1 {
		t.Fatalf("air jumps used = %d, want 1", used)
	}
}

func TestLocomotionCoyoteWithoutAirJumps(t *testing.T) {
	cfg := component.DefaultLocomotionConfig()
	cfg.MaxAirJumps = 0
	space := &fakeSpace{ground: true}
	loco, _ := newTestLocomotion(t, cfg, space)
	loco.Step(tickAt(0), component.Input{})

	space.ground = false
	loco.Step(tickAt(1), press())
	if loco.LastJump() != component.JumpCoyote {
		t.Fatalf("expected coyote jump, got %v", loco.LastJump())
	}
	if used := loco.State().AirJumpsUsed; used != 0 {
		t.Fatalf("air jumps used = %d, must not exceed max 0", used)
	}
}

func TestLocomotionJumpBuffer(t *testing.T) {
	cases := []struct {
		name     string
		landTick int
		want     component.JumpKind
	}{
		{"lands_inside_buffer", 5, component.JumpGround},
		{"lands_after_buffer", 11, component.JumpNone},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := component.DefaultLocomotionConfig()
			cfg.MaxAirJumps = 0
			space := &fakeSpace{}
			loco, body := newTestLocomotion(t, cfg, space)
			body.vel = cp.Vector{X: 0, Y: -5}

			loco.Step(tickAt(0), press())
			if loco.LastJump() != component.JumpNone {
				t.Fatalf("should not jump in the air without credits")
			}
			for i := 1; i < c.landTick; i++ {
				loco.Step(tickAt(i), component.Input{})
			}

			space.ground = true
			loco.Step(tickAt(c.landTick), component.Input{})
			if loco.LastJump() != c.want {
				t.Fatalf("jump on landing = %v, want %v", loco.LastJump(), c.want)
			}
		})
	}
}

func TestLocomotionWallJump(t *testing.T) {
	cases := []struct {
		name        string
		left, right float64
		wantVX      float64
		wantLeft    bool
	}{
		{"left_wall", 0.3, 0, 12, true},
		{"right_wall", 0, 0.4, -12, false},
		{"both_left_nearer", 0.3, 0.5, 12, true},
		{"both_right_nearer", 0.5, 0.3, -12, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			space := &fakeSpace{wallLeft: c.left, wallRight: c.right}
			loco, body := newTestLocomotion(t, component.DefaultLocomotionConfig(), space)
			body.vel = cp.Vector{X: -3, Y: -2}

			loco.Step(tickAt(0), press())

			st := loco.State()
			if st.OnWallLeft != c.wantLeft || st.OnWallRight == c.wantLeft {
				t.Fatalf("wall sides left=%v right=%v", st.OnWallLeft, st.OnWallRight)
			}
			if loco.LastJump() != component.JumpWall {
				t.Fatalf("expected wall jump, got %v", loco.LastJump())
			}
			if !approxVec(body.vel, cp.Vector{X: c.wantVX, Y: 18}) {
				t.Fatalf("velocity = %v, want (%v, 18)", body.vel, c.wantVX)
			}
			if loco.RemainingAirJumps() != 1 {
				t.Fatalf("wall jump must not spend air jumps")
			}
		})
	}
}

func TestLocomotionWallJumpCooldown(t *testing.T) {
	cfg := component.DefaultLocomotionConfig()
	cfg.WallJumpCooldown = 0.15
	loco, _ := newTestLocomotion(t, cfg, &fakeSpace{wallLeft: 0.3})

	loco.Step(tickAt(0), press())
	if loco.LastJump() != component.JumpWall {
		t.Fatalf("expected first wall jump, got %v", loco.LastJump())
	}

	loco.Step(tickAt(1), press())
	if loco.LastJump() != component.JumpNone {
		t.Fatalf("wall jump during cooldown, got %v", loco.LastJump())
	}
	for i := 2; i <= 7; i++ {
		loco.Step(tickAt(i), component.Input{})
		if loco.LastJump() != component.JumpNone {
			t.Fatalf("tick %d: jumped during cooldown", i)
		}
	}

	loco.Step(tickAt(8), component.Input{})
	if loco.LastJump() != component.JumpWall {
		t.Fatalf("buffered press should wall jump once cooldown ends, got %v", loco.LastJump())
	}
}

func TestLocomotionGroundBeatsWall(t *testing.T) {
	loco, _ := newTestLocomotion(t, component.DefaultLocomotionConfig(), &fakeSpace{ground: true, wallLeft: 0.3})
	loco.Step(tickAt(0), press())
	if loco.LastJump() != component.JumpGround {
		t.Fatalf("expected ground jump, got %v", loco.LastJump())
	}
}

func TestLocomotionHorizontalForce(t *testing.T) {
	cases := []struct {
		name      string
		ground    bool
		axis      float64
		vx        float64
		wantForce float64
		wantVX    float64
	}{
		{"accelerate_grounded", true, 1, 0, 400, 0},
		{"accelerate_airborne", false, 1, 0, 240, 0},
		{"decelerate_grounded", true, 0, 4, -200, 4},
		{"axis_clamped", true, -3, 0, -400, 0},
		{"overspeed_clamped", true, 1, 12, 0, 8},
		{"overspeed_reverse", true, 0, -12, 400, -8},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			loco, body := newTestLocomotion(t, component.DefaultLocomotionConfig(), &fakeSpace{ground: c.ground})
			body.vel = cp.Vector{X: c.vx, Y: 0}

			loco.Step(tickAt(0), component.Input{MoveX: c.axis})

			if !approx(body.force.X, c.wantForce) {
				t.Fatalf("force = %v, want %v", body.force.X, c.wantForce)
			}
			if !approx(body.vel.X, c.wantVX) {
				t.Fatalf("vx = %v, want %v", body.vel.X, c.wantVX)
			}
		})
	}
}

func TestLocomotionApproachesMoveSpeed(t *testing.T) {
	loco, body := newTestLocomotion(t, component.DefaultLocomotionConfig(), &fakeSpace{ground: true})
	dt := 1.0 / 60

	maxVX := 0.0
	for i := 0; i < 300; i++ {
		loco.Step(Tick{Index: uint64(i), Now: float64(i) * dt, DT: dt}, component.Input{MoveX: 1})
		body.integrate(cp.Vector{}, dt)
		if body.vel.X > maxVX {
			maxVX = body.vel.X
		}
	}
	if maxVX > 8+1e-9 {
		t.Fatalf("vx overshot move speed: %v", maxVX)
	}
	if body.vel.X < 8-1e-3 {
		t.Fatalf("vx did not approach move speed: %v", body.vel.X)
	}
}

func TestLocomotionYieldsToGrapple(t *testing.T) {
	attached := attachFlag(true)
	loco, body := newTestLocomotion(t, component.DefaultLocomotionConfig(), &fakeSpace{ground: true}, WithAttachQuery(&attached))

	loco.Step(tickAt(0), component.Input{MoveX: 1, JumpPressed: true})
	if len(body.forces) != 0 || len(body.impulses) != 0 {
		t.Fatalf("locomotion acted while attached: forces=%v impulses=%v", body.forces, body.impulses)
	}
	if loco.State().PendingJump {
		t.Fatalf("press while attached should be discarded")
	}
	if !loco.IsGrounded() {
		t.Fatalf("contact detection should still run while attached")
	}

	attached = false
	loco.Step(tickAt(1), component.Input{})
	if loco.LastJump() != component.JumpNone {
		t.Fatalf("discarded press produced a jump: %v", loco.LastJump())
	}
}

func TestLocomotionLogsJumps(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	loco, _ := newTestLocomotion(t, component.DefaultLocomotionConfig(), &fakeSpace{ground: true}, WithLogger(zap.New(core)))

	loco.Step(tickAt(4), press())

	entries := logs.FilterMessage("jump").All()
	if len(entries) != 1 {
		t.Fatalf("expected one jump log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["kind"] != "ground" {
		t.Fatalf("kind = %v, want ground", fields["kind"])
	}
	if fields["tick"] != uint64(4) {
		t.Fatalf("tick = %v, want 4", fields["tick"])
	}
}

func TestLocomotionSetConfig(t *testing.T) {
	loco, _ := newTestLocomotion(t, component.DefaultLocomotionConfig(), &fakeSpace{})
	loco.Step(tickAt(0), press())

	cfg := component.DefaultLocomotionConfig()
	cfg.MaxAirJumps = 3
	if err := loco.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if loco.RemainingAirJumps() != 2 {
		t.Fatalf("remaining = %d, want 2", loco.RemainingAirJumps())
	}

	cfg.MaxAirJumps = 0
	if err := loco.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if loco.RemainingAirJumps() != 0 {
		t.Fatalf("remaining = %d, want 0", loco.RemainingAirJumps())
	}

	cfg.MoveSpeed = -1
	if err := loco.SetConfig(cfg); !errors.Is(err, component.ErrInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}
