package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/swingkit/component"
	"github.com/milk9111/swingkit/input"
	"github.com/milk9111/swingkit/levels"
	"github.com/milk9111/swingkit/physics"
	"github.com/milk9111/swingkit/prefabs"
	"github.com/milk9111/swingkit/system"
	"go.uber.org/zap"
)

const (
	DefaultTickRate         = 50
	DefaultMaxTicksPerFrame = 5

	// killDepth is how far below the level a character may fall before it
	// is respawned.
	killDepth = 10
)

var ErrNilLevel = errors.New("sim: level is nil")

type options struct {
	log      *zap.Logger
	tickRate int
	maxTicks int
}

type Option func(*options)

func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithTickRate sets the number of fixed steps per simulated second.
func WithTickRate(hz int) Option {
	return func(o *options) {
		if hz > 0 {
			o.tickRate = hz
		}
	}
}

// WithMaxTicksPerFrame caps how many fixed steps one Frame may run. Time
// beyond the cap is dropped.
func WithMaxTicksPerFrame(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTicks = n
		}
	}
}

// Simulation owns one level, one character and the controllers driving it.
// It is not safe for concurrent use; run independent simulations instead.
type Simulation struct {
	level *levels.Level
	spec  prefabs.PlayerSpec
	log   *zap.Logger

	world     *physics.World
	body      *physics.CharacterBody
	loco      *system.Locomotion
	grapple   *system.Grapple
	scheduler *system.Scheduler
	sampler   *input.Sampler

	dt       float64
	maxTicks int
	acc      float64
	tick     uint64

	stats Stats
}

func New(level *levels.Level, spec prefabs.PlayerSpec, opts ...Option) (*Simulation, error) {
	if level == nil {
		return nil, ErrNilLevel
	}
	o := options{
		log:      zap.NewNop(),
		tickRate: DefaultTickRate,
		maxTicks: DefaultMaxTicksPerFrame,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	world := physics.NewWorld(level.WorldConfig(), physics.WithLogger(o.log.Named("physics")))
	if _, err := levels.Build(level, world); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	s := &Simulation{
		level:    level,
		log:      o.log,
		world:    world,
		sampler:  input.NewSampler(),
		dt:       1 / float64(o.tickRate),
		maxTicks: o.maxTicks,
		stats:    newStats(),
	}
	if err := s.spawn(spec, level.Spawn(), cp.Vector{}); err != nil {
		return nil, err
	}
	s.log.Info("simulation ready",
		zap.String("level", level.Name),
		zap.String("player", spec.Name),
		zap.Float64("dt", s.dt))
	return s, nil
}

// spawn replaces the character with a fresh one built from spec.
func (s *Simulation) spawn(spec prefabs.PlayerSpec, pos, vel cp.Vector) error {
	locoCfg, grappleCfg, err := spec.Configs()
	if err != nil {
		return fmt.Errorf("sim: %w", err)
	}

	body := s.world.AddCharacter(pos, spec.Body.Width, spec.Body.Height, spec.Body.Mass)
	body.SetVelocity(vel)

	grapple, err := system.NewGrapple(grappleCfg, body, s.world,
		system.WithLogger(s.log.Named("grapple")))
	if err != nil {
		s.world.RemoveCharacter(body)
		return fmt.Errorf("sim: %w", err)
	}
	loco, err := system.NewLocomotion(locoCfg, body, s.world,
		system.WithLogger(s.log.Named("locomotion")),
		system.WithAttachQuery(grapple))
	if err != nil {
		s.world.RemoveCharacter(body)
		return fmt.Errorf("sim: %w", err)
	}

	if s.body != nil {
		s.world.RemoveCharacter(s.body)
	}
	s.spec = spec
	s.body = body
	s.loco = loco
	s.grapple = grapple
	s.scheduler = system.NewScheduler(loco, grapple)
	return nil
}

// Frame samples src once and runs as many fixed steps as elapsed seconds
// allow. It returns the number of steps run.
func (s *Simulation) Frame(src input.Source, elapsed float64) int {
	s.sampler.Sample(src)
	if elapsed > 0 {
		s.acc += elapsed
	}

	n := 0
	for s.acc >= s.dt && n < s.maxTicks {
		s.Tick()
		s.acc -= s.dt
		n++
	}
	if s.acc >= s.dt {
		s.log.Debug("frame budget exceeded, dropping time",
			zap.Float64("dropped", s.acc),
			zap.Int("ticks", n))
		s.acc = 0
	}
	return n
}

// Tick runs exactly one fixed step: controllers in order, then the engine.
func (s *Simulation) Tick() {
	in := s.sampler.Drain()
	t := system.Tick{Index: s.tick, Now: float64(s.tick) * s.dt, DT: s.dt}

	wasAttached := s.grapple.IsAttached()
	s.scheduler.Step(t, in)
	s.world.Step(s.dt)
	s.tick++

	s.stats.record(s, wasAttached)

	if s.body.Position().Y < s.level.Bounds().B-killDepth {
		s.log.Info("character fell out of the level", zap.Uint64("tick", t.Index))
		s.Respawn()
	}
}

// ApplySpec rebuilds the character from a new spec, keeping its position and
// velocity. Any grapple is dropped. On error the old character is kept.
func (s *Simulation) ApplySpec(spec prefabs.PlayerSpec) error {
	pos, vel := s.body.Position(), s.body.Velocity()
	if err := s.spawn(spec, pos, vel); err != nil {
		s.log.Error("player spec rejected", zap.Error(err))
		return err
	}
	s.log.Info("player spec applied", zap.String("player", spec.Name))
	return nil
}

// Respawn puts a fresh character at the level's spawn point.
func (s *Simulation) Respawn() {
	if err := s.spawn(s.spec, s.level.Spawn(), cp.Vector{}); err != nil {
		s.log.Error("respawn failed", zap.Error(err))
		return
	}
	s.sampler.Drain()
	s.stats.Respawns++
}

// Interrupt detaches the grapple without a release boost.
func (s *Simulation) Interrupt() {
	s.grapple.Interrupt()
}

// InputFrame describes the character for a scripted input source.
func (s *Simulation) InputFrame() input.Frame {
	return input.Frame{
		Index:    s.tick,
		Time:     float64(s.tick) * s.dt,
		Position: s.body.Position(),
		Velocity: s.body.Velocity(),
		Grounded: s.loco.IsGrounded(),
		OnWall:   s.loco.IsOnWall(),
		Attached: s.grapple.IsAttached(),
	}
}

func (s *Simulation) World() *physics.World          { return s.world }
func (s *Simulation) Body() *physics.CharacterBody   { return s.body }
func (s *Simulation) Locomotion() *system.Locomotion { return s.loco }
func (s *Simulation) Grapple() *system.Grapple       { return s.grapple }
func (s *Simulation) Level() *levels.Level           { return s.level }
func (s *Simulation) Spec() prefabs.PlayerSpec       { return s.spec }
func (s *Simulation) DT() float64                    { return s.dt }
func (s *Simulation) TickIndex() uint64              { return s.tick }

// PendingInput is the input the next tick will drain.
func (s *Simulation) PendingInput() component.Input {
	return s.sampler.Peek()
}

// Snapshot is a read-only mirror of the character for display and reports.
type Snapshot struct {
	Tick              uint64    `yaml:"tick"`
	Position          cp.Vector `yaml:"position,flow"`
	Velocity          cp.Vector `yaml:"velocity,flow"`
	Grounded          bool      `yaml:"grounded"`
	OnWallLeft        bool      `yaml:"on_wall_left"`
	OnWallRight       bool      `yaml:"on_wall_right"`
	RemainingAirJumps int       `yaml:"remaining_air_jumps"`
	LastJump          string    `yaml:"last_jump"`
	Attached          bool      `yaml:"attached"`
	Anchor            cp.Vector `yaml:"anchor,flow,omitempty"`
	TetherLength      float64   `yaml:"tether_length,omitempty"`
	Model             string    `yaml:"model"`
}

func (s *Simulation) Snapshot() Snapshot {
	ls := s.loco.State()
	anchor, attached := s.grapple.Anchor()
	snap := Snapshot{
		Tick:              s.tick,
		Position:          s.body.Position(),
		Velocity:          s.body.Velocity(),
		Grounded:          ls.Grounded,
		OnWallLeft:        ls.OnWallLeft,
		OnWallRight:       ls.OnWallRight,
		RemainingAirJumps: s.loco.RemainingAirJumps(),
		LastJump:          s.loco.LastJump().String(),
		Attached:          attached,
		Model:             string(s.grapple.Model().Name()),
	}
	if attached {
		snap.Anchor = anchor
		snap.TetherLength = s.grapple.TetherLength()
	}
	return snap
}

// Stats accumulates over the life of a simulation.
type Stats struct {
	Ticks     uint64         `yaml:"ticks"`
	MaxHeight float64        `yaml:"max_height"`
	MaxSpeed  float64        `yaml:"max_speed"`
	Jumps     map[string]int `yaml:"jumps"`
	Attaches  int            `yaml:"attaches"`
	Releases  int            `yaml:"releases"`
	Respawns  int            `yaml:"respawns"`
}

func newStats() Stats {
	return Stats{
		MaxHeight: math.Inf(-1),
		Jumps:     map[string]int{},
	}
}

func (st *Stats) record(s *Simulation, wasAttached bool) {
	st.Ticks++
	pos := s.body.Position()
	st.MaxHeight = math.Max(st.MaxHeight, pos.Y)
	st.MaxSpeed = math.Max(st.MaxSpeed, s.body.Velocity().Length())
	if kind := s.loco.LastJump(); kind != component.JumpNone {
		st.Jumps[kind.String()]++
	}
	attached := s.grapple.IsAttached()
	switch {
	case attached && !wasAttached:
		st.Attaches++
	case !attached && wasAttached:
		st.Releases++
	}
}

// Stats returns a copy of the accumulated stats.
func (s *Simulation) Stats() Stats {
	out := s.stats
	out.Jumps = make(map[string]int, len(s.stats.Jumps))
	for k, v := range s.stats.Jumps {
		out.Jumps[k] = v
	}
	return out
}
