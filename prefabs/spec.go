package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/swingkit/component"
	"github.com/milk9111/swingkit/physics"
	"gopkg.in/yaml.v3"
)

const PlayerFile = "player.yaml"

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// PlayerSpec is the YAML form of a character's tunables. Fields missing
// from the file keep their defaults.
type PlayerSpec struct {
	Name       string         `yaml:"name"`
	Body       BodySpec       `yaml:"body"`
	Locomotion LocomotionSpec `yaml:"locomotion"`
	Grapple    GrappleSpec    `yaml:"grapple"`
	Debug      DebugSpec      `yaml:"debug"`
}

type BodySpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Mass   float64 `yaml:"mass"`
}

type LocomotionSpec struct {
	MoveSpeed            float64 `yaml:"move_speed"`
	Acceleration         float64 `yaml:"acceleration"`
	Deceleration         float64 `yaml:"deceleration"`
	AirControlMultiplier float64 `yaml:"air_control_multiplier"`

	JumpForce      float64 `yaml:"jump_force"`
	MaxAirJumps    int     `yaml:"max_air_jumps"`
	JumpBufferTime float64 `yaml:"jump_buffer_time"`
	CoyoteTime     float64 `yaml:"coyote_time"`

	WallJumpForce           float64   `yaml:"wall_jump_force"`
	WallJumpHorizontalForce float64   `yaml:"wall_jump_horizontal_force"`
	WallJumpCooldown        float64   `yaml:"wall_jump_cooldown"`
	WallDetectionDistance   float64   `yaml:"wall_detection_distance"`
	WallLayers              LayerList `yaml:"wall_layers"`

	GroundCheckDistance     float64   `yaml:"ground_check_distance"`
	GroundCheckSize         Vec2      `yaml:"ground_check_size"`
	GroundedVelocityEpsilon float64   `yaml:"grounded_velocity_epsilon"`
	GroundLayers            LayerList `yaml:"ground_layers"`
}

type GrappleSpec struct {
	Model              string    `yaml:"model"`
	Range              float64   `yaml:"range"`
	Layers             LayerList `yaml:"layers"`
	SwingForce         float64   `yaml:"swing_force"`
	PullForce          float64   `yaml:"pull_force"`
	PullThreshold      float64   `yaml:"pull_threshold"`
	CounterImpulse     float64   `yaml:"counter_impulse"`
	MinLength          float64   `yaml:"min_length"`
	MaxLength          float64   `yaml:"max_length"`
	ScrollSensitivity  float64   `yaml:"scroll_sensitivity"`
	MomentumMultiplier float64   `yaml:"momentum_multiplier"`
	AirDrag            float64   `yaml:"air_drag"`
}

// DebugSpec colours the sandbox overlay.
type DebugSpec struct {
	BodyColor   YAMLColor `yaml:"body_color"`
	TetherColor YAMLColor `yaml:"tether_color"`
	ProbeColor  YAMLColor `yaml:"probe_color"`
}

func DefaultPlayerSpec() PlayerSpec {
	loco := component.DefaultLocomotionConfig()
	grapple := component.DefaultGrappleConfig()
	return PlayerSpec{
		Name: "player",
		Body: BodySpec{Width: 0.5, Height: 1, Mass: 1},
		Locomotion: LocomotionSpec{
			MoveSpeed:               loco.MoveSpeed,
			Acceleration:            loco.Acceleration,
			Deceleration:            loco.Deceleration,
			AirControlMultiplier:    loco.AirControlMultiplier,
			JumpForce:               loco.JumpForce,
			MaxAirJumps:             loco.MaxAirJumps,
			JumpBufferTime:          loco.JumpBufferTime,
			CoyoteTime:              loco.CoyoteTime,
			WallJumpForce:           loco.WallJumpForce,
			WallJumpHorizontalForce: loco.WallJumpHorizontalForce,
			WallJumpCooldown:        loco.WallJumpCooldown,
			WallDetectionDistance:   loco.WallDetectionDistance,
			WallLayers:              LayerList{Mask: loco.WallMask},
			GroundCheckDistance:     loco.GroundCheckDistance,
			GroundCheckSize:         Vec2{X: loco.GroundCheckSize.X, Y: loco.GroundCheckSize.Y},
			GroundedVelocityEpsilon: loco.GroundedVelocityEpsilon,
			GroundLayers:            LayerList{Mask: loco.GroundMask},
		},
		Grapple: GrappleSpec{
			Model:              string(grapple.Model),
			Range:              grapple.Range,
			Layers:             LayerList{Mask: grapple.GrappleMask},
			SwingForce:         grapple.SwingForce,
			PullForce:          grapple.PullForce,
			PullThreshold:      grapple.PullThreshold,
			CounterImpulse:     grapple.CounterImpulse,
			MinLength:          grapple.MinLength,
			MaxLength:          grapple.MaxLength,
			ScrollSensitivity:  grapple.ScrollSensitivity,
			MomentumMultiplier: grapple.MomentumMultiplier,
			AirDrag:            grapple.AirDrag,
		},
		Debug: DebugSpec{
			BodyColor:   YAMLColor{Color: color.NRGBA{R: 0x4f, G: 0xc3, B: 0xf7, A: 0xff}},
			TetherColor: YAMLColor{Color: color.NRGBA{R: 0xff, G: 0xd5, B: 0x4f, A: 0xff}},
			ProbeColor:  YAMLColor{Color: color.NRGBA{R: 0x81, G: 0xc7, B: 0x84, A: 0xff}},
		},
	}
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	return LoadPlayerSpecFile(PlayerFile)
}

func LoadPlayerSpecFile(filename string) (*PlayerSpec, error) {
	data, err := Load(filename)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return ParsePlayerSpec(filename, data)
}

// ParsePlayerSpec decodes data over the defaults and validates the result.
func ParsePlayerSpec(filename string, data []byte) (*PlayerSpec, error) {
	spec := DefaultPlayerSpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	if _, _, err := spec.Configs(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}

// Configs converts the spec into validated controller configs.
func (s PlayerSpec) Configs() (component.LocomotionConfig, component.GrappleConfig, error) {
	if s.Body.Width <= 0 || s.Body.Height <= 0 || s.Body.Mass <= 0 {
		return component.LocomotionConfig{}, component.GrappleConfig{},
			fmt.Errorf("%w: body dimensions and mass must be positive", ErrInvalidSpec)
	}

	l := s.Locomotion
	loco := component.LocomotionConfig{
		MoveSpeed:               l.MoveSpeed,
		Acceleration:            l.Acceleration,
		Deceleration:            l.Deceleration,
		AirControlMultiplier:    l.AirControlMultiplier,
		JumpForce:               l.JumpForce,
		MaxAirJumps:             l.MaxAirJumps,
		JumpBufferTime:          l.JumpBufferTime,
		CoyoteTime:              l.CoyoteTime,
		WallJumpForce:           l.WallJumpForce,
		WallJumpHorizontalForce: l.WallJumpHorizontalForce,
		WallJumpCooldown:        l.WallJumpCooldown,
		WallDetectionDistance:   l.WallDetectionDistance,
		WallMask:                l.WallLayers.Mask,
		FeetOffset:              s.Body.Height / 2,
		GroundCheckDistance:     l.GroundCheckDistance,
		GroundCheckSize:         cp.Vector{X: l.GroundCheckSize.X, Y: l.GroundCheckSize.Y},
		GroundedVelocityEpsilon: l.GroundedVelocityEpsilon,
		GroundMask:              l.GroundLayers.Mask,
	}
	if err := loco.Validate(); err != nil {
		return component.LocomotionConfig{}, component.GrappleConfig{}, err
	}

	g := s.Grapple
	grapple := component.GrappleConfig{
		Model:              component.GrappleModel(strings.ToLower(strings.TrimSpace(g.Model))),
		Range:              g.Range,
		GrappleMask:        g.Layers.Mask,
		SwingForce:         g.SwingForce,
		PullForce:          g.PullForce,
		PullThreshold:      g.PullThreshold,
		CounterImpulse:     g.CounterImpulse,
		MinLength:          g.MinLength,
		MaxLength:          g.MaxLength,
		ScrollSensitivity:  g.ScrollSensitivity,
		MomentumMultiplier: g.MomentumMultiplier,
		AirDrag:            g.AirDrag,
	}
	if err := grapple.Validate(); err != nil {
		return component.LocomotionConfig{}, component.GrappleConfig{}, err
	}
	return loco, grapple, nil
}

// LayerList accepts a single layer name or a list of names.
type LayerList struct {
	Mask physics.Layer
}

func (l *LayerList) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	switch value.Kind {
	case yaml.ScalarNode:
		names = []string{value.Value}
	case yaml.SequenceNode:
		if err := value.Decode(&names); err != nil {
			return err
		}
	default:
		return fmt.Errorf("layers must be a name or a list of names")
	}
	mask, err := physics.ParseLayers(names...)
	if err != nil {
		return err
	}
	l.Mask = mask
	return nil
}

// Vec2 accepts either [x, y] or {x: .., y: ..}.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v *Vec2) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var xy []float64
		if err := value.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("vector needs 2 components, got %d", len(xy))
		}
		v.X, v.Y = xy[0], xy[1]
		return nil
	}
	type plain Vec2
	return value.Decode((*plain)(v))
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
