package input

import (
	"context"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
)

// scriptPrelude declares the outputs a driver script assigns each frame.
const scriptPrelude = `
move := 0.0
jump := false
attach := false
release := false
scroll := 0.0
aim_x := pos_x
aim_y := pos_y
`

// Frame is what a driver script sees about the character.
type Frame struct {
	Index    uint64
	Time     float64
	Position cp.Vector
	Velocity cp.Vector
	Grounded bool
	OnWall   bool
	Attached bool
}

// ScriptSource is a Source driven by a tengo script, for headless runs.
// The script is re-run on every Advance with the frame globals set.
type ScriptSource struct {
	name     string
	compiled *tengo.Compiled

	move    float64
	scroll  float64
	pointer cp.Vector
	pressed map[Action]bool
}

func NewScriptSource(name string, src []byte) (*ScriptSource, error) {
	script := tengo.NewScript(append([]byte(scriptPrelude), src...))
	for _, g := range []struct {
		name  string
		value any
	}{
		{"frame", 0},
		{"time", 0.0},
		{"pos_x", 0.0},
		{"pos_y", 0.0},
		{"vel_x", 0.0},
		{"vel_y", 0.0},
		{"grounded", false},
		{"on_wall", false},
		{"attached", false},
	} {
		if err := script.Add(g.name, g.value); err != nil {
			return nil, fmt.Errorf("input: script %s: add %s: %w", name, g.name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap("math", "text", "fmt"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("input: script %s: compile: %w", name, err)
	}
	return &ScriptSource{
		name:     name,
		compiled: compiled,
		pressed:  map[Action]bool{},
	}, nil
}

func (s *ScriptSource) Name() string { return s.name }

// Advance runs the script for one frame and captures its outputs.
func (s *ScriptSource) Advance(ctx context.Context, f Frame) error {
	c := s.compiled
	sets := []struct {
		name  string
		value any
	}{
		{"frame", int(f.Index)},
		{"time", f.Time},
		{"pos_x", f.Position.X},
		{"pos_y", f.Position.Y},
		{"vel_x", f.Velocity.X},
		{"vel_y", f.Velocity.Y},
		{"grounded", f.Grounded},
		{"on_wall", f.OnWall},
		{"attached", f.Attached},
	}
	for _, v := range sets {
		if err := c.Set(v.name, v.value); err != nil {
			return fmt.Errorf("input: script %s: set %s: %w", s.name, v.name, err)
		}
	}
	if err := c.RunContext(ctx); err != nil {
		return fmt.Errorf("input: script %s: frame %d: %w", s.name, f.Index, err)
	}

	s.move = c.Get("move").Float()
	s.scroll = c.Get("scroll").Float()
	s.pointer = cp.Vector{X: c.Get("aim_x").Float(), Y: c.Get("aim_y").Float()}
	s.pressed[ActionJump] = c.Get("jump").Bool()
	s.pressed[ActionAttach] = c.Get("attach").Bool()
	s.pressed[ActionRelease] = c.Get("release").Bool()
	return nil
}

func (s *ScriptSource) Axis(name string) float64 {
	if name != AxisHorizontal {
		return 0
	}
	return s.move
}

func (s *ScriptSource) Pressed(a Action) bool { return s.pressed[a] }
func (s *ScriptSource) Scroll() float64       { return s.scroll }
func (s *ScriptSource) Pointer() cp.Vector    { return s.pointer }
