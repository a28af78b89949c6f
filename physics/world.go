package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeCharacter
)

// WorldConfig configures the Chipmunk space.
type WorldConfig struct {
	Gravity    cp.Vector
	Iterations int
}

func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Gravity:    cp.Vector{X: 0, Y: -30},
		Iterations: 20,
	}
}

// World owns the Chipmunk space, its static geometry and the layers each
// shape belongs to. It implements Space.
type World struct {
	space   *cp.Space
	gravity cp.Vector
	log     *zap.Logger

	shapeLayers map[*cp.Shape]Layer
	characters  []*CharacterBody
}

type WorldOption func(*World)

func WithLogger(log *zap.Logger) WorldOption {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

func NewWorld(cfg WorldConfig, opts ...WorldOption) *World {
	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	if cfg.Iterations <= 0 {
		space.Iterations = 20
	}
	space.SetGravity(cfg.Gravity)

	w := &World{
		space:       space,
		gravity:     cfg.Gravity,
		log:         zap.NewNop(),
		shapeLayers: make(map[*cp.Shape]Layer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

func (w *World) Gravity() cp.Vector {
	if w == nil {
		return cp.Vector{}
	}
	return w.gravity
}

// ShapeLayers reports the layers a shape was added with.
func (w *World) ShapeLayers(shape *cp.Shape) Layer {
	if w == nil {
		return LayerNone
	}
	return w.shapeLayers[shape]
}

// AddStaticBox adds a static axis-aligned box tagged with layers.
func (w *World) AddStaticBox(bb cp.BB, layers Layer) *cp.Shape {
	if w == nil || w.space == nil {
		return nil
	}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeSolid)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(layers), cp.ALL_CATEGORIES))
	w.space.AddShape(shape)
	w.shapeLayers[shape] = layers
	w.log.Debug("static box added",
		zap.Float64("l", bb.L), zap.Float64("b", bb.B),
		zap.Float64("r", bb.R), zap.Float64("t", bb.T),
		zap.Uint("layers", uint(layers)))
	return shape
}

// AddCharacter creates a rotation-locked dynamic box centred on pos.
func (w *World) AddCharacter(pos cp.Vector, width, height, mass float64) *CharacterBody {
	if w == nil || w.space == nil {
		return nil
	}
	if mass <= 0 {
		mass = 1
	}
	if width <= 0 || height <= 0 {
		width, height = 0.5, 1
	}

	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(pos)
	body.SetAngle(0)
	body.SetAngularVelocity(0)

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeCharacter)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(LayerCharacter), cp.ALL_CATEGORIES))

	w.space.AddBody(body)
	w.space.AddShape(shape)
	w.shapeLayers[shape] = LayerCharacter

	c := &CharacterBody{body: body, shape: shape, width: width, height: height}
	w.characters = append(w.characters, c)
	return c
}

// RemoveCharacter takes a character out of the space.
func (w *World) RemoveCharacter(c *CharacterBody) {
	if w == nil || w.space == nil || c == nil {
		return
	}
	for i, other := range w.characters {
		if other == c {
			w.characters = append(w.characters[:i], w.characters[i+1:]...)
			break
		}
	}
	if c.shape != nil {
		w.space.RemoveShape(c.shape)
		delete(w.shapeLayers, c.shape)
	}
	if c.body != nil {
		w.space.RemoveBody(c.body)
	}
}

// Step advances the simulation and keeps characters upright.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil || dt <= 0 {
		return
	}
	w.space.Step(dt)
	for _, c := range w.characters {
		c.body.SetAngle(0)
		c.body.SetAngularVelocity(0)
	}
}
