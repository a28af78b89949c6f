package physics

import "github.com/jakecoffman/cp"

// CharacterBody adapts a Chipmunk body to Body.
type CharacterBody struct {
	body   *cp.Body
	shape  *cp.Shape
	width  float64
	height float64
}

func (c *CharacterBody) Position() cp.Vector {
	return c.body.Position()
}

// SetPosition teleports the body. Used for constraint correction.
func (c *CharacterBody) SetPosition(p cp.Vector) {
	c.body.SetPosition(p)
}

func (c *CharacterBody) Velocity() cp.Vector {
	return c.body.Velocity()
}

func (c *CharacterBody) SetVelocity(v cp.Vector) {
	c.body.SetVelocityVector(v)
}

func (c *CharacterBody) Mass() float64 {
	return c.body.Mass()
}

func (c *CharacterBody) ApplyForce(f cp.Vector) {
	c.body.ApplyForceAtWorldPoint(f, c.body.Position())
}

func (c *CharacterBody) ApplyImpulse(j cp.Vector) {
	c.body.ApplyImpulseAtWorldPoint(j, c.body.Position())
}

// Size returns the collision box width and height.
func (c *CharacterBody) Size() (float64, float64) {
	return c.width, c.height
}

// Body exposes the Chipmunk body for debug drawing.
func (c *CharacterBody) Body() *cp.Body {
	return c.body
}
