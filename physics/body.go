package physics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
)

// Layer is a bit set of collision categories. Static shapes carry one or more
// layers; queries pass a mask of the layers they accept.
type Layer uint

const (
	LayerGround Layer = 1 << iota
	LayerWall
	LayerGrapple
	LayerCharacter

	LayerNone Layer = 0
	LayerAll  Layer = LayerGround | LayerWall | LayerGrapple | LayerCharacter
)

var ErrUnknownLayer = errors.New("physics: unknown layer")

var layerNames = map[string]Layer{
	"ground":    LayerGround,
	"wall":      LayerWall,
	"grapple":   LayerGrapple,
	"character": LayerCharacter,
	"all":       LayerAll,
}

// ParseLayers ORs together layers given by name, case-insensitively.
func ParseLayers(names ...string) (Layer, error) {
	var l Layer
	for _, name := range names {
		v, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return LayerNone, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
		}
		l |= v
	}
	return l, nil
}

// Has reports whether l contains every bit of other.
func (l Layer) Has(other Layer) bool {
	return other != 0 && l&other == other
}

// Body is the rigid body shared by the locomotion and grapple controllers.
// The engine owns integration; controllers only submit forces, impulses and
// constraint corrections.
type Body interface {
	Position() cp.Vector
	SetPosition(p cp.Vector)
	Velocity() cp.Vector
	SetVelocity(v cp.Vector)
	Mass() float64
	// ApplyForce accumulates a force integrated on the next engine step.
	ApplyForce(f cp.Vector)
	// ApplyImpulse changes velocity immediately by j / mass.
	ApplyImpulse(j cp.Vector)
}

// Hit is the result of a successful cast.
type Hit struct {
	Point    cp.Vector
	Normal   cp.Vector
	Distance float64
	Layers   Layer
}

// Space answers shape-cast queries. A miss is reported as ok == false and
// is never an error.
type Space interface {
	Raycast(origin, dir cp.Vector, maxDistance float64, mask Layer) (Hit, bool)
	BoxCast(origin, size, dir cp.Vector, maxDistance float64, mask Layer) (Hit, bool)
	Gravity() cp.Vector
}
