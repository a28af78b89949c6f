package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/swingkit/physics"
	"github.com/milk9111/swingkit/prefabs"
	"github.com/milk9111/swingkit/sim"
	"golang.org/x/image/colornames"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 6
)

type overlayColors struct {
	body    color.Color
	tether  color.Color
	probe   color.Color
	ground  color.Color
	wall    color.Color
	grapple color.Color
	pointer color.Color
}

func colorsFromSpec(d prefabs.DebugSpec) overlayColors {
	return overlayColors{
		body:    d.BodyColor.Color,
		tether:  d.TetherColor.Color,
		probe:   d.ProbeColor.Color,
		ground:  colornames.Sienna,
		wall:    colornames.Slategray,
		grapple: colornames.Goldenrod,
		pointer: colornames.Crimson,
	}
}

// shapeDrawer draws Chipmunk shapes through cp.DrawSpace, coloured by the
// physics layers each shape carries.
type shapeDrawer struct {
	screen *ebiten.Image
	cam    camera
	world  *physics.World
	colors overlayColors
}

func drawSpace(screen *ebiten.Image, cam camera, world *physics.World, colors overlayColors) {
	if screen == nil || world == nil || world.Space() == nil {
		return
	}
	cp.DrawSpace(world.Space(), &shapeDrawer{
		screen: screen,
		cam:    cam,
		world:  world,
		colors: colors,
	})
}

func (d *shapeDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawCircle(pos, radius, fill)
}

func (d *shapeDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, toNRGBA(fill))
}

func (d *shapeDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, toNRGBA(fill))
}

func (d *shapeDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], toNRGBA(fill))
}

func (d *shapeDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	x, y := d.cam.toScreen(pos)
	ebitenutil.DrawRect(d.screen, x-size/2, y-size/2, size, size, toNRGBA(fill))
}

func (d *shapeDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *shapeDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *shapeDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	layers := d.world.ShapeLayers(shape)
	switch {
	case layers.Has(physics.LayerCharacter):
		return toFColor(d.colors.body)
	case layers.Has(physics.LayerGround):
		return toFColor(d.colors.ground)
	case layers.Has(physics.LayerWall):
		return toFColor(d.colors.wall)
	case layers.Has(physics.LayerGrapple):
		return toFColor(d.colors.grapple)
	}
	return cp.FColor{R: 0.5, G: 0.5, B: 0.5, A: 0.5}
}

func (d *shapeDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *shapeDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *shapeDrawer) Data() interface{} {
	return nil
}

func (d *shapeDrawer) drawLine(a, b cp.Vector, c color.Color) {
	x1, y1 := d.cam.toScreen(a)
	x2, y2 := d.cam.toScreen(b)
	ebitenutil.DrawLine(d.screen, x1, y1, x2, y2, c)
}

func (d *shapeDrawer) drawPolygon(verts []cp.Vector, c color.Color) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *shapeDrawer) drawCircle(center cp.Vector, radius float64, fill cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, toNRGBA(fill))
}

// drawCharacterDebug draws the controller probes, the tether and a state
// readout for the simulated character.
func drawCharacterDebug(screen *ebiten.Image, cam camera, s *sim.Simulation, pointer cp.Vector, colors overlayColors) {
	d := &shapeDrawer{screen: screen, cam: cam, world: s.World(), colors: colors}
	snap := s.Snapshot()
	cfg := s.Locomotion().Config()
	pos := snap.Position

	// Ground probe: the swept box below the feet.
	half := cfg.GroundCheckSize.Mult(0.5)
	top := pos.Y - cfg.FeetOffset + cfg.GroundCheckSize.Y
	bottom := pos.Y - cfg.FeetOffset - cfg.GroundCheckDistance
	d.drawPolygon([]cp.Vector{
		{X: pos.X - half.X, Y: top},
		{X: pos.X + half.X, Y: top},
		{X: pos.X + half.X, Y: bottom},
		{X: pos.X - half.X, Y: bottom},
	}, colors.probe)

	// Wall probes.
	for _, side := range []float64{-1, 1} {
		end := pos.Add(cp.Vector{X: side * cfg.WallDetectionDistance})
		d.drawLine(pos, end, colors.probe)
	}

	if snap.Attached {
		d.drawLine(pos, snap.Anchor, colors.tether)
		ax, ay := cam.toScreen(snap.Anchor)
		ebitenutil.DrawRect(screen, ax-debugDotSize/2, ay-debugDotSize/2, debugDotSize, debugDotSize, colors.tether)
	} else {
		d.drawLine(pos, pointer, colornames.Dimgray)
	}
	px, py := cam.toScreen(pointer)
	ebitenutil.DrawRect(screen, px-debugDotSize/2, py-debugDotSize/2, debugDotSize, debugDotSize, colors.pointer)

	text := fmt.Sprintf(
		"Tick: %d\nPos: (%.2f, %.2f)\nVel: (%.2f, %.2f)\nGrounded: %v\nWall L/R: %v/%v\nAir jumps left: %d\nLast jump: %s\nGrapple (%s): %v",
		snap.Tick, pos.X, pos.Y, snap.Velocity.X, snap.Velocity.Y,
		snap.Grounded, snap.OnWallLeft, snap.OnWallRight,
		snap.RemainingAirJumps, snap.LastJump, snap.Model, snap.Attached)
	if snap.Attached {
		text += fmt.Sprintf("\nTether: %.2f", snap.TetherLength)
	}
	ebitenutil.DebugPrintAt(screen, text, 10, 24)
}

func toFColor(c color.Color) cp.FColor {
	if c == nil {
		return cp.FColor{A: 1}
	}
	r, g, b, a := c.RGBA()
	return cp.FColor{
		R: float32(r) / 0xffff,
		G: float32(g) / 0xffff,
		B: float32(b) / 0xffff,
		A: float32(a) / 0xffff,
	}
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
