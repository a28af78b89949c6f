package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/swingkit/input"
)

const stickDeadzone = 0.2

// deviceSource reads keyboard, mouse and the first gamepad once per frame.
type deviceSource struct {
	axis    float64
	pressed map[input.Action]bool
	scroll  float64
	pointer cp.Vector
}

func newDeviceSource() *deviceSource {
	return &deviceSource{pressed: map[input.Action]bool{}}
}

func (d *deviceSource) poll(cam camera) {
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyW) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp)
	attachPressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	releasePressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) ||
		inpututil.IsKeyJustPressed(ebiten.KeyE)

	moveX := 0.0
	if left {
		moveX -= 1
	}
	if right {
		moveX += 1
	}

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			moveX = leftX
		}
		jumpPressed = jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		attachPressed = attachPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		releasePressed = releasePressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomLeft)
	}

	_, wheelY := ebiten.Wheel()
	mx, my := ebiten.CursorPosition()

	d.axis = moveX
	// Wheel up reels in.
	d.scroll = -wheelY
	d.pointer = cam.toWorld(float64(mx), float64(my))
	d.pressed[input.ActionJump] = jumpPressed
	d.pressed[input.ActionAttach] = attachPressed
	d.pressed[input.ActionRelease] = releasePressed
}

func (d *deviceSource) Axis(name string) float64 {
	if name != input.AxisHorizontal {
		return 0
	}
	return d.axis
}

func (d *deviceSource) Pressed(a input.Action) bool { return d.pressed[a] }
func (d *deviceSource) Scroll() float64             { return d.scroll }
func (d *deviceSource) Pointer() cp.Vector          { return d.pointer }
