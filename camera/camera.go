// Package camera turns mouse input into the view transform of an orbiting
// point cloud viewer.
package camera

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/seqsense/pcgol/mat"
)

const (
	defaultRotationGain    = 0.25
	defaultTranslationGain = 1.0
	defaultWheelGain       = 10
)

// Button identifies a mouse button.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
	ButtonTertiary
)

func (b Button) dragging() bool {
	switch b {
	case ButtonPrimary, ButtonSecondary, ButtonTertiary:
		return true
	}
	return false
}

// Vec3 is a three component vector.
type Vec3 struct {
	X, Y, Z float64
}

// State is the camera pose. Rotation holds Euler angles in degrees.
type State struct {
	Translation Vec3
	Rotation    Vec3
}

// Drag is the transient drag state. Button is ButtonNone while idle.
type Drag struct {
	Button       Button
	LastX, LastY int
}

// Gains scale input deltas.
type Gains struct {
	// Rotation in degrees per pixel.
	Rotation float64
	// Translation in units per pixel.
	Translation float64
	// Wheel in units per tick.
	Wheel float64
}

// DefaultGains returns 0.25 deg/px, 1 unit/px and 10 units/tick.
func DefaultGains() Gains {
	return Gains{
		Rotation:    defaultRotationGain,
		Translation: defaultTranslationGain,
		Wheel:       defaultWheelGain,
	}
}

// Controller owns the camera and drag state. It is not safe for
// concurrent use; all methods must be called from the input thread.
type Controller struct {
	gains Gains
	state State
	drag  Drag
	dirty bool
}

// NewController returns an idle controller at the origin.
func NewController(g Gains) *Controller {
	return &Controller{gains: g}
}

// State returns the current camera pose.
func (c *Controller) State() State {
	return c.state
}

// Drag returns the current drag state.
func (c *Controller) Drag() Drag {
	return c.drag
}

// Dragging reports whether a button is held.
func (c *Controller) Dragging() bool {
	return c.drag.Button != ButtonNone
}

// Reset moves the camera back to the origin and ends any drag.
func (c *Controller) Reset() {
	c.state = State{}
	c.drag = Drag{}
	c.dirty = true
}

// Invalidate requests a redraw without changing the pose.
func (c *Controller) Invalidate() {
	c.dirty = true
}

// Dirty reports whether a redraw was requested since the last call and
// clears the request.
func (c *Controller) Dirty() bool {
	d := c.dirty
	c.dirty = false
	return d
}

// Press starts a drag. A press while already dragging replaces the drag.
func (c *Controller) Press(b Button, x, y int) {
	if !b.dragging() {
		return
	}
	c.drag = Drag{Button: b, LastX: x, LastY: y}
}

// Release ends the drag regardless of the button.
func (c *Controller) Release(_ Button, _, _ int) {
	c.drag = Drag{}
}

// Move applies the cursor delta since the last observed position to the
// pose according to the held button. It is ignored while idle.
func (c *Controller) Move(x, y int) {
	if c.drag.Button == ButtonNone {
		return
	}
	dx := float64(x - c.drag.LastX)
	dy := float64(y - c.drag.LastY)
	switch c.drag.Button {
	case ButtonPrimary:
		c.state.Rotation.X -= c.gains.Rotation * dy
		c.state.Rotation.Y -= c.gains.Rotation * dx
	case ButtonTertiary:
		c.state.Rotation.X -= c.gains.Rotation * dy
		c.state.Rotation.Z -= c.gains.Rotation * dx
	case ButtonSecondary:
		c.state.Translation.Y -= c.gains.Translation * dy
		c.state.Translation.X += c.gains.Translation * dx
	}
	c.drag.LastX = x
	c.drag.LastY = y
	c.dirty = true
}

// Wheel moves the camera along z. Positive ticks are forward.
func (c *Controller) Wheel(ticks int) {
	if ticks == 0 {
		return
	}
	c.state.Translation.Z += c.gains.Wheel * float64(ticks)
	c.dirty = true
}

// ViewMatrix returns the model view matrix: translation first, then
// rotation about X, Y and Z in that order. Angles are truncated to whole
// degrees.
func (c *Controller) ViewMatrix() mat.Mat4 {
	return ViewMatrix(c.state)
}

// ViewMatrix returns the model view matrix of s.
func ViewMatrix(s State) mat.Mat4 {
	t := s.Translation
	return mat.Translate(float32(t.X), float32(t.Y), float32(t.Z)).
		Mul(RotateX(wholeDegrees(s.Rotation.X))).
		Mul(RotateY(wholeDegrees(s.Rotation.Y))).
		Mul(RotateZ(wholeDegrees(s.Rotation.Z)))
}

func wholeDegrees(deg float64) float32 {
	return float32(math.Trunc(deg))
}

// RotateX returns a counterclockwise rotation about the X axis.
func RotateX(deg float32) mat.Mat4 {
	s, c := sincosDeg(deg)
	return mat.Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY returns a counterclockwise rotation about the Y axis.
func RotateY(deg float32) mat.Mat4 {
	s, c := sincosDeg(deg)
	return mat.Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a counterclockwise rotation about the Z axis.
func RotateZ(deg float32) mat.Mat4 {
	s, c := sincosDeg(deg)
	return mat.Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func sincosDeg(deg float32) (float32, float32) {
	return math32.Sincos(deg * math32.Pi / 180)
}
