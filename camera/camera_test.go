package camera

import (
	"testing"

	"github.com/seqsense/pcgol/mat"
	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-4

func assertVec3(t *testing.T, expected, actual mat.Vec3) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], tolerance, "Expected: %v, got: %v", expected, actual)
	}
}

func TestController_Drag(t *testing.T) {
	testCases := map[string]struct {
		events   []Event
		expected State
		drag     Drag
	}{
		"SecondaryPans": {
			events: []Event{
				{Type: EventPress, Button: ButtonSecondary, X: 100, Y: 100},
				{Type: EventMove, X: 110, Y: 90},
			},
			expected: State{Translation: Vec3{X: 10, Y: 10}},
			drag:     Drag{Button: ButtonSecondary, LastX: 110, LastY: 90},
		},
		"PrimaryRotatesXY": {
			events: []Event{
				{Type: EventPress, Button: ButtonPrimary, X: 0, Y: 0},
				{Type: EventMove, X: 4, Y: 8},
				{Type: EventMove, X: 0, Y: 12},
			},
			expected: State{Rotation: Vec3{X: -3, Y: 0}},
			drag:     Drag{Button: ButtonPrimary, LastX: 0, LastY: 12},
		},
		"TertiaryRotatesXZ": {
			events: []Event{
				{Type: EventPress, Button: ButtonTertiary, X: 10, Y: 10},
				{Type: EventMove, X: 14, Y: 6},
			},
			expected: State{Rotation: Vec3{X: 1, Z: -1}},
			drag:     Drag{Button: ButtonTertiary, LastX: 14, LastY: 6},
		},
		"IdleMoveIgnored": {
			events: []Event{
				{Type: EventMove, X: 50, Y: 50},
				{Type: EventPress, Button: ButtonSecondary, X: 0, Y: 0},
				{Type: EventRelease, Button: ButtonSecondary, X: 0, Y: 0},
				{Type: EventMove, X: 30, Y: 30},
			},
			expected: State{},
			drag:     Drag{},
		},
		"LastPressWins": {
			events: []Event{
				{Type: EventPress, Button: ButtonPrimary, X: 0, Y: 0},
				{Type: EventPress, Button: ButtonSecondary, X: 20, Y: 20},
				{Type: EventMove, X: 25, Y: 20},
			},
			expected: State{Translation: Vec3{X: 5}},
			drag:     Drag{Button: ButtonSecondary, LastX: 25, LastY: 20},
		},
		"UnknownButtonIgnored": {
			events: []Event{
				{Type: EventPress, Button: ButtonNone, X: 0, Y: 0},
				{Type: EventMove, X: 25, Y: 20},
			},
			expected: State{},
			drag:     Drag{},
		},
		"ReleaseAnyButtonEndsDrag": {
			events: []Event{
				{Type: EventPress, Button: ButtonPrimary, X: 0, Y: 0},
				{Type: EventRelease, Button: ButtonTertiary, X: 0, Y: 0},
				{Type: EventMove, X: 25, Y: 20},
			},
			expected: State{},
			drag:     Drag{},
		},
		"WheelDuringDrag": {
			events: []Event{
				{Type: EventPress, Button: ButtonPrimary, X: 0, Y: 0},
				{Type: EventWheel, Ticks: -1},
			},
			expected: State{Translation: Vec3{Z: -10}},
			drag:     Drag{Button: ButtonPrimary},
		},
	}

	for name, tt := range testCases {
		t.Run(name, func(t *testing.T) {
			c := NewController(DefaultGains())
			for _, e := range tt.events {
				c.Handle(e)
			}
			assert.Equal(t, tt.expected, c.State())
			assert.Equal(t, tt.drag, c.Drag())
		})
	}
}

func TestController_Gains(t *testing.T) {
	c := NewController(Gains{Rotation: 0.5, Translation: 2, Wheel: 3})
	c.Press(ButtonSecondary, 100, 100)
	c.Move(110, 90)
	assert.Equal(t, Vec3{X: 20, Y: 20}, c.State().Translation)

	c.Press(ButtonPrimary, 0, 0)
	c.Move(2, 4)
	assert.Equal(t, Vec3{X: -2, Y: -1}, c.State().Rotation)

	c.Wheel(2)
	assert.Equal(t, 6.0, c.State().Translation.Z)
}

func TestController_Wheel(t *testing.T) {
	c := NewController(DefaultGains())
	c.Wheel(1)
	c.Wheel(1)
	assert.Equal(t, 20.0, c.State().Translation.Z)
	assert.True(t, c.Dirty())

	c.Wheel(-1)
	assert.Equal(t, 10.0, c.State().Translation.Z)
}

func TestController_Dirty(t *testing.T) {
	c := NewController(DefaultGains())
	assert.False(t, c.Dirty(), "New controller must not request a redraw")

	c.Press(ButtonPrimary, 0, 0)
	assert.False(t, c.Dirty(), "Press alone must not request a redraw")

	c.Move(1, 1)
	c.Move(2, 2)
	c.Wheel(1)
	assert.True(t, c.Dirty())
	assert.False(t, c.Dirty(), "Redraw requests must coalesce")

	c.Release(ButtonPrimary, 2, 2)
	c.Move(3, 3)
	assert.False(t, c.Dirty(), "Idle move must not request a redraw")

	c.Invalidate()
	assert.True(t, c.Dirty())

	c.Reset()
	assert.True(t, c.Dirty())
	assert.Equal(t, State{}, c.State())
}

func TestViewMatrix_Order(t *testing.T) {
	s := State{Rotation: Vec3{X: 90, Y: 90}}
	m := ViewMatrix(s)

	inOrder := RotateX(90).Mul(RotateY(90))
	reversed := RotateY(90).Mul(RotateX(90))

	in := mat.Vec3{1, 0, 0}
	assertVec3(t, mat.Vec3{0, 1, 0}, m.Transform(in))
	assertVec3(t, inOrder.Transform(in), m.Transform(in))
	assertVec3(t, mat.Vec3{0, 0, -1}, reversed.Transform(in))

	d := m.Transform(in).Sub(reversed.Transform(in))
	assert.Greater(t, d.Norm(), float32(1), "Rotations must be applied X then Y")
}

func TestViewMatrix(t *testing.T) {
	testCases := map[string]struct {
		state    State
		in       mat.Vec3
		expected mat.Vec3
	}{
		"Identity": {
			in:       mat.Vec3{1, 2, 3},
			expected: mat.Vec3{1, 2, 3},
		},
		"TranslateOnly": {
			state:    State{Translation: Vec3{X: 1, Y: -2, Z: -10}},
			in:       mat.Vec3{1, 2, 3},
			expected: mat.Vec3{2, 0, -7},
		},
		"RotateX": {
			state:    State{Rotation: Vec3{X: 90}},
			in:       mat.Vec3{0, 1, 0},
			expected: mat.Vec3{0, 0, 1},
		},
		"RotateY": {
			state:    State{Rotation: Vec3{Y: 90}},
			in:       mat.Vec3{0, 0, 1},
			expected: mat.Vec3{1, 0, 0},
		},
		"RotateZ": {
			state:    State{Rotation: Vec3{Z: 90}},
			in:       mat.Vec3{1, 0, 0},
			expected: mat.Vec3{0, 1, 0},
		},
		"RotateThenTranslate": {
			state:    State{Translation: Vec3{Z: -5}, Rotation: Vec3{Z: 90}},
			in:       mat.Vec3{1, 0, 0},
			expected: mat.Vec3{0, 1, -5},
		},
		"TruncatedToWholeDegrees": {
			state:    State{Rotation: Vec3{Z: 90.99}},
			in:       mat.Vec3{1, 0, 0},
			expected: mat.Vec3{0, 1, 0},
		},
		"NegativeTruncatedTowardZero": {
			state:    State{Rotation: Vec3{Z: -90.75}},
			in:       mat.Vec3{1, 0, 0},
			expected: mat.Vec3{0, -1, 0},
		},
	}

	for name, tt := range testCases {
		t.Run(name, func(t *testing.T) {
			assertVec3(t, tt.expected, ViewMatrix(tt.state).Transform(tt.in))
		})
	}
}

func TestViewMatrix_FractionKeptInState(t *testing.T) {
	c := NewController(DefaultGains())
	c.Press(ButtonPrimary, 0, 0)
	// 3 px at 0.25 deg/px stays below a whole degree.
	c.Move(3, 0)
	assert.Equal(t, -0.75, c.State().Rotation.Y)
	assert.Equal(t, ViewMatrix(State{}), c.ViewMatrix())

	c.Move(4, 0)
	assert.Equal(t, -1.0, c.State().Rotation.Y)
	assert.Equal(t, ViewMatrix(State{Rotation: Vec3{Y: -1}}), c.ViewMatrix())
}
