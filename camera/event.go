package camera

// EventType is the kind of an input event.
type EventType int

const (
	EventPress EventType = iota
	EventRelease
	EventMove
	EventWheel
)

// Event is an input event delivered by a windowing frontend.
type Event struct {
	Type   EventType
	Button Button
	X, Y   int
	// Ticks is the number of wheel detents, positive forward.
	Ticks int
}

// Handle dispatches e to the corresponding controller method.
func (c *Controller) Handle(e Event) {
	switch e.Type {
	case EventPress:
		c.Press(e.Button, e.X, e.Y)
	case EventRelease:
		c.Release(e.Button, e.X, e.Y)
	case EventMove:
		c.Move(e.X, e.Y)
	case EventWheel:
		c.Wheel(e.Ticks)
	}
}
