package components

// Position represents a sprite's top-left corner in screen coordinates.
type Position struct {
	X, Y float32
}

// Velocity represents a sprite's velocity in units per second.
type Velocity struct {
	X, Y float32
}
