// Package components defines ECS components for the archetype sprite layout.
package components

// Extent is the fixed size of a sprite's bounding box, set at spawn.
type Extent struct {
	W, H float32
}
