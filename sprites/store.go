// Package sprites holds per-sprite state under interchangeable memory layouts.
//
// Every layout is an ordered, index-addressed collection. Indices are
// positional: they stay valid in [0, Len()) until the next Add,
// RemoveLastHalf or Clear. Removal always truncates the tail, so no sprite
// ever changes index. Out-of-range access is a caller bug and panics.
package sprites

import "fmt"

// Sprite is one simulated axis-aligned rectangle.
// W and H are fixed at spawn.
type Sprite struct {
	X, Y   float32
	W, H   float32
	VX, VY float32
}

// Rect is the drawable part of a sprite.
type Rect struct {
	X, Y, W, H float32
}

// Layout selects a memory layout.
type Layout uint8

const (
	LayoutRecords   Layout = iota // one []Sprite
	LayoutFields                  // one slice per field
	LayoutArchetype               // ark ECS entities
)

var layoutNames = [...]string{
	LayoutRecords:   "records",
	LayoutFields:    "fields",
	LayoutArchetype: "archetype",
}

// String returns the config name of the layout.
func (l Layout) String() string {
	if int(l) < len(layoutNames) {
		return layoutNames[l]
	}
	return fmt.Sprintf("Layout(%d)", uint8(l))
}

// Next returns the layout that follows l in toggle order.
func (l Layout) Next() Layout {
	return Layout((int(l) + 1) % len(layoutNames))
}

// Layouts returns every supported layout.
func Layouts() []Layout {
	return []Layout{LayoutRecords, LayoutFields, LayoutArchetype}
}

// ParseLayout maps a config name to a Layout.
func ParseLayout(name string) (Layout, error) {
	for i, n := range layoutNames {
		if n == name {
			return Layout(i), nil
		}
	}
	return 0, fmt.Errorf("unknown layout %q", name)
}

// Store is the capability set shared by all layouts.
type Store interface {
	Layout() Layout
	Len() int
	Add(s Sprite)
	At(i int) Sprite
	Set(i int, s Sprite)
	// RemoveLastHalf truncates to Len()/2 sprites. No-op when Len() <= 1.
	RemoveLastHalf()
	Clear()
	// Rects appends the drawable rectangle of every sprite to dst.
	Rects(dst []Rect) []Rect
}

// New creates an empty store with the given layout.
func New(layout Layout) Store {
	switch layout {
	case LayoutRecords:
		return NewRecords()
	case LayoutFields:
		return NewFields()
	case LayoutArchetype:
		return NewArchetype()
	}
	panic(fmt.Sprintf("sprites: unsupported layout %v", layout))
}

// CopyInto replaces the contents of dst with the sprites of src, in order.
func CopyInto(dst, src Store) {
	dst.Clear()
	n := src.Len()
	for i := 0; i < n; i++ {
		dst.Add(src.At(i))
	}
}
