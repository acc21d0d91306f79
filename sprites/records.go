package sprites

// Records stores sprites as one contiguous slice of records.
type Records struct {
	sprites []Sprite
}

// NewRecords creates an empty record store.
func NewRecords() *Records {
	return &Records{sprites: make([]Sprite, 0, 1024)}
}

func (r *Records) Layout() Layout { return LayoutRecords }

func (r *Records) Len() int { return len(r.sprites) }

func (r *Records) Add(s Sprite) { r.sprites = append(r.sprites, s) }

func (r *Records) At(i int) Sprite { return r.sprites[i] }

func (r *Records) Set(i int, s Sprite) { r.sprites[i] = s }

func (r *Records) RemoveLastHalf() {
	if n := len(r.sprites); n > 1 {
		r.sprites = r.sprites[:n/2]
	}
}

func (r *Records) Clear() { r.sprites = r.sprites[:0] }

func (r *Records) Rects(dst []Rect) []Rect {
	for i := range r.sprites {
		s := &r.sprites[i]
		dst = append(dst, Rect{X: s.X, Y: s.Y, W: s.W, H: s.H})
	}
	return dst
}

// Sprites returns the backing slice for in-place mutation.
// It is invalidated by the next structural change.
func (r *Records) Sprites() []Sprite { return r.sprites }
