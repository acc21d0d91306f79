package systems

import (
	"math"
	"math/rand"

	"github.com/dvmizew/DataOrientedDesignInGameDev/sprites"
)

// Area is an axis-aligned spawn rectangle.
type Area struct {
	X, Y, W, H float32
}

// Population grows and shrinks a sprite store.
// Spawned sprites move at a fixed speed in a uniformly random direction.
type Population struct {
	rng    *rand.Rand
	bounds Bounds
	w, h   float32
	speed  float32
}

// NewPopulation creates a population controller spawning w x h sprites
// inside bounds, drawing from rng.
func NewPopulation(rng *rand.Rand, bounds Bounds, w, h, speed float32) *Population {
	return &Population{rng: rng, bounds: bounds, w: w, h: h, speed: speed}
}

// Screen returns the area where a sprite fits entirely on screen.
func (p *Population) Screen() Area {
	return Area{W: p.bounds.Width - p.w, H: p.bounds.Height - p.h}
}

// Grow doubles the population up to maxCount and returns how many sprites
// were added. An empty store stays empty.
func (p *Population) Grow(store sprites.Store, maxCount int) int {
	current := store.Len()
	target := min(maxCount, current*2)
	if target <= current {
		return 0
	}
	p.spawnIn(store, target-current, p.Screen())
	return target - current
}

// Shrink halves the population, dropping the highest indices.
func (p *Population) Shrink(store sprites.Store) {
	store.RemoveLastHalf()
}

// Clear removes every sprite.
func (p *Population) Clear(store sprites.Store) {
	store.Clear()
}

// Spawn appends n sprites whose top-left corner is uniform inside area.
// The area is clipped to the region where a sprite fits on screen.
func (p *Population) Spawn(store sprites.Store, n int, area Area) {
	if n <= 0 {
		return
	}
	p.spawnIn(store, n, p.clip(area))
}

func (p *Population) clip(a Area) Area {
	scr := p.Screen()
	x0 := max(a.X, scr.X)
	y0 := max(a.Y, scr.Y)
	x1 := min(a.X+a.W, scr.X+scr.W)
	y1 := min(a.Y+a.H, scr.Y+scr.H)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Area{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (p *Population) spawnIn(store sprites.Store, n int, a Area) {
	for i := 0; i < n; i++ {
		angle := p.rng.Float32() * 2 * math.Pi
		store.Add(sprites.Sprite{
			X:  a.X + p.rng.Float32()*a.W,
			Y:  a.Y + p.rng.Float32()*a.H,
			W:  p.w,
			H:  p.h,
			VX: float32(math.Cos(float64(angle))) * p.speed,
			VY: float32(math.Sin(float64(angle))) * p.speed,
		})
	}
}
